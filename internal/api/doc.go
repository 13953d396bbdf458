// Package api contains the HTTP handlers, request/response models, and
// error mapping for the public REST surface. Handlers decode and validate
// requests, delegate to the service layer, and translate outcomes into
// HTTP responses with sanitized error messages.
package api
