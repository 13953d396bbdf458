// Package service provides application-level services that orchestrate
// domain logic, AI generation, and persistence. Services own the business
// workflows; the API layer translates their results and errors into HTTP
// responses.
package service
