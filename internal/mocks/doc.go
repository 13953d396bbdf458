// Package mocks provides hand-rolled test doubles for the interfaces
// defined across the application. Each mock exposes Fn hooks for custom
// behavior, default return fields, and call counters for verification.
package mocks
