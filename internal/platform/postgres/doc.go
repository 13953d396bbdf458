// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a database handle or transaction from the
// caller and maps driver-level failures onto the sentinel errors defined in
// the store package.
package postgres
