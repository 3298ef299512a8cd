// Package id generates ULID identifiers for ledger entities. ULIDs sort
// lexicographically by creation time, which keeps CSV files and listings in
// a stable, readable order.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string.
func New() string {
	return ulid.Make().String()
}

// Valid reports whether s parses as a ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
