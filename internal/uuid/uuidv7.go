// Package uuid generates the identifiers the ledger assigns to its records.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a time-ordered UUIDv7 string. Records created in sequence
// sort in creation order by id.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fall back to a random v4 if the entropy source fails.
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
