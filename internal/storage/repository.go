package storage

import "time"

// Repository abstracts the sqlite store so services and handlers can be
// tested with in-memory fakes.
type Repository interface {
	// Roster cache
	ReplaceRoster(entries []RosterEntry) error
	GetRoster() ([]RosterEntry, error)
	// RosterFetchedAt returns the newest FetchedAt in the cache, zero when
	// the cache is empty.
	RosterFetchedAt() (time.Time, error)

	// Customization store (written by the presentation layer; the core
	// only reads it)
	AddCustomization(c *Customization) error
	GetCustomizations(handle string) ([]Customization, error)
	GetAllCustomizations() ([]Customization, error)
}
