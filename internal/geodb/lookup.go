package geodb

import "errors"

var (
	// ErrResourceUnavailable is returned when the database file is missing,
	// unreadable, corrupt or not a City database.
	ErrResourceUnavailable = errors.New("database unavailable")

	// ErrInvalidQuery is returned when the query is not a usable IP address.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNotFound is returned when the database has no entry for the address.
	ErrNotFound = errors.New("address not found")

	// ErrLocaleUnavailable is returned when a record has no name for the
	// requested locale.
	ErrLocaleUnavailable = errors.New("locale unavailable")

	// ErrClosed is returned when a reader is used after Close.
	ErrClosed = errors.New("reader closed")
)

// CityLookup defines the interface for IP-to-city lookups.
type CityLookup interface {
	// LookupCity returns the city record for the given IP address string.
	// Returns ErrInvalidQuery if ip is not an address and ErrNotFound if the
	// database holds no entry for it.
	LookupCity(ip string) (*Record, error)

	// Metadata describes the opened database.
	Metadata() Metadata

	// Close releases any resources held by the lookup implementation.
	Close() error
}
