package geodb

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// MmdbReader implements CityLookup using a MaxMind MMDB file.
type MmdbReader struct {
	mu     sync.RWMutex
	db     *maxminddb.Reader
	closed bool
}

type openConfig struct {
	verify bool
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

// WithVerify checks the whole search tree and data section before the
// reader is returned.
func WithVerify() OpenOption {
	return func(c *openConfig) { c.verify = true }
}

// Open opens the MMDB file at the given path and returns a reader. The file
// must be a City (or Enterprise) database.
func Open(path string, opts ...OpenOption) (*MmdbReader, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open MMDB file %s: %w", ErrResourceUnavailable, path, err)
	}

	dbType := db.Metadata.DatabaseType
	if !strings.Contains(dbType, "City") && !strings.Contains(dbType, "Enterprise") {
		db.Close()
		return nil, fmt.Errorf("%w: %s is a %q database, want a City database", ErrResourceUnavailable, path, dbType)
	}

	if cfg.verify {
		if err := db.Verify(); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: verification of %s failed: %w", ErrResourceUnavailable, path, err)
		}
	}

	return &MmdbReader{db: db}, nil
}

// LookupCity returns the city record for the given IP address string.
func (r *MmdbReader) LookupCity(ipStr string) (*Record, error) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil, fmt.Errorf("%w: %q is not an IP address", ErrInvalidQuery, ipStr)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}

	if ip.To4() == nil && r.db.Metadata.IPVersion == 4 {
		return nil, fmt.Errorf("%w: %s is an IPv6 address and the database is IPv4-only", ErrInvalidQuery, ipStr)
	}

	var raw map[string]any
	network, ok, err := r.db.LookupNetwork(ip, &raw)
	if err != nil {
		return nil, fmt.Errorf("city lookup failed: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ipStr)
	}

	rec := &Record{IP: ip, Network: network, Raw: raw}
	if err := r.db.Lookup(ip, &rec.City); err != nil {
		return nil, fmt.Errorf("city lookup failed: %w", err)
	}
	return rec, nil
}

// Metadata describes the opened database.
func (r *MmdbReader) Metadata() Metadata {
	m := r.db.Metadata
	return Metadata{
		DatabaseType: m.DatabaseType,
		Description:  m.Description,
		Languages:    m.Languages,
		BuildTime:    time.Unix(int64(m.BuildEpoch), 0).UTC(),
		IPVersion:    m.IPVersion,
		NodeCount:    m.NodeCount,
		RecordSize:   m.RecordSize,
		FormatMajor:  m.BinaryFormatMajorVersion,
		FormatMinor:  m.BinaryFormatMinorVersion,
	}
}

// Close releases the MMDB reader resources. Calling it more than once is a
// no-op.
func (r *MmdbReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

var _ CityLookup = (*MmdbReader)(nil)
