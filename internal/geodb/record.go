package geodb

import (
	"fmt"
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
)

// Record is the result of a single city lookup. It is a decoded copy and
// holds no reference into the reader's memory map.
type Record struct {
	IP      net.IP
	Network *net.IPNet
	City    geoip2.City
	// Raw is the full record decoded without a schema.
	Raw map[string]any
}

// CountryName returns the country name for locale.
func (r *Record) CountryName(locale string) (string, error) {
	return localized("country", r.City.Country.Names, locale)
}

// CityName returns the city name for locale.
func (r *Record) CityName(locale string) (string, error) {
	return localized("city", r.City.City.Names, locale)
}

func localized(field string, names map[string]string, locale string) (string, error) {
	name, ok := names[locale]
	if !ok || name == "" {
		return "", fmt.Errorf("%w: no %s name for locale %q", ErrLocaleUnavailable, field, locale)
	}
	return name, nil
}

// Metadata describes an opened database.
type Metadata struct {
	DatabaseType string            `json:"database_type"`
	Description  map[string]string `json:"description,omitempty"`
	Languages    []string          `json:"languages"`
	BuildTime    time.Time         `json:"build_time"`
	IPVersion    uint              `json:"ip_version"`
	NodeCount    uint              `json:"node_count"`
	RecordSize   uint              `json:"record_size"`
	FormatMajor  uint              `json:"binary_format_major_version"`
	FormatMinor  uint              `json:"binary_format_minor_version"`
}
