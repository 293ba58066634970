// Package fixture writes a small MaxMind City database for tests and local
// runs without a GeoLite2 download.
package fixture

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
)

// Addresses covered by the fixture.
const (
	// ShanghaiIP has country and city names in zh-CN.
	ShanghaiIP = "101.231.101.116"
	// LondonIP has a zh-CN country name but an en-only city name.
	LondonIP = "81.2.69.142"
	// BoxfordIP has en-only names.
	BoxfordIP = "2.125.160.216"
	// TokyoIP is an IPv6 address.
	TokyoIP = "2001:218::1"
	// MissingIP is a public address with no entry.
	MissingIP = "8.8.8.8"
)

type options struct {
	databaseType string
	ipVersion    int
}

// Option configures the generated database.
type Option func(*options)

// WithDatabaseType overrides the database type, GeoLite2-City by default.
func WithDatabaseType(t string) Option {
	return func(o *options) { o.databaseType = t }
}

// WithIPv4Only writes an IPv4 search tree and leaves out IPv6 entries.
func WithIPv4Only() Option {
	return func(o *options) { o.ipVersion = 4 }
}

type entry struct {
	cidr   string
	record mmdbtype.Map
}

func names(kv ...string) mmdbtype.Map {
	m := mmdbtype.Map{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[mmdbtype.String(kv[i])] = mmdbtype.String(kv[i+1])
	}
	return m
}

func place(geonameID uint64, isoCode string, n mmdbtype.Map) mmdbtype.Map {
	m := mmdbtype.Map{
		"geoname_id": mmdbtype.Uint32(geonameID),
		"names":      n,
	}
	if isoCode != "" {
		m["iso_code"] = mmdbtype.String(isoCode)
	}
	return m
}

func location(lat, lon float64, tz string, radius uint16) mmdbtype.Map {
	return mmdbtype.Map{
		"accuracy_radius": mmdbtype.Uint16(radius),
		"latitude":        mmdbtype.Float64(lat),
		"longitude":       mmdbtype.Float64(lon),
		"time_zone":       mmdbtype.String(tz),
	}
}

func entries() []entry {
	asia := mmdbtype.Map{
		"code":       mmdbtype.String("AS"),
		"geoname_id": mmdbtype.Uint32(6255147),
		"names":      names("en", "Asia", "zh-CN", "亚洲"),
	}
	europe := mmdbtype.Map{
		"code":       mmdbtype.String("EU"),
		"geoname_id": mmdbtype.Uint32(6255148),
		"names":      names("en", "Europe", "zh-CN", "欧洲"),
	}
	china := place(1814991, "CN", names("en", "China", "zh-CN", "中国"))
	uk := place(2635167, "GB", names("en", "United Kingdom", "zh-CN", "英国"))
	ukEnglishOnly := place(2635167, "GB", names("en", "United Kingdom"))
	japan := place(1861060, "JP", names("en", "Japan", "zh-CN", "日本"))

	return []entry{
		{
			cidr: "101.231.101.0/24",
			record: mmdbtype.Map{
				"city":               place(1796236, "", names("en", "Shanghai", "zh-CN", "上海")),
				"continent":          asia,
				"country":            china,
				"registered_country": china,
				"location":           location(31.0449, 121.4012, "Asia/Shanghai", 50),
				"subdivisions": mmdbtype.Slice{
					place(1796231, "SH", names("en", "Shanghai", "zh-CN", "上海")),
				},
			},
		},
		{
			cidr: "81.2.69.0/24",
			record: mmdbtype.Map{
				"city":               place(2643743, "", names("en", "London")),
				"continent":          europe,
				"country":            uk,
				"registered_country": uk,
				"location":           location(51.5142, -0.0931, "Europe/London", 10),
				"postal":             mmdbtype.Map{"code": mmdbtype.String("EC4M")},
			},
		},
		{
			cidr: "2.125.160.0/24",
			record: mmdbtype.Map{
				"city":               place(2655045, "", names("en", "Boxford")),
				"continent":          mmdbtype.Map{"code": mmdbtype.String("EU"), "names": names("en", "Europe")},
				"country":            ukEnglishOnly,
				"registered_country": ukEnglishOnly,
				"location":           location(51.75, -1.25, "Europe/London", 100),
			},
		},
		{
			cidr: "2001:218::/32",
			record: mmdbtype.Map{
				"city":               place(1850147, "", names("en", "Tokyo", "zh-CN", "东京")),
				"continent":          asia,
				"country":            japan,
				"registered_country": japan,
				"location":           location(35.68, 139.75, "Asia/Tokyo", 100),
			},
		},
	}
}

// Write encodes the fixture database to w.
func Write(w io.Writer, opts ...Option) error {
	o := options{databaseType: "GeoLite2-City", ipVersion: 6}
	for _, opt := range opts {
		opt(&o)
	}

	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType:        o.databaseType,
		Description:         map[string]string{"en": "geocity test database"},
		DisableIPv4Aliasing: o.ipVersion == 4,
		IPVersion:           o.ipVersion,
		Languages:           []string{"en", "zh-CN"},
		RecordSize:          28,
	})
	if err != nil {
		return fmt.Errorf("failed to create MMDB writer: %w", err)
	}

	for _, e := range entries() {
		_, network, err := net.ParseCIDR(e.cidr)
		if err != nil {
			return fmt.Errorf("invalid fixture network %s: %w", e.cidr, err)
		}
		if o.ipVersion == 4 && network.IP.To4() == nil {
			continue
		}
		if err := tree.Insert(network, e.record); err != nil {
			return fmt.Errorf("failed to insert %s: %w", e.cidr, err)
		}
	}

	if _, err := tree.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MMDB: %w", err)
	}
	return nil
}

// WriteFile writes the fixture database to path.
func WriteFile(path string, opts ...Option) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Write(f, opts...)
}
