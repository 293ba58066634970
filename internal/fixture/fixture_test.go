package fixture

import (
	"bytes"
	"net"
	"path/filepath"
	"testing"

	"github.com/oschwald/maxminddb-golang"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf))

	db, err := maxminddb.FromBytes(buf.Bytes())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Verify())
	require.Equal(t, "GeoLite2-City", db.Metadata.DatabaseType)
	require.Equal(t, []string{"en", "zh-CN"}, db.Metadata.Languages)

	var rec struct {
		Country struct {
			Names map[string]string `maxminddb:"names"`
		} `maxminddb:"country"`
		City struct {
			Names map[string]string `maxminddb:"names"`
		} `maxminddb:"city"`
	}
	require.NoError(t, db.Lookup(net.ParseIP(ShanghaiIP), &rec))
	require.Equal(t, "中国", rec.Country.Names["zh-CN"])
	require.Equal(t, "上海", rec.City.Names["zh-CN"])
}

func TestWriteFile_Options(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country.mmdb")
	require.NoError(t, WriteFile(path, WithDatabaseType("GeoLite2-Country"), WithIPv4Only()))

	db, err := maxminddb.Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.Equal(t, "GeoLite2-Country", db.Metadata.DatabaseType)
	require.Equal(t, uint(4), db.Metadata.IPVersion)

	var rec map[string]any
	_, ok, err := db.LookupNetwork(net.ParseIP(LondonIP), &rec)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWriteFile_BadPath(t *testing.T) {
	require.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "db.mmdb")))
}
