// Package runner performs a single geolocation lookup and prints the
// localized country name, city name and raw record.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/TomasB/geocity/internal/geodb"
	"github.com/goccy/go-json"
)

// Exit codes reported by the CLI.
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitResourceUnavailable = 2
	ExitInvalidQuery        = 3
	ExitNotFound            = 4
	ExitLocaleUnavailable   = 5
)

// OpenFunc opens a database handle.
type OpenFunc func(path string, verify bool) (geodb.CityLookup, error)

// OpenMmdb opens path with geodb.Open.
func OpenMmdb(path string, verify bool) (geodb.CityLookup, error) {
	var opts []geodb.OpenOption
	if verify {
		opts = append(opts, geodb.WithVerify())
	}
	r, err := geodb.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Result holds the fields printed for one lookup.
type Result struct {
	IP      string         `json:"ip"`
	Network string         `json:"network,omitempty"`
	Country string         `json:"country"`
	City    string         `json:"city"`
	Raw     map[string]any `json:"raw"`
}

// Runner executes lookups against a database opened per run.
type Runner struct {
	open   OpenFunc
	out    io.Writer
	logger *slog.Logger
}

// New creates a Runner writing to out. A nil open uses OpenMmdb and a nil
// logger uses slog.Default().
func New(out io.Writer, open OpenFunc, logger *slog.Logger) *Runner {
	if open == nil {
		open = OpenMmdb
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{open: open, out: out, logger: logger}
}

// Run opens the database, looks up opts.IP and prints the result. The
// database handle is closed before Run returns, and nothing is written to
// the output unless every step succeeded.
func (r *Runner) Run(opts Options) (err error) {
	if err := opts.Validate(); err != nil {
		return err
	}

	db, err := r.open(opts.DBPath, opts.Verify)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			r.logger.Warn("failed to close database", "path", opts.DBPath, "error", cerr)
			if err == nil {
				err = fmt.Errorf("failed to close database: %w", cerr)
			}
		}
	}()

	meta := db.Metadata()
	r.logger.Debug("database opened",
		"path", opts.DBPath,
		"database_type", meta.DatabaseType,
		"build_time", meta.BuildTime,
	)

	res, err := resolve(db, opts)
	if err != nil {
		return err
	}
	r.logger.Debug("lookup completed", "ip", res.IP, "network", res.Network)

	var buf bytes.Buffer
	if err := render(&buf, res, opts.Format); err != nil {
		return err
	}
	if _, err := r.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolve(db geodb.CityLookup, opts Options) (*Result, error) {
	rec, err := db.LookupCity(opts.IP)
	if err != nil {
		return nil, err
	}

	country, err := rec.CountryName(opts.Locale)
	if err != nil {
		return nil, err
	}
	city, err := rec.CityName(opts.Locale)
	if err != nil {
		return nil, err
	}

	res := &Result{
		IP:      opts.IP,
		Country: country,
		City:    city,
		Raw:     rec.Raw,
	}
	if rec.Network != nil {
		res.Network = rec.Network.String()
	}
	return res, nil
}

func render(w io.Writer, res *Result, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(w, string(data))
	default:
		raw, err := json.MarshalIndent(res.Raw, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode raw record: %w", err)
		}
		fmt.Fprintln(w, res.Country)
		fmt.Fprintln(w, res.City)
		fmt.Fprintln(w, string(raw))
	}
	return nil
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, geodb.ErrResourceUnavailable):
		return ExitResourceUnavailable
	case errors.Is(err, geodb.ErrInvalidQuery):
		return ExitInvalidQuery
	case errors.Is(err, geodb.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, geodb.ErrLocaleUnavailable):
		return ExitLocaleUnavailable
	default:
		return ExitFailure
	}
}
