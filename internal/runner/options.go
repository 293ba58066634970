package runner

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Defaults used when the CLI is run without flags.
const (
	DefaultDBPath = "./GeoLite2-City.mmdb"
	DefaultIP     = "101.231.101.116"
	DefaultLocale = "zh-CN"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid options")

// Options describe a single lookup run.
type Options struct {
	DBPath string `validate:"required"`
	// IP is checked by the lookup itself so an unavailable database is
	// reported before a malformed query.
	IP     string
	Locale string `validate:"required,bcp47_language_tag"`
	Format string `validate:"required,oneof=text json"`
	Verify bool
}

// DefaultOptions returns the options of a run without flags.
func DefaultOptions() Options {
	return Options{
		DBPath: DefaultDBPath,
		IP:     DefaultIP,
		Locale: DefaultLocale,
		Format: FormatText,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the options before any resource is opened.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q check (value %q)", ErrInvalidOptions, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}
