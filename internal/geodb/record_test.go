package geodb

import (
	"errors"
	"testing"

	"github.com/TomasB/geocity/internal/fixture"
)

func TestRecord_LocalizedNames(t *testing.T) {
	reader := openTestReader(t)

	tests := []struct {
		name       string
		ip         string
		locale     string
		country    string
		city       string
		countryErr bool
		cityErr    bool
	}{
		{
			name:    "Shanghai zh-CN",
			ip:      fixture.ShanghaiIP,
			locale:  "zh-CN",
			country: "中国",
			city:    "上海",
		},
		{
			name:    "Shanghai en",
			ip:      fixture.ShanghaiIP,
			locale:  "en",
			country: "China",
			city:    "Shanghai",
		},
		{
			name:    "London city without zh-CN",
			ip:      fixture.LondonIP,
			locale:  "zh-CN",
			country: "英国",
			cityErr: true,
		},
		{
			name:       "Boxford without zh-CN",
			ip:         fixture.BoxfordIP,
			locale:     "zh-CN",
			countryErr: true,
			cityErr:    true,
		},
		{
			name:       "unknown locale",
			ip:         fixture.ShanghaiIP,
			locale:     "fr",
			countryErr: true,
			cityErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := reader.LookupCity(tt.ip)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			country, err := rec.CountryName(tt.locale)
			if tt.countryErr {
				if !errors.Is(err, ErrLocaleUnavailable) {
					t.Errorf("expected ErrLocaleUnavailable for country, got %v", err)
				}
			} else if country != tt.country {
				t.Errorf("expected country %q, got %q (err %v)", tt.country, country, err)
			}

			city, err := rec.CityName(tt.locale)
			if tt.cityErr {
				if !errors.Is(err, ErrLocaleUnavailable) {
					t.Errorf("expected ErrLocaleUnavailable for city, got %v", err)
				}
			} else if city != tt.city {
				t.Errorf("expected city %q, got %q (err %v)", tt.city, city, err)
			}
		})
	}
}

func TestRecord_EmptyNames(t *testing.T) {
	var rec Record
	if _, err := rec.CountryName("zh-CN"); !errors.Is(err, ErrLocaleUnavailable) {
		t.Errorf("expected ErrLocaleUnavailable, got %v", err)
	}
	if _, err := rec.CityName("zh-CN"); !errors.Is(err, ErrLocaleUnavailable) {
		t.Errorf("expected ErrLocaleUnavailable, got %v", err)
	}
}
