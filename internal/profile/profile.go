// Package profile loads birth profiles: a local birth date, time and IANA
// zone plus the birth coordinates, and optionally a fixed transit instant.
package profile

import (
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/validation"
)

// DefaultPath is the conventional profile location.
const DefaultPath = "birth.toml"

// Accepted wall-clock layouts, tried in order.
var timeLayouts = []string{"2006-01-02 15:04", "2006-01-02 15:04:05"}

// Profile is a birth profile as stored on disk.
type Profile struct {
	Name      string   `toml:"name"`
	Date      string   `toml:"date" validate:"required"`
	Time      string   `toml:"time" validate:"required"`
	Timezone  string   `toml:"timezone,omitempty"`
	Latitude  float64  `toml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64  `toml:"longitude" validate:"gte=-180,lte=180"`
	Transit   *Transit `toml:"transit,omitempty"`
}

// Transit pins the transit chart to a fixed local time instead of now.
// An empty Timezone inherits the profile's.
type Transit struct {
	Date     string `toml:"date" validate:"required"`
	Time     string `toml:"time" validate:"required"`
	Timezone string `toml:"timezone,omitempty"`
}

// Load reads and validates a profile.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a profile. The birth and transit times are
// resolved once so that a malformed profile fails here.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, skyerr.Invalid("profile.Parse", "toml", err.Error())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks field ranges and that every time resolves.
func (p *Profile) Validate() error {
	if err := validation.Struct(p); err != nil {
		return skyerr.Invalid("profile.Validate", p.Name, err.Error())
	}
	if _, err := p.Instant(); err != nil {
		return err
	}
	if p.Transit != nil {
		if _, err := p.TransitInstant(time.Time{}); err != nil {
			return err
		}
	}
	return nil
}

// Instant returns the birth instant in UTC.
func (p *Profile) Instant() (time.Time, error) {
	return resolve("profile.Instant", p.Date, p.Time, p.Timezone)
}

// TransitInstant returns the pinned transit instant in UTC, or now when the
// profile pins none.
func (p *Profile) TransitInstant(now time.Time) (time.Time, error) {
	if p.Transit == nil {
		return now.UTC(), nil
	}
	tz := p.Transit.Timezone
	if tz == "" {
		tz = p.Timezone
	}
	return resolve("profile.TransitInstant", p.Transit.Date, p.Transit.Time, tz)
}

// Location returns the birth coordinates.
func (p *Profile) Location() chart.Location {
	return chart.Location{Latitude: p.Latitude, Longitude: p.Longitude}
}

// resolve interprets a wall-clock date and time in the named zone. An empty
// zone means UTC.
func resolve(op, date, clock, zone string) (time.Time, error) {
	loc := time.UTC
	if zone != "" && !strings.EqualFold(zone, "UTC") {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return time.Time{}, skyerr.Invalid(op, "timezone="+zone, err.Error())
		}
		loc = l
	}

	value := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, skyerr.Invalid(op, value, lastErr.Error())
}
