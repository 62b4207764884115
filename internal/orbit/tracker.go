// Package orbit propagates the NEOSSat survey telescope from its two-line
// element set.
package orbit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

var ErrInvalidTLE = errors.New("invalid TLE")

const (
	wgs84A = 6378.137
	wgs84F = 1 / 298.257223563
)

// SubPoint is the satellite position projected onto the WGS84 ellipsoid.
type SubPoint struct {
	Time       time.Time `json:"time"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AltitudeKM float64   `json:"altitude_km"`
	SpeedKMS   float64   `json:"speed_kms"`
}

// Tracker wraps one SGP4 satellite model.
type Tracker struct {
	name string
	sat  satellite.Satellite
}

// NewTracker checks the element set before handing it to SGP4, which
// aborts the process on malformed input.
func NewTracker(name, line1, line2 string) (*Tracker, error) {
	line1, line2 = strings.TrimRight(line1, " \r\n"), strings.TrimRight(line2, " \r\n")
	if err := ValidateTLE(line1, line2); err != nil {
		return nil, err
	}
	return &Tracker{name: name, sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}, nil
}

func (t *Tracker) Name() string { return t.name }

// Position propagates to at, truncated to whole seconds.
func (t *Tracker) Position(at time.Time) (SubPoint, error) {
	at = at.UTC().Truncate(time.Second)
	y, mo, d := at.Date()
	h, mi, s := at.Clock()

	pos, vel := satellite.Propagate(t.sat, y, int(mo), d, h, mi, s)
	gmst := satellite.ThetaG_JD(satellite.JDay(y, int(mo), d, h, mi, s))
	ecef := satellite.ECIToECEF(pos, gmst)

	r := math.Sqrt(ecef.X*ecef.X + ecef.Y*ecef.Y + ecef.Z*ecef.Z)
	if math.IsNaN(r) || r < wgs84A*(1-wgs84F) {
		return SubPoint{}, fmt.Errorf("propagation of %s at %s failed: radius %.1f km", t.name, at.Format(time.RFC3339), r)
	}
	lat, lng, alt := geodetic(ecef.X, ecef.Y, ecef.Z)
	return SubPoint{
		Time:       at,
		Lat:        lat,
		Lng:        lng,
		AltitudeKM: alt,
		SpeedKMS:   math.Sqrt(vel.X*vel.X + vel.Y*vel.Y + vel.Z*vel.Z),
	}, nil
}

// Track samples n positions starting at from, step apart.
func (t *Tracker) Track(from time.Time, step time.Duration, n int) ([]SubPoint, error) {
	out := make([]SubPoint, 0, n)
	for i := 0; i < n; i++ {
		p, err := t.Position(from.Add(time.Duration(i) * step))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// geodetic converts ECEF km to latitude, longitude (degrees) and height
// above the ellipsoid (km).
func geodetic(x, y, z float64) (lat, lng, alt float64) {
	e2 := wgs84F * (2 - wgs84F)
	p := math.Hypot(x, y)
	lng = math.Atan2(y, x)
	phi := math.Atan2(z, p*(1-e2))
	for i := 0; i < 6; i++ {
		sin := math.Sin(phi)
		n := wgs84A / math.Sqrt(1-e2*sin*sin)
		alt = p/math.Cos(phi) - n
		phi = math.Atan2(z, p*(1-e2*n/(n+alt)))
	}
	return phi * 180 / math.Pi, lng * 180 / math.Pi, alt
}

// ValidateTLE checks line layout, checksums and the numeric columns SGP4 parses.
func ValidateTLE(line1, line2 string) error {
	for i, l := range []string{line1, line2} {
		n := i + 1
		if len(l) != 69 {
			return fmt.Errorf("%w: line %d has %d columns, want 69", ErrInvalidTLE, n, len(l))
		}
		if l[0] != byte('0'+n) || l[1] != ' ' {
			return fmt.Errorf("%w: line %d must start with %q", ErrInvalidTLE, n, fmt.Sprintf("%d ", n))
		}
		if want := checksum(l[:68]); int(l[68]-'0') != want {
			return fmt.Errorf("%w: line %d checksum %c, want %d", ErrInvalidTLE, n, l[68], want)
		}
	}
	if strings.TrimSpace(line1[2:7]) != strings.TrimSpace(line2[2:7]) {
		return fmt.Errorf("%w: catalog numbers differ", ErrInvalidTLE)
	}
	fields := []struct {
		line      string
		from, to  int
		name      string
		isInteger bool
	}{
		{line1, 18, 20, "epoch year", true},
		{line1, 20, 32, "epoch day", false},
		{line1, 33, 43, "mean motion derivative", false},
		{line2, 8, 16, "inclination", false},
		{line2, 17, 25, "right ascension", false},
		{line2, 26, 33, "eccentricity", true},
		{line2, 34, 42, "argument of perigee", false},
		{line2, 43, 51, "mean anomaly", false},
		{line2, 52, 63, "mean motion", false},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(f.line[f.from:f.to])
		var err error
		if f.isInteger {
			_, err = strconv.Atoi(raw)
		} else {
			_, err = strconv.ParseFloat(raw, 64)
		}
		if err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidTLE, f.name, raw)
		}
	}
	for _, f := range []struct{ from, to int }{{44, 52}, {53, 61}} {
		if !validExponent(line1[f.from:f.to]) {
			return fmt.Errorf("%w: exponent field %q", ErrInvalidTLE, line1[f.from:f.to])
		}
	}
	return nil
}

// validExponent accepts the TLE implied-decimal form " 12345-4".
func validExponent(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return false
	}
	mant, exp := s[:len(s)-2], s[len(s)-2:]
	if exp[0] != '-' && exp[0] != '+' {
		return false
	}
	if _, err := strconv.Atoi(exp[1:]); err != nil {
		return false
	}
	_, err := strconv.Atoi(mant)
	return err == nil
}

func checksum(s string) int {
	sum := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}
