package orbit

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

const (
	neossat1 = "1 39089U 13009D   24100.50000000  .00000120  00000-0  45000-4 0  9990"
	neossat2 = "2 39089  98.4012 300.1234 0010500  90.2500 269.9000 14.35045678581238"
)

func TestTrackerPosition(t *testing.T) {
	tr, err := NewTracker("NEOSSat", neossat1, neossat2)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	epoch := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{epoch, epoch.Add(25 * time.Minute), epoch.Add(6 * time.Hour)} {
		p, err := tr.Position(at)
		if err != nil {
			t.Fatalf("Position(%s): %v", at, err)
		}
		if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			t.Fatalf("coordinates out of range: %+v", p)
		}
		if p.AltitudeKM < 600 || p.AltitudeKM > 1000 {
			t.Fatalf("altitude %v km outside low Earth orbit band", p.AltitudeKM)
		}
		if p.SpeedKMS < 7 || p.SpeedKMS > 8 {
			t.Fatalf("speed %v km/s", p.SpeedKMS)
		}
	}
}

func TestTrackerTrackMoves(t *testing.T) {
	tr, err := NewTracker("NEOSSat", neossat1, neossat2)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	pts, err := tr.Track(time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC), 5*time.Minute, 4)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if len(pts) != 4 {
		t.Fatalf("points = %d", len(pts))
	}
	if math.Abs(pts[0].Lat-pts[1].Lat) < 1 {
		t.Fatalf("polar orbit should move more than a degree of latitude in 5 minutes: %+v", pts[:2])
	}
}

func TestValidateTLE(t *testing.T) {
	if err := ValidateTLE(neossat1, neossat2); err != nil {
		t.Fatalf("valid TLE rejected: %v", err)
	}
	badChecksum := neossat1[:68] + "1"
	otherCatalog := strings.Replace(neossat2, "39089", "39088", 1)
	badField := neossat2[:8] + " 98.4x12" + neossat2[16:]
	cases := map[string][2]string{
		"short":         {neossat1[:60], neossat2},
		"checksum":      {badChecksum, neossat2},
		"swapped lines": {neossat2, neossat1},
		"catalog":       {neossat1, otherCatalog[:68] + string(rune('0'+checksum(otherCatalog[:68])))},
		"field":         {neossat1, badField[:68] + string(rune('0'+checksum(badField[:68])))},
	}
	for name, c := range cases {
		if err := ValidateTLE(c[0], c[1]); !errors.Is(err, ErrInvalidTLE) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
	if _, err := NewTracker("bad", neossat1[:60], neossat2); !errors.Is(err, ErrInvalidTLE) {
		t.Fatalf("NewTracker accepted short line: %v", err)
	}
}

func TestGeodeticEquator(t *testing.T) {
	lat, lng, alt := geodetic(wgs84A+800, 0, 0)
	if math.Abs(lat) > 1e-9 || math.Abs(lng) > 1e-9 || math.Abs(alt-800) > 1e-6 {
		t.Fatalf("geodetic = %v %v %v", lat, lng, alt)
	}
}
