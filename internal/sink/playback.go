package sink

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"aegis-net/internal/results"
)

// ReplayLog replays impact rows from r to writer. A speed >0 reproduces the
// recorded spacing divided by speed; speed <= 0 replays without delay.
func ReplayLog(r io.Reader, writer ImpactWriter, speed float64) error {
	return replay(r, speed, writer.WriteImpact, func(row results.ImpactRow) time.Time { return row.Timestamp })
}

// ReplayDeflections is ReplayLog for deflection rows.
func ReplayDeflections(r io.Reader, writer DeflectionWriter, speed float64) error {
	return replay(r, speed, writer.WriteDeflection, func(row results.DeflectionRow) time.Time { return row.Timestamp })
}

// ReplayLogFile opens a file and replays its impact rows.
func ReplayLogFile(path string, writer ImpactWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}

// ReplayDeflectionFile opens a file and replays its deflection rows.
func ReplayDeflectionFile(path string, writer DeflectionWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayDeflections(f, writer, speed)
}

var sleep = time.Sleep

func replay[T any](r io.Reader, speed float64, write func(T) error, stamp func(T) time.Time) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row T
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		ts := stamp(row)
		if !prev.IsZero() && speed > 0 {
			diff := ts.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				sleep(diff)
			}
		}
		if err := write(row); err != nil {
			return err
		}
		prev = ts
	}
}
