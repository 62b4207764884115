package sink

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"aegis-net/internal/physics"
	"aegis-net/internal/results"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

func riskColor(risk string) string {
	switch physics.Risk(risk) {
	case physics.RiskLow:
		return colorGreen
	case physics.RiskMedium:
		return colorYellow
	case physics.RiskHigh:
		return colorRed
	case physics.RiskCritical:
		return colorMagenta
	}
	return colorGray
}

// ColorStdoutWriter prints rows using ANSI colors, preceded once by the
// mitigation strategy table.
type ColorStdoutWriter struct {
	out  io.Writer
	mu   sync.Mutex
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return NewColorWriter(os.Stdout)
}

func NewColorWriter(out io.Writer) *ColorStdoutWriter {
	return &ColorStdoutWriter{out: out}
}

func (w *ColorStdoutWriter) printOverview() {
	fmt.Fprintln(w.out, "Mitigation Strategies:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tEffectiveness\tCost ($M)\tTime (y)\tRisk\n")
	for _, s := range physics.Strategies() {
		fmt.Fprintf(tw, "%s\t%.1f\t%.0f\t%.0f\t%s%s%s\n", s.ID, s.Effectiveness, s.CostMUSD, s.TimeRequiredYears, riskColor(string(s.Risk)), s.Risk, colorReset)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

func (w *ColorStdoutWriter) WriteImpact(r results.ImpactRow) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.out, "%s[%s]%s %sIMPACT%s size=%.1fm vel=%.1fkm/s angle=%.0f %s%s%s energy=%.3fMT blast=%.0fm crater=%.0fm tsunami=%.1fm mag=%.1f casualties=%.0f damage=$%.2fB %srisk=%s%s\n",
		colorGray, r.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset,
		r.AsteroidSize, r.Velocity, r.Angle,
		colorCyan, r.Composition, colorReset,
		r.ImpactEnergy, r.BlastRadius, r.CraterDiameter, r.TsunamiHeight, r.SeismicMagnitude, r.Casualties, r.EconomicDamage,
		riskColor(r.Risk), r.Risk, colorReset)
	return err
}

func (w *ColorStdoutWriter) WriteDeflection(r results.DeflectionRow) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()
	outcome, col := "FAIL", colorRed
	if r.Success {
		outcome, col = "OK", colorGreen
	}
	_, err := fmt.Fprintf(w.out, "%s[%s]%s %sDEFLECT%s %s size=%.1fm vel=%.1fkm/s lead=%.0fd deflection=%.2f° %s%s%s cost=$%.0fM %srisk=%s%s\n",
		colorGray, r.Timestamp.Format(time.RFC3339), colorReset,
		colorYellow, colorReset,
		r.Strategy, r.AsteroidSize, r.Velocity, r.TimeToImpactDays, r.Deflection,
		col, outcome, colorReset,
		r.CostMUSD, riskColor(r.Risk), r.Risk, colorReset)
	return err
}
