package sink

import (
	"context"
	"log/slog"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"aegis-net/internal/config"
	"aegis-net/internal/results"
)

type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes result rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client          greptimeClient
	impactTable     string
	deflectionTable string
	log             *slog.Logger
}

// NewGreptimeDBWriter connects to the configured GreptimeDB instance.
// Tables are created on first write.
func NewGreptimeDBWriter(cfg config.GreptimeConfig, log *slog.Logger) (*GreptimeDBWriter, error) {
	gcfg := greptime.NewConfig(cfg.Endpoint).
		WithPort(cfg.Port).
		WithDatabase(cfg.Database)
	client, err := greptime.NewClient(gcfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	w := &GreptimeDBWriter{
		client:          client,
		impactTable:     cfg.ImpactTable,
		deflectionTable: cfg.DeflectionTable,
		log:             log.With("component", "greptime"),
	}
	if w.impactTable == "" {
		w.impactTable = results.ImpactTable()
	}
	if w.deflectionTable == "" {
		w.deflectionTable = results.DeflectionTable()
	}
	return w, nil
}

func (w *GreptimeDBWriter) WriteImpact(row results.ImpactRow) error {
	return w.WriteImpacts([]results.ImpactRow{row})
}

// WriteImpacts inserts multiple impact rows in one request.
func (w *GreptimeDBWriter) WriteImpacts(rows []results.ImpactRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.impactTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("composition", types.STRING)
	tbl.AddFieldColumn("label", types.STRING)
	tbl.AddFieldColumn("asteroid_size_m", types.FLOAT64)
	tbl.AddFieldColumn("velocity_kms", types.FLOAT64)
	tbl.AddFieldColumn("angle_deg", types.FLOAT64)
	tbl.AddFieldColumn("impact_energy_mt", types.FLOAT64)
	tbl.AddFieldColumn("blast_radius_m", types.FLOAT64)
	tbl.AddFieldColumn("crater_diameter_m", types.FLOAT64)
	tbl.AddFieldColumn("tsunami_height_m", types.FLOAT64)
	tbl.AddFieldColumn("seismic_magnitude", types.FLOAT64)
	tbl.AddFieldColumn("casualties", types.FLOAT64)
	tbl.AddFieldColumn("economic_damage_busd", types.FLOAT64)
	tbl.AddFieldColumn("risk", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Composition, r.Label,
			r.AsteroidSize, r.Velocity, r.Angle,
			r.ImpactEnergy, r.BlastRadius, r.CraterDiameter, r.TsunamiHeight, r.SeismicMagnitude,
			r.Casualties, r.EconomicDamage, r.Risk, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl, len(rows))
}

func (w *GreptimeDBWriter) WriteDeflection(row results.DeflectionRow) error {
	return w.WriteDeflections([]results.DeflectionRow{row})
}

// WriteDeflections inserts multiple deflection rows in one request.
func (w *GreptimeDBWriter) WriteDeflections(rows []results.DeflectionRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.deflectionTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("strategy", types.STRING)
	tbl.AddFieldColumn("label", types.STRING)
	tbl.AddFieldColumn("asteroid_size_m", types.FLOAT64)
	tbl.AddFieldColumn("velocity_kms", types.FLOAT64)
	tbl.AddFieldColumn("time_to_impact_days", types.FLOAT64)
	tbl.AddFieldColumn("deflection_deg", types.FLOAT64)
	tbl.AddFieldColumn("success", types.BOOLEAN)
	tbl.AddFieldColumn("cost_musd", types.FLOAT64)
	tbl.AddFieldColumn("risk", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Strategy, r.Label,
			r.AsteroidSize, r.Velocity, r.TimeToImpactDays,
			r.Deflection, r.Success, r.CostMUSD, r.Risk, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl, len(rows))
}

func (w *GreptimeDBWriter) write(tbl *table.Table, n int) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("write failed", "rows", n, "err", err)
		return err
	}
	w.log.Debug("wrote rows", "rows", n)
	return nil
}
