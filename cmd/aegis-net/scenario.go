package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aegis-net/internal/config"
	"aegis-net/internal/neo"
	"aegis-net/internal/predict"
	"aegis-net/internal/scenario"
)

var (
	scenarioFile     string
	scenarioAsteroid string
	scenarioList     bool
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario [name]",
	Short: "Evaluate an impact scenario end to end",
	Long: "scenario runs the impact calculator, every deflection strategy and the consequence predictor for a built-in scenario, " +
		"a YAML scenario file (--file) or a catalogue object (--asteroid), and prints the report as JSON.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if scenarioList {
			for _, n := range scenario.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		}
		ctx, cfg, log, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		s, err := resolveScenario(cfg, name, scenarioFile, scenarioAsteroid, time.Now().UTC())
		if err != nil {
			return err
		}
		predictor := predict.NewHeuristic(predict.Options{
			SafeZones:      cfg.Prediction.SafeZones,
			CoastalZones:   cfg.Prediction.CoastalZones,
			DefaultDensity: cfg.Prediction.DefaultDensity,
			GridSize:       cfg.Prediction.GridSize,
		})
		rep, err := scenario.Evaluate(ctx, s, predictor)
		if err != nil {
			return err
		}
		if rep.Best == nil {
			log.Warn("no strategy deflects the object", "scenario", rep.Scenario)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

// resolveScenario picks the scenario source. Exactly one of name, file and
// asteroid may be set.
func resolveScenario(cfg *config.Config, name, file, asteroid string, now time.Time) (scenario.Scenario, error) {
	set := 0
	for _, v := range []string{name, file, asteroid} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return scenario.Scenario{}, fmt.Errorf("exactly one of a scenario name, --file or --asteroid is required")
	}
	switch {
	case file != "":
		s, err := scenario.Load(file)
		if err != nil {
			return scenario.Scenario{}, err
		}
		return *s, nil
	case asteroid != "":
		if cfg == nil {
			return scenario.Scenario{}, fmt.Errorf("--asteroid needs a loaded config")
		}
		catalog, err := neo.NewCatalog(cfg.Asteroids)
		if err != nil {
			return scenario.Scenario{}, err
		}
		o, err := catalog.Get(asteroid)
		if err != nil {
			return scenario.Scenario{}, err
		}
		return scenario.FromObject(o, now), nil
	}
	s, ok := scenario.BuiltIn()[strings.ToLower(name)]
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("unknown scenario %q (known: %s)", name, strings.Join(scenario.Names(), ", "))
	}
	return s, nil
}

func init() {
	scenarioCmd.Flags().StringVar(&scenarioFile, "file", "", "Path to a scenario YAML file")
	scenarioCmd.Flags().StringVar(&scenarioAsteroid, "asteroid", "", "Catalogue id of the object to evaluate")
	scenarioCmd.Flags().BoolVar(&scenarioList, "list", false, "List the built-in scenarios")
}
