// Package predict estimates the ground consequences of an impact: blast
// zones, tsunami exposure, debris spread, evacuation routes and the
// resources a response would need.
package predict

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"aegis-net/internal/geo"
	"aegis-net/internal/physics"
)

// Predictor produces a Prediction for one incoming object. Heuristic is the
// built-in implementation; a trained model can be plugged in behind the same
// interface.
type Predictor interface {
	Predict(ctx context.Context, req Request) (Prediction, error)
}

// AsteroidData describes the object and where it is expected to land.
type AsteroidData struct {
	Diameter       float64   `json:"diameter"`
	Velocity       float64   `json:"velocity"`
	ImpactLocation geo.Point `json:"impact_location"`
	ImpactTime     string    `json:"impact_time,omitempty"`
	Density        float64   `json:"density,omitempty"`
}

// Request is the input to Predict.
type Request struct {
	AsteroidData      AsteroidData `json:"asteroid_data"`
	UserLocation      *geo.Point   `json:"user_location,omitempty"`
	PopulationDensity float64      `json:"population_density,omitempty"`
}

type BlastPrediction struct {
	BlastRadius    float64 `json:"blast_radius"`
	ThermalRadius  float64 `json:"thermal_radius"`
	SeismicRadius  float64 `json:"seismic_radius"`
	AirburstHeight float64 `json:"airburst_height"`
}

type TsunamiPrediction struct {
	TsunamiRisk         bool     `json:"tsunami_risk"`
	WaveHeight          *float64 `json:"wave_height,omitempty"`
	CoastalImpactRadius *float64 `json:"coastal_impact_radius,omitempty"`
}

type DebrisDispersion struct {
	DispersionRadius       float64            `json:"dispersion_radius"`
	DebrisSizeDistribution map[string]float64 `json:"debris_size_distribution"`
	ImpactProbabilityMap   [][]float64        `json:"impact_probability_map"`
}

type EvacuationRoute struct {
	RouteID       string      `json:"route_id"`
	Name          string      `json:"name"`
	Waypoints     []geo.Point `json:"waypoints"`
	Distance      float64     `json:"distance"`
	EstimatedTime float64     `json:"estimated_time"`
	TrafficLevel  string      `json:"traffic_level"`
	SafetyScore   float64     `json:"safety_score"`
	Capacity      int         `json:"capacity"`
}

type RiskAssessment struct {
	RiskLevel       physics.Risk `json:"risk_level"`
	RiskFactors     []string     `json:"risk_factors"`
	Recommendations []string     `json:"recommendations"`
	ConfidenceScore float64      `json:"confidence_score"`
}

type ResourceAllocation struct {
	SheltersNeeded          int          `json:"shelters_needed"`
	HospitalsNeeded         int          `json:"hospitals_needed"`
	EvacuationCentersNeeded int          `json:"evacuation_centers_needed"`
	EstimatedEvacuees       int          `json:"estimated_evacuees"`
	ResourceShortageRisk    physics.Risk `json:"resource_shortage_risk"`
}

// Prediction is the full response for one request.
type Prediction struct {
	Blast              BlastPrediction    `json:"blast_prediction"`
	Tsunami            TsunamiPrediction  `json:"tsunami_prediction"`
	Debris             DebrisDispersion   `json:"debris_dispersion"`
	EvacuationRoutes   []EvacuationRoute  `json:"evacuation_routes"`
	RiskAssessment     RiskAssessment     `json:"risk_assessment"`
	ResourceAllocation ResourceAllocation `json:"resource_allocation"`
	ProcessingTime     float64            `json:"processing_time"`
}

// Options configures a Heuristic predictor.
type Options struct {
	SafeZones      []geo.Point
	CoastalZones   []geo.Box
	DefaultDensity float64
	GridSize       int
}

// DefaultOptions mirrors the built-in deployment around New York.
func DefaultOptions() Options {
	return Options{
		SafeZones: []geo.Point{
			{Lat: 40.7589, Lng: -73.9851},
			{Lat: 40.7829, Lng: -73.9654},
			{Lat: 40.6782, Lng: -73.9442},
		},
		CoastalZones: []geo.Box{
			{Name: "new-york", MinLat: 40.5, MaxLat: 41.0, MinLng: -74.5, MaxLng: -73.5},
			{Name: "florida", MinLat: 25.0, MaxLat: 30.0, MinLng: -85.0, MaxLng: -80.0},
		},
		DefaultDensity: 3000,
		GridSize:       20,
	}
}

// Heuristic is a closed-form Predictor. It is deterministic apart from
// ProcessingTime.
type Heuristic struct {
	opts Options
	now  func() time.Time
}

// NewHeuristic returns a predictor with opts, filling zero fields from
// DefaultOptions.
func NewHeuristic(opts Options) *Heuristic {
	def := DefaultOptions()
	if opts.SafeZones == nil {
		opts.SafeZones = def.SafeZones
	}
	if opts.CoastalZones == nil {
		opts.CoastalZones = def.CoastalZones
	}
	if opts.DefaultDensity <= 0 {
		opts.DefaultDensity = def.DefaultDensity
	}
	if opts.GridSize <= 0 {
		opts.GridSize = def.GridSize
	}
	return &Heuristic{opts: opts, now: time.Now}
}

const tonsTNTJoules = 4.184e9

// Predict runs every estimator in turn. Later stages consume the blast
// radius at its published two-decimal precision.
func (h *Heuristic) Predict(ctx context.Context, req Request) (Prediction, error) {
	_, span := otel.Tracer("aegis-net/predict").Start(ctx, "heuristic.predict")
	defer span.End()

	start := h.now()
	ad := req.AsteroidData
	if err := validate(ad); err != nil {
		span.RecordError(err)
		return Prediction{}, err
	}
	density := ad.Density
	if density <= 0 {
		density = h.opts.DefaultDensity
	}
	span.SetAttributes(
		attribute.Float64("asteroid.diameter_m", ad.Diameter),
		attribute.Float64("asteroid.velocity_kms", ad.Velocity),
	)

	blast, err := h.blast(ad.Diameter, ad.Velocity, density)
	if err != nil {
		span.RecordError(err)
		return Prediction{}, err
	}
	tsunami := h.tsunami(ad.ImpactLocation, blast.BlastRadius, ad.Diameter)
	p := Prediction{
		Blast:              blast,
		Tsunami:            tsunami,
		Debris:             h.debris(blast.BlastRadius),
		EvacuationRoutes:   h.routes(ad.ImpactLocation, blast.BlastRadius),
		RiskAssessment:     assessRisk(blast, tsunami, ad.Velocity),
		ResourceAllocation: allocate(blast.BlastRadius),
	}
	p.ProcessingTime = round(h.now().Sub(start).Seconds(), 3)
	return p, nil
}

func validate(ad AsteroidData) error {
	if math.IsNaN(ad.Diameter) || math.IsInf(ad.Diameter, 0) || ad.Diameter <= 0 {
		return &physics.InvalidParameterError{Field: "diameter", Value: ad.Diameter, Reason: "must be a positive finite number of meters"}
	}
	if math.IsNaN(ad.Velocity) || math.IsInf(ad.Velocity, 0) || ad.Velocity <= 0 {
		return &physics.InvalidParameterError{Field: "velocity", Value: ad.Velocity, Reason: "must be a positive finite number of km/s"}
	}
	if !ad.ImpactLocation.Valid() {
		return &physics.InvalidParameterError{Field: "impact_location", Value: ad.ImpactLocation, Reason: "latitude or longitude out of range"}
	}
	if ad.Density < 0 || math.IsNaN(ad.Density) || math.IsInf(ad.Density, 0) {
		return &physics.InvalidParameterError{Field: "density", Value: ad.Density, Reason: "must be a positive finite number of kg/m³"}
	}
	return nil
}

func (h *Heuristic) blast(diameter, velocity, density float64) (BlastPrediction, error) {
	tons := physics.KineticEnergy(diameter, density, velocity) / tonsTNTJoules
	if math.IsNaN(tons) || math.IsInf(tons, 0) || tons <= 0 {
		return BlastPrediction{}, &physics.DomainError{Quantity: "impact energy", Value: tons}
	}
	radius := 0.1 * math.Cbrt(tons)
	return BlastPrediction{
		BlastRadius:    round(radius, 2),
		ThermalRadius:  round(radius*1.5, 2),
		SeismicRadius:  round(radius*2, 2),
		AirburstHeight: round(math.Max(0, diameter/100), 2),
	}, nil
}

func (h *Heuristic) coastal(p geo.Point) bool {
	for _, z := range h.opts.CoastalZones {
		if z.Contains(p) {
			return true
		}
	}
	return false
}

func (h *Heuristic) tsunami(at geo.Point, blastRadius, diameter float64) TsunamiPrediction {
	if diameter < 50 || !h.coastal(at) {
		return TsunamiPrediction{}
	}
	wave := round(math.Min(diameter/10, 50), 1)
	radius := round(blastRadius*3, 1)
	return TsunamiPrediction{TsunamiRisk: true, WaveHeight: &wave, CoastalImpactRadius: &radius}
}

func (h *Heuristic) debris(blastRadius float64) DebrisDispersion {
	n := h.opts.GridSize
	half := float64(n) / 2
	grid := make([][]float64, n)
	for i := range grid {
		grid[i] = make([]float64, n)
		for j := range grid[i] {
			d := math.Hypot(float64(i)-half, float64(j)-half)
			grid[i][j] = round(math.Max(0, 1-d/half), 3)
		}
	}
	return DebrisDispersion{
		DispersionRadius:       round(blastRadius*2.5, 2),
		DebrisSizeDistribution: map[string]float64{"large": 0.1, "medium": 0.3, "small": 0.6},
		ImpactProbabilityMap:   grid,
	}
}

func (h *Heuristic) routes(from geo.Point, blastRadius float64) []EvacuationRoute {
	routes := make([]EvacuationRoute, 0, len(h.opts.SafeZones))
	for i, zone := range h.opts.SafeZones {
		dist := geo.DistanceKM(from, zone)
		factor := trafficFactor(dist, blastRadius)
		routes = append(routes, EvacuationRoute{
			RouteID:       "route_" + strconv.Itoa(i+1),
			Name:          "Evacuation Route " + strconv.Itoa(i+1),
			Waypoints:     []geo.Point{from, zone},
			Distance:      round(dist, 2),
			EstimatedTime: round(dist*2*factor, 1),
			TrafficLevel:  trafficLevel(factor),
			SafetyScore:   round(safetyScore(dist, blastRadius), 2),
			Capacity:      int(1000 / factor),
		})
	}
	sort.SliceStable(routes, func(a, b int) bool {
		if routes[a].SafetyScore != routes[b].SafetyScore {
			return routes[a].SafetyScore > routes[b].SafetyScore
		}
		return routes[a].EstimatedTime > routes[b].EstimatedTime
	})
	return routes
}

func trafficFactor(dist, blastRadius float64) float64 {
	switch {
	case dist < blastRadius:
		return 2.5
	case dist < blastRadius*2:
		return 1.8
	default:
		return 1.2
	}
}

func trafficLevel(factor float64) string {
	switch {
	case factor < 1.2:
		return "light"
	case factor < 1.8:
		return "medium"
	default:
		return "heavy"
	}
}

func safetyScore(dist, blastRadius float64) float64 {
	switch {
	case dist > blastRadius*3:
		return 0.9
	case dist > blastRadius*2:
		return 0.7
	case dist > blastRadius:
		return 0.5
	default:
		return 0.2
	}
}

func assessRisk(b BlastPrediction, t TsunamiPrediction, velocity float64) RiskAssessment {
	ra := RiskAssessment{RiskLevel: physics.RiskLow, RiskFactors: []string{}, Recommendations: []string{}, ConfidenceScore: 0.85}
	switch {
	case b.BlastRadius > 20:
		ra.RiskLevel = physics.RiskHigh
		ra.add("Large blast radius", "Immediate evacuation required")
	case b.BlastRadius > 10:
		ra.RiskLevel = physics.RiskMedium
		ra.add("Moderate blast radius", "Prepare for evacuation")
	}
	if t.TsunamiRisk {
		ra.RiskLevel = physics.RiskHigh
		ra.add("Tsunami risk", "Evacuate to higher ground")
	}
	if velocity > 20 {
		ra.add("High velocity impact", "Seek immediate shelter")
	}
	return ra
}

func (ra *RiskAssessment) add(factor, recommendation string) {
	ra.RiskFactors = append(ra.RiskFactors, factor)
	ra.Recommendations = append(ra.Recommendations, recommendation)
}

func allocate(blastRadius float64) ResourceAllocation {
	evacuees := math.Min(blastRadius*1000, 100000)
	ra := ResourceAllocation{
		SheltersNeeded:          max(1, int(evacuees/500)),
		HospitalsNeeded:         max(1, int(evacuees/1000)),
		EvacuationCentersNeeded: max(1, int(evacuees/2000)),
		EstimatedEvacuees:       int(evacuees),
		ResourceShortageRisk:    physics.RiskLow,
	}
	switch {
	case ra.SheltersNeeded > 50 || ra.HospitalsNeeded > 25:
		ra.ResourceShortageRisk = physics.RiskHigh
	case ra.SheltersNeeded > 25 || ra.HospitalsNeeded > 15:
		ra.ResourceShortageRisk = physics.RiskMedium
	}
	return ra
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
