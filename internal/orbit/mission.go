package orbit

// MissionInfo describes the survey spacecraft.
type MissionInfo struct {
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	LaunchDate    string   `json:"launch_date"`
	Status        string   `json:"status"`
	Altitude      string   `json:"altitude"`
	OrbitalPeriod string   `json:"orbital_period"`
	Capabilities  []string `json:"capabilities"`
}

func NEOSSatMission() MissionInfo {
	return MissionInfo{
		Name:          "NEOSSat",
		FullName:      "Near-Earth Object Surveillance Satellite",
		LaunchDate:    "2013-02-25",
		Status:        "Active",
		Altitude:      "800 km",
		OrbitalPeriod: "100 minutes",
		Capabilities: []string{
			"Asteroid and comet detection",
			"Space debris monitoring",
			"Exoplanet discovery",
			"24/7 operation",
			"Near-Sun observations",
		},
	}
}

// DataSources lists the archives observations are drawn from.
func DataSources() []string {
	return []string{
		"Canadian Astronomy Data Centre (CADC)",
		"NEOSSat FITS Images",
		"Astrometric measurements",
		"Photometric observations",
	}
}
