package main

import (
	"flag"
	"log"

	"aegis-net/internal/dashboard"
)

func main() {
	out := flag.String("out", "build", "output directory for rendered dashboards")
	uid := flag.String("datasource", "", "Grafana datasource uid (default $GREPTIMEDB_DATASOURCE_UID)")
	impact := flag.String("impact-table", "", "impact table name (default $IMPACT_TABLE)")
	deflection := flag.String("deflection-table", "", "deflection table name (default $DEFLECTION_TABLE)")
	flag.Parse()
	p := dashboard.Params{DatasourceUID: *uid, ImpactTable: *impact, DeflectionTable: *deflection}
	if err := dashboard.RenderWith(*out, p); err != nil {
		log.Fatal(err)
	}
}
