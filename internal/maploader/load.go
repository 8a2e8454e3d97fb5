// Package maploader reads a .dipmap JSON map descriptor into an
// engine.Map, the disk-backed counterpart to internal/mapdata's
// in-process builders.
package maploader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jkolbly/diplomacy-rest/internal/engine"
)

// descriptor mirrors the .dipmap JSON shape: info, provinces, routes,
// countries, and the per-player-count trimming rules.
type descriptor struct {
	Info      infoDoc       `json:"info"`
	Provinces []provinceDoc `json:"provinces"`
	Routes    []routeDoc    `json:"routes"`
	Countries []countryDoc  `json:"countries"`
	CountryGroups [][]string `json:"countryGroups"`

	PlayerConfigurations map[string]configDoc `json:"playerConfigurations"`
}

type infoDoc struct {
	Name         string `json:"name"`
	StartingDate int    `json:"startingDate"`
}

type provinceDoc struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Kind           string   `json:"kind"` // "land" | "sea" | "coastal"
	Coasts         []string `json:"coasts,omitempty"`
	StartUnit      string   `json:"startUnit,omitempty"` // "army" | "fleet" | ""
	StartCoast     string   `json:"startCoast,omitempty"`
	Water          bool     `json:"water,omitempty"`
	IsSupplyCenter bool     `json:"isSupplyCenter,omitempty"`
}

type routeDoc struct {
	P0      string `json:"p0"`
	P1      string `json:"p1"`
	P0Coast string `json:"p0Coast,omitempty"`
	P1Coast string `json:"p1Coast,omitempty"`
	Kind    string `json:"kind"` // "land" | "sea" | "convoy"
}

type countryDoc struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	InitialSupplyCenters []string `json:"initialSupplyCenters"`
}

type configDoc struct {
	EliminatedCountries []string `json:"eliminatedCountries"`
	RemoveProvinces     bool     `json:"removeProvinces"`
}

// Load reads and parses a .dipmap file at path into an engine.Map.
func Load(path string) (*engine.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("maploader: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw .dipmap JSON into an engine.Map.
func Parse(data []byte) (*engine.Map, error) {
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &engine.MapError{Message: "malformed map descriptor: " + err.Error()}
	}

	provinces := make([]engine.Province, len(d.Provinces))
	for i, p := range d.Provinces {
		kind, err := parseKind(p.Kind)
		if err != nil {
			return nil, err
		}
		unit, err := parseUnitType(p.StartUnit)
		if err != nil {
			return nil, err
		}
		provinces[i] = engine.Province{
			ID: p.ID, Name: p.Name, Kind: kind, Coasts: p.Coasts,
			StartUnit: unit, StartCoast: p.StartCoast, Water: p.Water,
			IsSupplyCenter: p.IsSupplyCenter,
		}
	}

	routes := make([]engine.Route, len(d.Routes))
	for i, r := range d.Routes {
		kind, err := parseRouteKind(r.Kind)
		if err != nil {
			return nil, err
		}
		routes[i] = engine.Route{P0: r.P0, P1: r.P1, P0Coast: r.P0Coast, P1Coast: r.P1Coast, Kind: kind}
	}

	countries := make([]engine.Country, len(d.Countries))
	for i, c := range d.Countries {
		countries[i] = engine.Country{ID: c.ID, Name: c.Name, InitialSupplyCenters: c.InitialSupplyCenters}
	}

	configs := make(map[int]engine.PlayerConfiguration, len(d.PlayerConfigurations))
	for n, c := range d.PlayerConfigurations {
		var players int
		if _, err := fmt.Sscanf(n, "%d", &players); err != nil {
			return nil, &engine.MapError{Message: "invalid player count key " + n}
		}
		configs[players] = engine.PlayerConfiguration{N: players, EliminatedCountries: c.EliminatedCountries, RemoveProvinces: c.RemoveProvinces}
	}

	return engine.NewMap(
		engine.Info{Name: d.Info.Name, StartingDate: d.Info.StartingDate},
		provinces, routes, countries, d.CountryGroups, configs,
	)
}

func parseKind(s string) (engine.ProvinceKind, error) {
	switch s {
	case "land":
		return engine.Land, nil
	case "sea":
		return engine.Sea, nil
	case "coastal":
		return engine.Coastal, nil
	default:
		return 0, &engine.MapError{Message: "unknown province kind " + s}
	}
}

func parseUnitType(s string) (engine.UnitType, error) {
	switch s {
	case "", "none":
		return engine.NoUnit, nil
	case "army":
		return engine.Army, nil
	case "fleet":
		return engine.Fleet, nil
	default:
		return 0, &engine.MapError{Message: "unknown start unit type " + s}
	}
}

func parseRouteKind(s string) (engine.RouteKind, error) {
	switch s {
	case "land":
		return engine.RouteLand, nil
	case "sea":
		return engine.RouteSea, nil
	case "convoy":
		return engine.RouteConvoy, nil
	default:
		return 0, &engine.MapError{Message: "unknown route kind " + s}
	}
}
