// Package mapdata builds in-memory map descriptors for well-known
// boards, and is the in-process alternative to loading a .dipmap file
// from disk (see internal/maploader).
package mapdata

import (
	"sync"

	"github.com/jkolbly/diplomacy-rest/internal/engine"
)

var (
	standardOnce sync.Once
	standardMap  *engine.Map
)

// Standard returns the classic seven-power, seventy-five-province
// board. Built once and cached; callers must not mutate the result —
// derive a per-game view with (*engine.Map).Prune instead.
func Standard() *engine.Map {
	standardOnce.Do(func() {
		m, err := buildStandard()
		if err != nil {
			panic(err) // the built-in board is a compile-time invariant, never bad input
		}
		standardMap = m
	})
	return standardMap
}

func buildStandard() (*engine.Map, error) {
	var provinces []engine.Province
	var routes []engine.Route

	prov := func(id, name string, kind engine.ProvinceKind, start engine.UnitType, coasts ...string) {
		provinces = append(provinces, engine.Province{ID: id, Name: name, Kind: kind, Coasts: coasts, StartUnit: start})
	}

	addArmy := func(a, b string) {
		routes = append(routes, engine.Route{P0: a, P1: b, Kind: engine.RouteLand})
	}
	addFleet := func(a, ac, b, bc string) {
		routes = append(routes, engine.Route{P0: a, P1: b, P0Coast: ac, P1Coast: bc, Kind: engine.RouteSea})
	}
	addBoth := func(a, b string) {
		routes = append(routes, engine.Route{P0: a, P1: b, Kind: engine.RouteSea})
		routes = append(routes, engine.Route{P0: a, P1: b, Kind: engine.RouteLand})
	}

	const none = engine.NoUnit

	// Inland (14)
	prov("boh", "Bohemia", engine.Land, none)
	prov("bud", "Budapest", engine.Land, engine.Army)
	prov("bur", "Burgundy", engine.Land, none)
	prov("gal", "Galicia", engine.Land, none)
	prov("mos", "Moscow", engine.Land, engine.Army)
	prov("mun", "Munich", engine.Land, engine.Army)
	prov("par", "Paris", engine.Land, engine.Army)
	prov("ruh", "Ruhr", engine.Land, none)
	prov("ser", "Serbia", engine.Land, none)
	prov("sil", "Silesia", engine.Land, none)
	prov("tyr", "Tyrolia", engine.Land, none)
	prov("ukr", "Ukraine", engine.Land, none)
	prov("vie", "Vienna", engine.Land, engine.Army)
	prov("war", "Warsaw", engine.Land, engine.Army)

	// Coastal, single coast (39)
	prov("alb", "Albania", engine.Coastal, none)
	prov("ank", "Ankara", engine.Coastal, engine.Fleet)
	prov("apu", "Apulia", engine.Coastal, none)
	prov("arm", "Armenia", engine.Coastal, none)
	prov("bel", "Belgium", engine.Coastal, none)
	prov("ber", "Berlin", engine.Coastal, engine.Army)
	prov("bre", "Brest", engine.Coastal, engine.Fleet)
	prov("cly", "Clyde", engine.Coastal, none)
	prov("con", "Constantinople", engine.Coastal, engine.Army)
	prov("den", "Denmark", engine.Coastal, none)
	prov("edi", "Edinburgh", engine.Coastal, engine.Fleet)
	prov("fin", "Finland", engine.Coastal, none)
	prov("gas", "Gascony", engine.Coastal, none)
	prov("gre", "Greece", engine.Coastal, none)
	prov("hol", "Holland", engine.Coastal, none)
	prov("kie", "Kiel", engine.Coastal, engine.Fleet)
	prov("lon", "London", engine.Coastal, engine.Fleet)
	prov("lvn", "Livonia", engine.Coastal, none)
	prov("lvp", "Liverpool", engine.Coastal, engine.Army)
	prov("mar", "Marseilles", engine.Coastal, engine.Army)
	prov("naf", "North Africa", engine.Coastal, none)
	prov("nap", "Naples", engine.Coastal, engine.Fleet)
	prov("nwy", "Norway", engine.Coastal, none)
	prov("pic", "Picardy", engine.Coastal, none)
	prov("pie", "Piedmont", engine.Coastal, none)
	prov("por", "Portugal", engine.Coastal, none)
	prov("pru", "Prussia", engine.Coastal, none)
	prov("rom", "Rome", engine.Coastal, engine.Army)
	prov("rum", "Rumania", engine.Coastal, none)
	prov("sev", "Sevastopol", engine.Coastal, engine.Fleet)
	prov("smy", "Smyrna", engine.Coastal, engine.Army)
	prov("swe", "Sweden", engine.Coastal, none)
	prov("syr", "Syria", engine.Coastal, none)
	prov("tri", "Trieste", engine.Coastal, engine.Fleet)
	prov("tun", "Tunisia", engine.Coastal, none)
	prov("tus", "Tuscany", engine.Coastal, none)
	prov("ven", "Venice", engine.Coastal, engine.Army)
	prov("wal", "Wales", engine.Coastal, none)
	prov("yor", "Yorkshire", engine.Coastal, none)

	// Split-coast (3)
	prov("bul", "Bulgaria", engine.Coastal, none, "ec", "sc")
	prov("spa", "Spain", engine.Coastal, none, "nc", "sc")
	prov("stp", "St. Petersburg", engine.Coastal, engine.Fleet, "nc", "sc")

	// Sea (19)
	for id, name := range map[string]string{
		"adr": "Adriatic Sea", "aeg": "Aegean Sea", "bal": "Baltic Sea", "bar": "Barents Sea",
		"bla": "Black Sea", "bot": "Gulf of Bothnia", "eas": "Eastern Mediterranean",
		"eng": "English Channel", "gol": "Gulf of Lyon", "hel": "Heligoland Bight",
		"ion": "Ionian Sea", "iri": "Irish Sea", "mao": "Mid-Atlantic Ocean",
		"nao": "North Atlantic Ocean", "nrg": "Norwegian Sea", "nth": "North Sea",
		"ska": "Skagerrak", "tys": "Tyrrhenian Sea", "wes": "Western Mediterranean",
	} {
		prov(id, name, engine.Sea, none)
	}

	// Sea-to-sea
	for _, pair := range [][2]string{
		{"adr", "ion"}, {"aeg", "eas"}, {"aeg", "ion"}, {"bal", "bot"},
		{"eng", "iri"}, {"eng", "mao"}, {"eng", "nth"}, {"gol", "tys"}, {"gol", "wes"},
		{"hel", "nth"}, {"ion", "eas"}, {"ion", "tys"}, {"iri", "mao"}, {"iri", "nao"},
		{"mao", "nao"}, {"mao", "wes"}, {"nao", "nrg"}, {"nth", "nrg"}, {"nth", "ska"},
		{"nrg", "bar"}, {"tys", "wes"},
	} {
		addFleet(pair[0], "", pair[1], "")
	}

	// Sea-to-coastal (fleet only), including split-coast endpoints
	for _, a := range []struct{ from, to, toCoast string }{
		{"adr", "alb", ""}, {"adr", "apu", ""}, {"adr", "tri", ""}, {"adr", "ven", ""},
		{"aeg", "bul", "sc"}, {"aeg", "con", ""}, {"aeg", "gre", ""}, {"aeg", "smy", ""},
		{"bal", "ber", ""}, {"bal", "den", ""}, {"bal", "kie", ""}, {"bal", "lvn", ""}, {"bal", "pru", ""}, {"bal", "swe", ""},
		{"bar", "nwy", ""}, {"bar", "stp", "nc"},
		{"bla", "ank", ""}, {"bla", "arm", ""}, {"bla", "bul", "ec"}, {"bla", "con", ""}, {"bla", "rum", ""}, {"bla", "sev", ""},
		{"bot", "fin", ""}, {"bot", "lvn", ""}, {"bot", "stp", "sc"}, {"bot", "swe", ""},
		{"eas", "smy", ""}, {"eas", "syr", ""},
		{"eng", "bel", ""}, {"eng", "bre", ""}, {"eng", "lon", ""}, {"eng", "pic", ""}, {"eng", "wal", ""},
		{"gol", "mar", ""}, {"gol", "pie", ""}, {"gol", "spa", "sc"}, {"gol", "tus", ""},
		{"hel", "den", ""}, {"hel", "hol", ""}, {"hel", "kie", ""},
		{"ion", "alb", ""}, {"ion", "apu", ""}, {"ion", "gre", ""}, {"ion", "nap", ""}, {"ion", "tun", ""},
		{"iri", "lvp", ""}, {"iri", "wal", ""},
		{"mao", "bre", ""}, {"mao", "gas", ""}, {"mao", "naf", ""}, {"mao", "por", ""}, {"mao", "spa", "nc"}, {"mao", "spa", "sc"},
		{"nao", "cly", ""}, {"nao", "lvp", ""},
		{"nth", "bel", ""}, {"nth", "den", ""}, {"nth", "edi", ""}, {"nth", "hol", ""}, {"nth", "lon", ""}, {"nth", "nwy", ""}, {"nth", "yor", ""},
		{"nrg", "cly", ""}, {"nrg", "edi", ""}, {"nrg", "nwy", ""},
		{"ska", "den", ""}, {"ska", "nwy", ""}, {"ska", "swe", ""},
		{"tys", "nap", ""}, {"tys", "rom", ""}, {"tys", "tun", ""}, {"tys", "tus", ""},
		{"wes", "naf", ""}, {"wes", "spa", "sc"}, {"wes", "tun", ""},
	} {
		addFleet(a.from, "", a.to, a.toCoast)
	}

	// Inland-to-inland (army only)
	for _, pair := range [][2]string{
		{"boh", "gal"}, {"boh", "mun"}, {"boh", "sil"}, {"boh", "tyr"}, {"boh", "vie"},
		{"bud", "gal"}, {"bud", "vie"}, {"bur", "mun"}, {"bur", "par"}, {"bur", "ruh"},
		{"gal", "sil"}, {"gal", "ukr"}, {"gal", "vie"}, {"gal", "war"},
		{"mos", "ukr"}, {"mos", "war"}, {"mun", "ruh"}, {"mun", "sil"}, {"mun", "tyr"},
		{"sil", "war"}, {"tyr", "vie"}, {"ukr", "war"},
	} {
		addArmy(pair[0], pair[1])
	}

	// Inland-to-coastal (army only)
	for _, pair := range [][2]string{
		{"bud", "rum"}, {"bud", "ser"}, {"bud", "tri"}, {"bur", "bel"}, {"bur", "gas"}, {"bur", "mar"}, {"bur", "pic"},
		{"gal", "rum"}, {"gas", "mar"}, {"mos", "lvn"}, {"mos", "sev"}, {"mos", "stp"},
		{"mun", "ber"}, {"mun", "kie"}, {"par", "bre"}, {"par", "gas"}, {"par", "pic"},
		{"ruh", "bel"}, {"ruh", "hol"}, {"ruh", "kie"}, {"ser", "alb"}, {"ser", "bul"}, {"ser", "gre"}, {"ser", "rum"}, {"ser", "tri"},
		{"sil", "ber"}, {"sil", "pru"}, {"tyr", "pie"}, {"tyr", "tri"}, {"tyr", "ven"},
		{"ukr", "rum"}, {"ukr", "sev"}, {"vie", "tri"}, {"war", "lvn"}, {"war", "pru"},
	} {
		addArmy(pair[0], pair[1])
	}

	// Coastal-to-coastal: both army and fleet
	for _, pair := range [][2]string{
		{"alb", "gre"}, {"alb", "tri"}, {"ank", "arm"}, {"ank", "con"}, {"apu", "nap"}, {"apu", "ven"},
		{"bel", "hol"}, {"bel", "pic"}, {"ber", "kie"}, {"ber", "pru"}, {"bre", "gas"}, {"bre", "pic"},
		{"cly", "edi"}, {"cly", "lvp"}, {"con", "smy"}, {"den", "kie"}, {"den", "swe"}, {"edi", "yor"},
		{"fin", "swe"}, {"hol", "kie"}, {"lon", "wal"}, {"lon", "yor"}, {"lvp", "wal"}, {"mar", "pie"},
		{"naf", "tun"}, {"nwy", "swe"}, {"pie", "tus"}, {"pru", "lvn"}, {"rom", "nap"}, {"rom", "tus"},
		{"sev", "arm"}, {"sev", "rum"}, {"smy", "syr"}, {"tri", "ven"},
	} {
		addBoth(pair[0], pair[1])
	}

	// Coastal-to-coastal: army only (land border, seas differ)
	for _, pair := range [][2]string{
		{"ank", "smy"}, {"apu", "rom"}, {"arm", "smy"}, {"arm", "syr"}, {"edi", "lvp"},
		{"fin", "nwy"}, {"lvp", "yor"}, {"pie", "ven"}, {"rom", "ven"}, {"tus", "ven"}, {"wal", "yor"},
	} {
		addArmy(pair[0], pair[1])
	}

	// Coastal-to-coastal/split-coast: fleet only (sea border, no shared land)
	for _, a := range []struct{ from, fromCoast, to, toCoast string }{
		{"con", "", "bul", "ec"}, {"con", "", "bul", "sc"}, {"gre", "", "bul", "sc"}, {"rum", "", "bul", "ec"},
		{"gas", "", "spa", "nc"}, {"mar", "", "spa", "sc"}, {"por", "", "spa", "nc"}, {"por", "", "spa", "sc"},
		{"fin", "", "stp", "sc"}, {"lvn", "", "stp", "sc"}, {"nwy", "", "stp", "nc"},
	} {
		addFleet(a.from, a.fromCoast, a.to, a.toCoast)
	}

	// Coastal-to-coastal/split-coast: army only (land border, no fleet passage)
	for _, pair := range [][2]string{
		{"con", "bul"}, {"gre", "bul"}, {"rum", "bul"}, {"gas", "spa"}, {"mar", "spa"}, {"por", "spa"},
		{"fin", "stp"}, {"lvn", "stp"}, {"nwy", "stp"},
	} {
		addArmy(pair[0], pair[1])
	}

	countries := []engine.Country{
		{ID: "austria", Name: "Austria-Hungary", InitialSupplyCenters: []string{"bud", "vie", "tri"}},
		{ID: "england", Name: "England", InitialSupplyCenters: []string{"edi", "lon", "lvp"}},
		{ID: "france", Name: "France", InitialSupplyCenters: []string{"bre", "mar", "par"}},
		{ID: "germany", Name: "Germany", InitialSupplyCenters: []string{"ber", "kie", "mun"}},
		{ID: "italy", Name: "Italy", InitialSupplyCenters: []string{"nap", "rom", "ven"}},
		{ID: "russia", Name: "Russia", InitialSupplyCenters: []string{"mos", "sev", "stp", "war"}},
		{ID: "turkey", Name: "Turkey", InitialSupplyCenters: []string{"ank", "con", "smy"}},
	}

	for i := range provinces {
		if provinces[i].ID == "stp" {
			provinces[i].StartCoast = "sc"
		}
	}

	// Neutral supply centers: owned by no country at game start, but
	// still supply centers (captured by whoever occupies them).
	neutralCenters := []string{
		"bel", "den", "gre", "hol", "nwy", "por", "rum", "swe", "tun", "bul", "ser", "spa",
	}
	supplyCenters := make(map[string]bool, 34)
	for _, c := range countries {
		for _, sc := range c.InitialSupplyCenters {
			supplyCenters[sc] = true
		}
	}
	for _, sc := range neutralCenters {
		supplyCenters[sc] = true
	}
	for i := range provinces {
		if supplyCenters[provinces[i].ID] {
			provinces[i].IsSupplyCenter = true
		}
	}

	return engine.NewMap(engine.Info{Name: "Standard", StartingDate: 1901}, provinces, routes, countries, nil, nil)
}
