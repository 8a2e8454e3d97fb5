package engine

import "sort"

// UpdateSupplyCenters reassigns ownership of every supply center to
// whichever country occupies it at the end of Fall movement.
// Unoccupied centers keep their previous owner.
func UpdateSupplyCenters(s *State, m *Map) {
	for province := range m.scSet {
		u := s.UnitAt(province)
		if u == nil {
			continue
		}
		for country, n := range s.Nations {
			if country == u.Country {
				n.SupplyCenters[province] = true
			} else {
				delete(n.SupplyCenters, province)
			}
		}
	}
}

// ComputeAdjustments sets each nation's ToBuild (positive: builds owed,
// negative: disbands owed) from supply centers owned minus units on
// the board.
func ComputeAdjustments(s *State) {
	for _, n := range s.Nations {
		n.ToBuild = len(n.SupplyCenters) - len(n.Units)
	}
}

// ValidBuildSites returns the home supply centers at which country may
// build: owned, a home center of country, vacant, and on land its kind
// must match the requested unit (checked by the caller via ValidateBuild).
func ValidBuildSites(country string, home []string, s *State, m *Map) []string {
	n := s.Nations[country]
	if n == nil {
		return nil
	}
	var sites []string
	for _, sc := range home {
		if !n.SupplyCenters[sc] {
			continue
		}
		if s.UnitAt(sc) != nil {
			continue
		}
		sites = append(sites, sc)
	}
	return sites
}

// ValidateBuild checks a single build order.
func ValidateBuild(o Order, home []string, s *State, m *Map) error {
	if o.Kind != OrderBuild {
		return &InvalidSubmission{o, "expected a build order"}
	}
	p := m.Provinces[o.Province]
	if p == nil {
		return &InvalidSubmission{o, "unknown province " + o.Province}
	}
	if o.UnitType == Fleet && p.Kind == Land {
		return &InvalidSubmission{o, "cannot build a fleet inland"}
	}
	if o.UnitType == Fleet && m.HasCoasts(o.Province) && o.Coast == "" {
		return &InvalidSubmission{o, "must specify coast to build fleet at " + o.Province}
	}
	for _, site := range ValidBuildSites(o.Country, home, s, m) {
		if site == o.Province {
			return nil
		}
	}
	return &InvalidSubmission{o, "cannot build at " + o.Province}
}

// ValidateDisband checks a single disband order: the unit must belong
// to the submitting country.
func ValidateDisband(o Order, s *State) error {
	if o.Kind != OrderDisband {
		return &InvalidSubmission{o, "expected a disband order"}
	}
	u := s.UnitAt(o.Province)
	if u == nil {
		return &InvalidSubmission{o, "no unit at " + o.Province}
	}
	if u.Country != o.Country {
		return &InvalidSubmission{o, "unit at " + o.Province + " belongs to " + u.Country}
	}
	return nil
}

// ResolveAdjustments applies a country's submitted build/disband orders
// to the game, then enforces civil disorder for any shortfall: a
// country owing disbands that did not submit enough loses its units
// farthest (by BFS distance, any unit type) from its home centers first.
func ResolveAdjustments(country string, submitted []Order, homeCenters map[string]bool, g *Game) error {
	s := g.Current()
	n := s.Nations[country]
	if n == nil {
		return &NotFoundError{"country", country}
	}

	builds, disbands := 0, 0
	for _, o := range submitted {
		switch o.Kind {
		case OrderBuild:
			if builds >= n.ToBuild {
				continue
			}
			if err := g.SpawnUnit(Unit{Type: o.UnitType, Country: country, Province: o.Province, Coast: o.Coast}); err != nil {
				return err
			}
			builds++
		case OrderDisband:
			if disbands >= -n.ToBuild {
				continue
			}
			g.RemoveUnit(o.Province)
			disbands++
		}
	}

	owedDisbands := -n.ToBuild - disbands
	if owedDisbands > 0 {
		civilDisorderDisband(n, homeCenters, owedDisbands, g.Map())
	}
	n.ToBuild = 0
	return nil
}

func civilDisorderDisband(n *Nation, homeCenters map[string]bool, count int, m *Map) {
	type dist struct {
		idx      int
		province string
		d        int
	}
	order := make([]dist, len(n.Units))
	for i, u := range n.Units {
		order[i] = dist{i, u.Province, minDistanceToHome(u.Province, homeCenters, m)}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].d != order[j].d {
			return order[i].d > order[j].d // furthest from home disbands first
		}
		return order[i].province > order[j].province // deterministic tie-break
	})

	remove := make(map[int]bool, count)
	for i := 0; i < count && i < len(order); i++ {
		remove[order[i].idx] = true
	}
	kept := n.Units[:0]
	for i, u := range n.Units {
		if remove[i] {
			continue
		}
		kept = append(kept, u)
	}
	n.Units = kept
}

// minDistanceToHome is the fewest hops (ignoring coasts and unit type)
// from a province to any of the country's home supply centers, used to
// pick which units civil disorder disbands first.
func minDistanceToHome(from string, homeCenters map[string]bool, m *Map) int {
	if len(homeCenters) == 0 {
		return 1 << 30
	}
	if homeCenters[from] {
		return 0
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	dist := 0
	for len(queue) > 0 {
		dist++
		var next []string
		for _, prov := range queue {
			for _, id := range m.neighborsIgnoreCoasts(prov) {
				if visited[id] {
					continue
				}
				if homeCenters[id] {
					return dist
				}
				visited[id] = true
				next = append(next, id)
			}
		}
		queue = next
	}
	return 1 << 30
}

// CheckVictory reports a solo winner (more than half of every supply
// center on the map) with outcome Won, or Playing when there is none.
// It never reports Drawn.
func CheckVictory(s *State, m *Map) (winner string, outcome Outcome) {
	total := len(m.scSet)
	for country, n := range s.Nations {
		if len(n.SupplyCenters)*2 > total {
			return country, Won
		}
	}
	return "", Playing
}
