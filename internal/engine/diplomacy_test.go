package engine

import (
	"testing"

	"github.com/jkolbly/diplomacy-rest/internal/mapdata"
)

// standardMapForTest returns the built-in standard map, which mapdata
// builds once and caches; tests only read it, so sharing the pointer
// across tests is safe.
func standardMapForTest(t *testing.T) *Map {
	t.Helper()
	return mapdata.Standard()
}

// stateWith builds a minimal Spring 1901 movement state holding exactly
// the given units, one Nation per distinct country referenced.
func stateWith(units ...Unit) *State {
	s := newState(1901, Spring)
	for _, u := range units {
		n, ok := s.Nations[u.Country]
		if !ok {
			n = newNation()
			s.Nations[u.Country] = n
		}
		n.Units = append(n.Units, u)
	}
	return s
}

// resultFor finds a resolved order's result by the province its unit
// occupies.
func resultFor(orders []Order, province string) OrderResult {
	for _, o := range orders {
		if o.Province == province {
			return o.Result
		}
	}
	return Unprocessed
}

func move(unitType UnitType, country, from, to string) Order {
	return Order{Kind: OrderMove, Country: country, Province: from, UnitType: unitType, Dest: to}
}

func hold(unitType UnitType, country, province string) Order {
	return Order{Kind: OrderHold, Country: country, Province: province, UnitType: unitType}
}

func supportMove(unitType UnitType, country, province, from, to string) Order {
	return Order{Kind: OrderSupportMove, Country: country, Province: province, UnitType: unitType, From: from, Supporting: to}
}

func supportHold(unitType UnitType, country, province, held string) Order {
	return Order{Kind: OrderSupportHold, Country: country, Province: province, UnitType: unitType, Supporting: held}
}

func convoy(country, province, start, end string) Order {
	return Order{Kind: OrderConvoy, Country: country, Province: province, UnitType: Fleet, Start: start, End: end}
}

// --- Map sanity checks ---

func TestStandardMapProvinceCount(t *testing.T) {
	m := mapdata.Standard()
	if len(m.Provinces) != 75 {
		t.Errorf("expected 75 provinces, got %d", len(m.Provinces))
	}
}

func TestStandardMapSupplyCenterCount(t *testing.T) {
	m := mapdata.Standard()
	count := 0
	for _, p := range m.Provinces {
		if m.IsSupplyCenter(p.ID) {
			count++
		}
	}
	if count != 34 {
		t.Errorf("expected 34 supply centers, got %d", count)
	}
}

func TestStandardMapIncludesNeutralSupplyCenters(t *testing.T) {
	m := mapdata.Standard()
	neutral := []string{"bel", "den", "gre", "hol", "nwy", "por", "rum", "swe", "tun", "bul", "ser", "spa"}
	for _, id := range neutral {
		if !m.IsSupplyCenter(id) {
			t.Errorf("expected %s to be a neutral supply center", id)
		}
	}
}

func TestPruneDropsEliminatedCountriesFromGroups(t *testing.T) {
	m, err := NewMap(
		Info{Name: "grouped-test"},
		nil,
		nil,
		[]Country{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[][]string{{"a", "b"}},
		map[int]PlayerConfiguration{
			2: {EliminatedCountries: []string{"b"}},
		},
	)
	if err != nil {
		t.Fatalf("build grouped test map: %v", err)
	}

	pruned, err := m.Prune(2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if _, ok := pruned.Countries["b"]; ok {
		t.Fatalf("expected b to be eliminated from the pruned map")
	}
	if len(pruned.CountryGroups) != 0 {
		t.Errorf("expected a's group to vanish once its only groupmate is eliminated, got %v", pruned.CountryGroups)
	}
	if got := pruned.CountryGroup("a"); len(got) != 1 || got[0] != "a" {
		t.Errorf("expected a to be ungrouped after pruning, got %v", got)
	}
}

func TestPruneDoesNotDuplicateRoutes(t *testing.T) {
	m, err := NewMap(
		Info{Name: "route-test"},
		[]Province{{ID: "a", Kind: Land}, {ID: "b", Kind: Land}},
		[]Route{{P0: "a", P1: "b", Kind: RouteLand}},
		nil,
		nil,
		map[int]PlayerConfiguration{3: {}},
	)
	if err != nil {
		t.Fatalf("build route test map: %v", err)
	}
	if got := len(m.adjacency["a"]); got != 1 {
		t.Fatalf("expected a single a->b edge before pruning, got %d", got)
	}

	pruned, err := m.Prune(3)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if got := len(pruned.adjacency["a"]); got != 1 {
		t.Fatalf("expected pruning to preserve a single a->b edge, not duplicate it, got %d", got)
	}
	if got := len(pruned.adjacency["b"]); got != 1 {
		t.Fatalf("expected pruning to preserve a single b->a edge, not duplicate it, got %d", got)
	}
}

// Property: every country's starting units satisfy the unit/province
// invariants (army never on sea, fleet never on pure land, at most one
// unit per province).
func TestStandardMapStartingUnitsValid(t *testing.T) {
	m := mapdata.Standard()
	g := NewGame(1, "test", "", m)
	s := g.Current()

	seen := make(map[string]bool)
	for _, n := range s.Nations {
		for _, u := range n.Units {
			if seen[u.Province] {
				t.Errorf("province %s holds more than one unit", u.Province)
			}
			seen[u.Province] = true
			p := m.Provinces[u.Province]
			if p == nil {
				t.Fatalf("unit sits on unknown province %s", u.Province)
			}
			if u.Type == Army && p.Kind == Sea {
				t.Errorf("army starts on sea province %s", u.Province)
			}
			if u.Type == Fleet && p.Kind == Land {
				t.Errorf("fleet starts on land province %s", u.Province)
			}
			if u.Type == Fleet && len(p.Coasts) > 0 && u.Coast == "" {
				t.Errorf("fleet on split-coast province %s missing a starting coast", u.Province)
			}
		}
	}
}
