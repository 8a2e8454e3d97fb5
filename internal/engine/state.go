package engine

// Season alternates within a year.
type Season string

const (
	Spring Season = "spring"
	Fall   Season = "fall"
)

// Phase is one of the four stages the phase machine cycles through.
type Phase string

const (
	CountryClaiming   Phase = "country-claiming"
	OrderWriting      Phase = "order-writing"
	Retreating        Phase = "retreating"
	CreatingDisbanding Phase = "creating-disbanding"
)

// Outcome is the overall game result.
type Outcome string

const (
	Playing Outcome = "playing"
	Won     Outcome = "won"
	Drawn   Outcome = "drawn"
)

const unclaimed = ""

// Dislodgement records a unit forced out of its province, pending retreat.
type Dislodgement struct {
	Unit    Unit
	From    string // attacker's origin province; empty if the attacker arrived by convoy
	Country string
}

// Nation is one country's per-turn holdings.
type Nation struct {
	SupplyCenters map[string]bool
	Units         []Unit
	Neutral       bool
	ToBuild       int // signed: positive = builds owed, negative = disbands owed
}

func newNation() *Nation {
	return &Nation{SupplyCenters: make(map[string]bool)}
}

// State is one half-year half-phase snapshot of the board.
type State struct {
	Date   int
	Season Season

	Nations map[string]*Nation // country id -> holdings

	Orders        map[string]map[string]Order // country -> province -> order
	Retreats      map[string]map[string]Order // country -> province -> retreat order
	Dislodgements map[string]Dislodgement     // province -> dislodgement
	Adjustments   map[string][]Order          // country -> build/disband/pass orders
	Contested     map[string]bool             // provinces contested this turn
}

func newState(date int, season Season) *State {
	return &State{
		Date:          date,
		Season:        season,
		Nations:       make(map[string]*Nation),
		Orders:        make(map[string]map[string]Order),
		Retreats:      make(map[string]map[string]Order),
		Dislodgements: make(map[string]Dislodgement),
		Adjustments:   make(map[string][]Order),
		Contested:     make(map[string]bool),
	}
}

// clone returns a copy of the nations table (orders, retreats,
// dislodgements and contested provinces start empty), used when
// appending the next state after a movement or retreat phase resolves.
func (s *State) clone() *State {
	c := newState(s.Date, s.Season)
	for country, n := range s.Nations {
		nn := newNation()
		nn.Neutral = n.Neutral
		nn.ToBuild = n.ToBuild
		for sc := range n.SupplyCenters {
			nn.SupplyCenters[sc] = true
		}
		nn.Units = append(nn.Units, n.Units...)
		c.Nations[country] = nn
	}
	return c
}

// UnitAt returns the unit occupying a province, or nil.
func (s *State) UnitAt(province string) *Unit {
	for _, n := range s.Nations {
		for i := range n.Units {
			if n.Units[i].Province == province {
				return &n.Units[i]
			}
		}
	}
	return nil
}

// OwnerOfUnit returns the country id owning the unit at a province, or "".
func (s *State) OwnerOfUnit(province string) string {
	u := s.UnitAt(province)
	if u == nil {
		return ""
	}
	return u.Country
}

// Game is the full per-match record: identity, claimed countries, and
// the append-only history of States.
type Game struct {
	ID      int64
	Name    string
	MapPath string
	Users   []string          // ordered multiset of usernames
	Players map[string]string // country id -> username, unclaimed = ""
	Winner  string
	Outcome Outcome
	Phase   Phase

	History []*State

	mapView *Map
}

// NewGame constructs a Game for the given pruned map view and country
// roster, seeded with the starting State (Spring of the map's starting
// date). The game starts in the CountryClaiming phase.
func NewGame(id int64, name, mapPath string, m *Map) *Game {
	g := &Game{
		ID:      id,
		Name:    name,
		MapPath: mapPath,
		Players: make(map[string]string),
		Outcome: Playing,
		Phase:   CountryClaiming,
		mapView: m,
	}
	for cid := range m.Countries {
		g.Players[cid] = unclaimed
	}

	start := newState(m.Info.StartingDate, Spring)
	for cid, c := range m.Countries {
		n := newNation()
		for _, sc := range c.InitialSupplyCenters {
			n.SupplyCenters[sc] = true
		}
		start.Nations[cid] = n
	}
	for _, p := range m.Provinces {
		if p.StartUnit == NoUnit {
			continue
		}
		owner := ""
		for cid, c := range m.Countries {
			for _, sc := range c.InitialSupplyCenters {
				if sc == p.ID {
					owner = cid
				}
			}
		}
		if owner == "" {
			continue
		}
		n := start.Nations[owner]
		n.Units = append(n.Units, Unit{Type: p.StartUnit, Country: owner, Province: p.ID, Coast: p.StartCoast})
	}
	g.History = append(g.History, start)
	return g
}

// Map returns the pruned map view this game was constructed with.
func (g *Game) Map() *Map { return g.mapView }

// Current returns the current (last) state — mutable working state.
func (g *Game) Current() *State { return g.History[len(g.History)-1] }

// Previous returns the just-resolved state (second-to-last), or nil if
// only the initial state exists.
func (g *Game) Previous() *State {
	if len(g.History) < 2 {
		return nil
	}
	return g.History[len(g.History)-2]
}

// AppendState appends a new state to history, becoming the new current state.
func (g *Game) AppendState(s *State) { g.History = append(g.History, s) }

// UnitAt delegates to the current state.
func (g *Game) UnitAt(province string) *Unit { return g.Current().UnitAt(province) }

// OwnerOfCountry returns the username controlling a country, or "" if unclaimed.
func (g *Game) OwnerOfCountry(country string) string { return g.Players[country] }

// SpawnUnit adds a unit to the current state, enforcing the at-most-one-
// unit-per-province and fleet/coast invariants.
func (g *Game) SpawnUnit(u Unit) error {
	s := g.Current()
	if s.UnitAt(u.Province) != nil {
		return &InternalError{"province " + u.Province + " already occupied"}
	}
	p := g.mapView.Provinces[u.Province]
	if p == nil {
		return &NotFoundError{"province", u.Province}
	}
	if u.Type == Army && p.Kind == Sea {
		return &InternalError{"army cannot occupy sea province " + u.Province}
	}
	if u.Type == Fleet && p.Kind == Land {
		return &InternalError{"fleet cannot occupy land province " + u.Province}
	}
	if u.Type == Fleet && len(p.Coasts) > 0 && u.Coast == "" {
		return &InternalError{"fleet on split-coast province " + u.Province + " needs a coast"}
	}
	n, ok := s.Nations[u.Country]
	if !ok {
		return &NotFoundError{"country", u.Country}
	}
	n.Units = append(n.Units, u)
	return nil
}

// RemoveUnit removes whatever unit occupies a province from the current
// state, if any.
func (g *Game) RemoveUnit(province string) {
	s := g.Current()
	for _, n := range s.Nations {
		for i := range n.Units {
			if n.Units[i].Province == province {
				n.Units = append(n.Units[:i], n.Units[i+1:]...)
				return
			}
		}
	}
}

// SetPhase transitions the game's current phase.
func (g *Game) SetPhase(p Phase) { g.Phase = p }

// GameRecord is the JSON-serializable projection of a Game used by the
// persistence layer — everything but the map view, which is derived
// from MapPath at load time rather than stored redundantly.
type GameRecord struct {
	ID      int64
	Name    string
	MapPath string
	Users   []string
	Players map[string]string
	Winner  string
	Outcome Outcome
	Phase   Phase
	History []*State
}

// Record projects a Game to its storable form.
func (g *Game) Record() GameRecord {
	return GameRecord{
		ID: g.ID, Name: g.Name, MapPath: g.MapPath,
		Users: g.Users, Players: g.Players,
		Winner: g.Winner, Outcome: g.Outcome, Phase: g.Phase,
		History: g.History,
	}
}

// RestoreGame reconstructs a Game from a stored record and the map view
// it was played on (loaded separately, keyed by rec.MapPath).
func RestoreGame(rec GameRecord, m *Map) *Game {
	return &Game{
		ID: rec.ID, Name: rec.Name, MapPath: rec.MapPath,
		Users: rec.Users, Players: rec.Players,
		Winner: rec.Winner, Outcome: rec.Outcome, Phase: rec.Phase,
		History: rec.History,
		mapView: m,
	}
}

// SupplyCenterCount counts a country's currently owned supply centers.
func (s *State) SupplyCenterCount(country string) int {
	n := s.Nations[country]
	if n == nil {
		return 0
	}
	return len(n.SupplyCenters)
}

// UnitCount counts a country's units on the board.
func (s *State) UnitCount(country string) int {
	n := s.Nations[country]
	if n == nil {
		return 0
	}
	return len(n.Units)
}

// TotalSupplyCenters counts every supply center on the map that is
// currently owned by some country. Win detection (CheckVictory) counts
// every supply center on the map instead, owned or not.
func (s *State) TotalSupplyCenters() int {
	total := 0
	for _, n := range s.Nations {
		total += len(n.SupplyCenters)
	}
	return total
}
