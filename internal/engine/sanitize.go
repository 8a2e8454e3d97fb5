package engine

// UnitView, NationView, OrderView, and StateView are the redacted, JSON-
// ready projections of State/Nation/Order exposed to a particular
// viewer. An in-flight phase's submissions are hidden from everyone
// except the submitting country until the phase closes; every prior
// (resolved) phase is fully public.
type UnitView struct {
	Type     string `json:"type"`
	Country  string `json:"country"`
	Province string `json:"province"`
	Coast    string `json:"coast,omitempty"`
}

type NationView struct {
	SupplyCenters []string `json:"supplyCenters"`
	Units         []UnitView `json:"units"`
	ToBuild       int      `json:"toBuild,omitempty"`
}

type OrderView struct {
	Text string `json:"text"`
}

type StateView struct {
	Date     int                   `json:"date"`
	Season   string                `json:"season"`
	Nations  map[string]NationView `json:"nations"`
	Orders   map[string][]OrderView `json:"orders,omitempty"`   // country -> its visible orders
	Contested []string             `json:"contested,omitempty"`
}

type GameView struct {
	ID      int64               `json:"id"`
	Name    string              `json:"name"`
	Phase   string              `json:"phase"`
	Outcome string              `json:"outcome"`
	Winner  string              `json:"winner,omitempty"`
	Players map[string]string   `json:"players"`
	History []StateView         `json:"history"`
}

// SanitizeGame builds the view of a game visible to viewerCountry (""
// for an observer with no hidden-information privileges).
func SanitizeGame(g *Game, viewerCountry string) *GameView {
	v := &GameView{
		ID:      g.ID,
		Name:    g.Name,
		Phase:   string(g.Phase),
		Outcome: string(g.Outcome),
		Winner:  g.Winner,
		Players: g.Players,
	}
	last := len(g.History) - 1
	// The newest state is "in flight" (its orders hidden pre-resolution)
	// only while the phase still owes a submission against it. Once
	// movement resolves, its orders are public even if the game has moved
	// on to Retreating against that same state — only the retreat orders
	// themselves, not tracked here, remain hidden until they resolve too.
	lastInFlight := g.Phase == OrderWriting || g.Phase == CreatingDisbanding
	for i, s := range g.History {
		v.History = append(v.History, sanitizeState(s, i == last && lastInFlight, viewerCountry))
	}
	return v
}

func sanitizeState(s *State, inFlight bool, viewerCountry string) StateView {
	sv := StateView{
		Date:    s.Date,
		Season:  string(s.Season),
		Nations: make(map[string]NationView, len(s.Nations)),
	}
	for country, n := range s.Nations {
		sv.Nations[country] = exportNation(n)
	}
	if !inFlight {
		sv.Orders = exportAllOrders(s)
		for p := range s.Contested {
			sv.Contested = append(sv.Contested, p)
		}
		return sv
	}
	if viewerCountry != "" {
		sv.Orders = exportOwnOrders(s, viewerCountry)
	}
	return sv
}

func exportNation(n *Nation) NationView {
	nv := NationView{ToBuild: n.ToBuild}
	for sc := range n.SupplyCenters {
		nv.SupplyCenters = append(nv.SupplyCenters, sc)
	}
	for _, u := range n.Units {
		nv.Units = append(nv.Units, UnitView{Type: u.Type.String(), Country: u.Country, Province: u.Province, Coast: u.Coast})
	}
	return nv
}

func exportAllOrders(s *State) map[string][]OrderView {
	out := make(map[string][]OrderView)
	for country, byProvince := range s.Orders {
		out[country] = describeOrders(byProvince)
	}
	for country, byProvince := range s.Retreats {
		out[country] = append(out[country], describeOrders(byProvince)...)
	}
	for country, orders := range s.Adjustments {
		for _, o := range orders {
			out[country] = append(out[country], OrderView{Text: o.Describe()})
		}
	}
	return out
}

func exportOwnOrders(s *State, country string) map[string][]OrderView {
	out := make(map[string][]OrderView)
	if byProvince, ok := s.Orders[country]; ok {
		out[country] = describeOrders(byProvince)
	}
	if byProvince, ok := s.Retreats[country]; ok {
		out[country] = append(out[country], describeOrders(byProvince)...)
	}
	if orders, ok := s.Adjustments[country]; ok {
		for _, o := range orders {
			out[country] = append(out[country], OrderView{Text: o.Describe()})
		}
	}
	return out
}

func describeOrders(byProvince map[string]Order) []OrderView {
	var out []OrderView
	for _, o := range byProvince {
		out = append(out, OrderView{Text: o.Describe()})
	}
	return out
}
