package engine

// ClaimCountry assigns a country to a user during the country-claiming
// phase. If country belongs to a group of countries that must be
// claimed together, every unclaimed country in the group is assigned to
// the same user in one step. Claiming the last open seat (or the last
// seat of every group a claim completes) advances the game to
// order-writing.
func ClaimCountry(g *Game, user, country string) error {
	if g.Phase != CountryClaiming {
		return &InvalidStateError{g.Phase, "countries can only be claimed before play starts"}
	}
	if _, ok := g.Players[country]; !ok {
		return &NotFoundError{"country", country}
	}
	if g.Players[country] != unclaimed {
		return &InvalidSubmission{Order{Country: country}, "country already claimed"}
	}

	group := g.Map().CountryGroup(country)
	for _, c := range group {
		if owner, ok := g.Players[c]; ok && owner != unclaimed && owner != user {
			return &InvalidSubmission{Order{Country: country}, "country group already claimed by another user"}
		}
	}

	for _, c := range group {
		g.Players[c] = user
	}
	if !contains(g.Users, user) {
		g.Users = append(g.Users, user)
	}

	if allClaimed(g) {
		g.SetPhase(OrderWriting)
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func allClaimed(g *Game) bool {
	for _, owner := range g.Players {
		if owner == unclaimed {
			return false
		}
	}
	return true
}

// ProcessOrderWriting resolves a completed movement phase: validates and
// defaults every submission, adjudicates, applies successful moves, and
// advances the phase — to Retreating if anyone was dislodged, otherwise
// straight through to the next turn (which may itself be
// CreatingDisbanding after a Fall movement phase).
func ProcessOrderWriting(g *Game, submitted []Order) error {
	if g.Phase != OrderWriting {
		return &InvalidStateError{g.Phase, "not in order-writing"}
	}
	s := g.Current()
	m := g.Map()

	complete := ValidateAndDefaultOrders(submitted, s, m)
	resolved, dislodgements := ResolveOrders(complete, s, m)
	ApplyMoves(s, m, resolved, dislodgements)

	orderByProvince := make(map[string]map[string]Order)
	for _, o := range resolved {
		if orderByProvince[o.Country] == nil {
			orderByProvince[o.Country] = make(map[string]Order)
		}
		orderByProvince[o.Country][o.Province] = o
	}
	s.Orders = orderByProvince
	s.Dislodgements = dislodgements
	s.Contested = ContestedProvinces(resolved)

	if len(dislodgements) > 0 {
		g.SetPhase(Retreating)
		return nil
	}
	return advanceTurn(g)
}

// ProcessRetreats resolves a completed retreat phase and advances to the
// next turn (which, again, may be CreatingDisbanding in Fall).
func ProcessRetreats(g *Game, submitted map[string]Order) error {
	if g.Phase != Retreating {
		return &InvalidStateError{g.Phase, "not in retreat phase"}
	}
	s := g.Current()
	m := g.Map()

	next := ResolveRetreats(submitted, s.Dislodgements, s, m)
	g.AppendState(next)
	return advanceTurn(g)
}

// ProcessAdjustments resolves a completed build/disband phase and
// advances to Spring of the following year.
func ProcessAdjustments(g *Game, byCountry map[string][]Order) error {
	if g.Phase != CreatingDisbanding {
		return &InvalidStateError{g.Phase, "not in adjustment phase"}
	}
	m := g.Map()
	for country, submitted := range byCountry {
		home := homeCenterSet(m, country)
		if err := ResolveAdjustments(country, submitted, home, g); err != nil {
			return err
		}
	}
	// A country owing disbands that submitted nothing still goes into
	// civil disorder.
	for country, n := range g.Current().Nations {
		if _, ok := byCountry[country]; ok || n.ToBuild >= 0 {
			continue
		}
		if err := ResolveAdjustments(country, nil, homeCenterSet(m, country), g); err != nil {
			return err
		}
	}
	return startNextSpring(g)
}

// advanceTurn implements the end-of-movement transition table:
// Spring movement always falls straight into Fall movement of the same
// year; Fall movement resolves supply-center ownership and either opens
// the adjustment phase (someone owes a build or disband) or skips
// straight to next Spring.
func advanceTurn(g *Game) error {
	s := g.Current()
	m := g.Map()

	if s.Season == Spring {
		next := s.clone()
		next.Season = Fall
		g.AppendState(next)
		g.SetPhase(OrderWriting)
		return nil
	}

	UpdateSupplyCenters(s, m)
	if winner, outcome := CheckVictory(s, m); outcome == Won {
		g.Winner = winner
		g.Outcome = Won
		return nil
	}

	ComputeAdjustments(s)
	for _, n := range s.Nations {
		if n.ToBuild != 0 {
			g.SetPhase(CreatingDisbanding)
			return nil
		}
	}
	return startNextSpring(g)
}

func startNextSpring(g *Game) error {
	s := g.Current()
	next := s.clone()
	next.Date++
	next.Season = Spring
	g.AppendState(next)
	g.SetPhase(OrderWriting)
	return nil
}

func homeCenterSet(m *Map, country string) map[string]bool {
	home := make(map[string]bool)
	if c, ok := m.Countries[country]; ok {
		for _, sc := range c.InitialSupplyCenters {
			home[sc] = true
		}
	}
	return home
}
