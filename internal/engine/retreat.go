package engine

// ValidRetreats enumerates the legal destinations for a dislodged unit:
// provinces adjacent to its former position that are neither occupied
// nor contested this turn, and not the attacker's own origin — unless the
// attacker arrived by convoy, in which case its origin is allowed.
func ValidRetreats(d Dislodgement, s *State, m *Map) []string {
	fleet := d.Unit.Type == Fleet
	candidates := m.ProvincesAdjacentTo(d.Unit.Province, d.Unit.Coast, fleet)

	var valid []string
	for _, p := range candidates {
		if p == d.From {
			continue
		}
		if s.UnitAt(p) != nil {
			continue
		}
		if s.Contested[p] {
			continue
		}
		valid = append(valid, p)
	}
	return valid
}

// ValidateRetreat checks a single submitted retreat order against the
// dislodgement it answers.
func ValidateRetreat(o Order, d Dislodgement, s *State, m *Map) error {
	if o.Kind == OrderDisband {
		return nil
	}
	if o.Kind != OrderRetreat {
		return &InvalidSubmission{o, "must be a retreat or a disband during the retreat phase"}
	}
	for _, p := range ValidRetreats(d, s, m) {
		if p != o.Dest {
			continue
		}
		if m.HasCoasts(o.Dest) && d.Unit.Type == Fleet {
			coasts := m.FleetCoastsTo(d.Unit.Province, d.Unit.Coast, o.Dest)
			if o.DestCoast == "" && len(coasts) > 1 {
				return &InvalidSubmission{o, "must specify coast for " + o.Dest}
			}
			for _, c := range coasts {
				if c == o.DestCoast || o.DestCoast == "" {
					return nil
				}
			}
			return &InvalidSubmission{o, "fleet cannot reach that coast of " + o.Dest}
		}
		return nil
	}
	return &InvalidSubmission{o, "cannot retreat to " + o.Dest}
}

// ResolveRetreats applies a complete set of retreat-phase orders (one
// per dislodged unit, defaulted to Disband if absent) to state s,
// producing the next state. Two units retreating to the same province
// both fail and are disbanded instead.
func ResolveRetreats(orders map[string]Order, dislodgements map[string]Dislodgement, s *State, m *Map) *State {
	next := s.clone()

	destCount := make(map[string]int)
	for province, o := range orders {
		if o.Kind != OrderRetreat {
			continue
		}
		_ = province
		destCount[o.Dest]++
	}

	for province, d := range dislodgements {
		o, ok := orders[province]
		if !ok || o.Kind != OrderRetreat || destCount[o.Dest] > 1 {
			continue // disbanded: never re-added to next
		}
		n := next.Nations[d.Country]
		if n == nil {
			continue
		}
		u := d.Unit
		u.Province = o.Dest
		if o.DestCoast != "" {
			u.Coast = o.DestCoast
		} else if !m.HasCoasts(o.Dest) {
			u.Coast = ""
		}
		n.Units = append(n.Units, u)
	}

	next.Dislodgements = nil
	return next
}
