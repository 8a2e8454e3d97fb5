package engine

// ValidateOrder checks whether an order is legal for its unit given the
// current state and map, independent of which phase submitted it (phase-
// specific submission rules live in phase.go / retreat.go / adjust.go).
// Validity never consults team membership to reject moves into occupied
// friendly territory — that is rejected at adjudication time as a
// 0-strength attack, not here.
func ValidateOrder(o Order, s *State, m *Map) error {
	switch o.Kind {
	case OrderHold:
		return validateUnitOwnership(o, s)
	case OrderMove:
		if err := validateUnitOwnership(o, s); err != nil {
			return err
		}
		return validateMove(o, s, m)
	case OrderSupportHold:
		if err := validateUnitOwnership(o, s); err != nil {
			return err
		}
		return validateSupportHold(o, s, m)
	case OrderSupportMove:
		if err := validateUnitOwnership(o, s); err != nil {
			return err
		}
		return validateSupportMove(o, s, m)
	case OrderConvoy:
		if err := validateUnitOwnership(o, s); err != nil {
			return err
		}
		return validateConvoy(o, s, m)
	default:
		return &InvalidSubmission{o, "order kind not valid during order-writing"}
	}
}

func validateUnitOwnership(o Order, s *State) error {
	u := s.UnitAt(o.Province)
	if u == nil {
		return &InvalidSubmission{o, "no unit at " + o.Province}
	}
	if u.Country != o.Country {
		return &InvalidSubmission{o, "unit at " + o.Province + " belongs to " + u.Country}
	}
	if u.Type != o.UnitType {
		return &InvalidSubmission{o, "unit at " + o.Province + " is a " + u.Type.String()}
	}
	return nil
}

func validateMove(o Order, s *State, m *Map) error {
	isFleet := o.UnitType == Fleet
	dest := m.Provinces[o.Dest]
	if dest == nil {
		return &InvalidSubmission{o, "unknown destination " + o.Dest}
	}
	if isFleet && dest.Kind == Land {
		return &InvalidSubmission{o, "fleet cannot move to inland province"}
	}
	if !isFleet && dest.Kind == Sea {
		return &InvalidSubmission{o, "army cannot move to sea province"}
	}

	if m.Adjacent(o.Province, o.Coast, o.Dest, o.DestCoast, isFleet) {
		if isFleet && m.HasCoasts(o.Dest) {
			return validateDestCoast(o, m)
		}
		return nil
	}

	if !isFleet && canBeConvoyed(o.Province, o.Dest, s, m) {
		return nil
	}

	return &InvalidSubmission{o, "cannot move from " + o.Province + " to " + o.Dest}
}

func validateDestCoast(o Order, m *Map) error {
	coasts := m.FleetCoastsTo(o.Province, o.Coast, o.Dest)
	if o.DestCoast == "" {
		if len(coasts) == 0 {
			return &InvalidSubmission{o, "fleet cannot reach any coast of " + o.Dest}
		}
		if len(coasts) > 1 {
			return &InvalidSubmission{o, "must specify coast for " + o.Dest}
		}
		return nil
	}
	for _, c := range coasts {
		if c == o.DestCoast {
			return nil
		}
	}
	return &InvalidSubmission{o, "fleet cannot reach that coast of " + o.Dest}
}

func validateSupportHold(o Order, s *State, m *Map) error {
	held := s.UnitAt(o.Supporting)
	if held == nil {
		return &InvalidSubmission{o, "no unit at " + o.Supporting + " to support"}
	}
	isFleet := o.UnitType == Fleet
	if !canPotentiallyReach(o.Province, o.Coast, o.Supporting, isFleet, m) {
		return &InvalidSubmission{o, "cannot support hold at " + o.Supporting}
	}
	return nil
}

func validateSupportMove(o Order, s *State, m *Map) error {
	supported := s.UnitAt(o.From)
	if supported == nil {
		return &InvalidSubmission{o, "no unit at " + o.From + " to support"}
	}
	isFleet := o.UnitType == Fleet
	if !canPotentiallyReach(o.Province, o.Coast, o.Supporting, isFleet, m) {
		return &InvalidSubmission{o, "cannot support move into " + o.Supporting}
	}
	supportedIsFleet := supported.Type == Fleet
	if canPotentiallyReach(o.From, supported.Coast, o.Supporting, supportedIsFleet, m) {
		return nil
	}
	if supported.Type == Army && canBeConvoyed(o.From, o.Supporting, s, m) {
		return nil
	}
	return &InvalidSubmission{o, "supported unit at " + o.From + " cannot reach " + o.Supporting}
}

func validateConvoy(o Order, s *State, m *Map) error {
	if o.UnitType != Fleet {
		return &InvalidSubmission{o, "only fleets can convoy"}
	}
	p := m.Provinces[o.Province]
	if p == nil || p.Kind != Sea {
		return &InvalidSubmission{o, "fleet must be at sea to convoy"}
	}
	convoyed := s.UnitAt(o.Start)
	if convoyed == nil {
		return &InvalidSubmission{o, "no unit at " + o.Start + " to convoy"}
	}
	if convoyed.Type != Army {
		return &InvalidSubmission{o, "only armies can be convoyed"}
	}
	if !m.AdjacentIgnoreCoasts(o.Province, o.Start, true) {
		return &InvalidSubmission{o, o.Province + " does not border " + o.Start}
	}
	if !m.AdjacentIgnoreCoasts(o.Province, o.End, true) {
		return &InvalidSubmission{o, o.Province + " does not border " + o.End}
	}
	return nil
}

// canPotentiallyReach reports whether a unit at (from, coast) could move
// to dst ignoring occupancy — the "potential move" test used to validate
// support orders, regardless of whether a move was actually ordered.
func canPotentiallyReach(from, coast, dst string, fleet bool, m *Map) bool {
	if m.Adjacent(from, coast, dst, "", fleet) {
		return true
	}
	return false
}

// canBeConvoyed reports whether an army at src could in principle reach
// dst via a chain of sea provinces that currently hold fleets — this is
// a reachability check only; whether the convoy actually succeeds once
// Convoy orders are submitted is decided at adjudication time.
func canBeConvoyed(src, dst string, s *State, m *Map) bool {
	srcProv, dstProv := m.Provinces[src], m.Provinces[dst]
	if srcProv == nil || dstProv == nil || srcProv.Kind == Sea || dstProv.Kind == Sea {
		return false
	}

	visited := make(map[string]bool)
	var queue []string
	for _, sea := range m.SeaProvincesAdjacentTo(src) {
		if u := s.UnitAt(sea); u != nil && u.Type == Fleet && !visited[sea] {
			visited[sea] = true
			queue = append(queue, sea)
		}
	}
	// src itself might directly border a sea province without passing through
	// any fleet-occupied hop; that case is handled by the direct-adjacency
	// branch in validateMove, so here we only explore fleet-occupied hops.
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if m.AdjacentIgnoreCoasts(cur, dst, true) {
			return true
		}
		for _, next := range m.SeaProvincesAdjacentTo(cur) {
			if visited[next] {
				continue
			}
			if u := s.UnitAt(next); u != nil && u.Type == Fleet {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// ValidateAndDefaultOrders completes a submitted order set: invalid
// orders become holds (orders for empty provinces are dropped), and every unit without a
// submitted order defaults to Hold.
func ValidateAndDefaultOrders(submitted []Order, s *State, m *Map) []Order {
	ordered := make(map[string]bool, len(submitted))
	var complete []Order

	for _, o := range submitted {
		if err := ValidateOrder(o, s, m); err != nil {
			unit := s.UnitAt(o.Province)
			if unit == nil {
				continue
			}
			complete = append(complete, Order{Kind: OrderHold, Country: unit.Country, Province: unit.Province, UnitType: unit.Type, Coast: unit.Coast})
			ordered[o.Province] = true
			continue
		}
		complete = append(complete, o)
		ordered[o.Province] = true
	}

	for _, n := range s.Nations {
		for _, u := range n.Units {
			if ordered[u.Province] {
				continue
			}
			complete = append(complete, Order{Kind: OrderHold, Country: u.Country, Province: u.Province, UnitType: u.Type, Coast: u.Coast})
		}
	}
	return complete
}
