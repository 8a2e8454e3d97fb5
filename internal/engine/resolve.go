package engine

// resState is an order's place in the Kruijswijk resolution machine.
type resState int

const (
	stUnresolved resState = iota
	stGuessing
	stResolved
)

// depOrder tracks one order's adjudication state inside a single
// ResolveOrders call.
type depOrder struct {
	order      Order
	state      resState
	resolution bool
}

// resolver implements the Kruijswijk recursive guess/backtrack algorithm:
// resolve(i) either returns a stable answer immediately, or — on
// encountering a dependency cycle — guesses, checks the guess for
// self-consistency, and on a genuine paradox classifies the cycle as a
// convoy paradox or a circular-movement paradox and applies the
// corresponding backup rule before retrying.
type resolver struct {
	orders   []depOrder
	byProv   map[string]int // province -> index into orders
	depStack []int          // orders currently Guessing, in push order
	s        *State
	m        *Map
}

// ResolveOrders adjudicates a complete, validated order set (one order
// per unit — see ValidateAndDefaultOrders) against the current state.
// It stamps Result on every order and returns the set of dislodgements
// produced, keyed by province.
func ResolveOrders(orders []Order, s *State, m *Map) ([]Order, map[string]Dislodgement) {
	r := &resolver{
		orders: make([]depOrder, len(orders)),
		byProv: make(map[string]int, len(orders)),
		s:      s,
		m:      m,
	}
	for i, o := range orders {
		r.orders[i] = depOrder{order: o}
		r.byProv[o.Province] = i
	}
	for i := range r.orders {
		r.resolve(i)
	}
	return r.buildResults()
}

func (r *resolver) indexAt(province string) (int, bool) {
	i, ok := r.byProv[province]
	return i, ok
}

// resolve is the entry point of the adjudication algorithm for a single order.
func (r *resolver) resolve(i int) bool {
	o := &r.orders[i]

	switch o.state {
	case stResolved:
		return o.resolution
	case stGuessing:
		r.depStack = append(r.depStack, i)
		return o.resolution
	}

	oldDepSize := len(r.depStack)
	o.state = stGuessing
	o.resolution = false
	r1 := r.adjudicate(i)

	if len(r.depStack) == oldDepSize {
		o.state = stResolved
		o.resolution = r1
		return r1
	}

	firstNew := r.depStack[oldDepSize]
	if firstNew != i {
		o.resolution = r1
		r.depStack = append(r.depStack, i)
		return r1
	}

	// Self-cycle: back off to the guess point and retry with the opposite guess.
	r.resetTo(oldDepSize)
	o.state = stGuessing
	o.resolution = true
	r2 := r.adjudicate(i)

	if r1 == r2 {
		r.resetTo(oldDepSize)
		o.state = stResolved
		o.resolution = r1
		return r1
	}

	r.applyBackupRule(oldDepSize)
	return r.resolve(i)
}

// resetTo pops the dependency stack back to size n, resetting every
// popped order to Unresolved.
func (r *resolver) resetTo(n int) {
	for _, idx := range r.depStack[n:] {
		r.orders[idx].state = stUnresolved
	}
	r.depStack = r.depStack[:n]
}

// applyBackupRule classifies the cycle currently sitting on depStack[n:]
// and resolves it, then truncates the stack back to n.
func (r *resolver) applyBackupRule(n int) {
	cycle := append([]int(nil), r.depStack[n:]...)
	for _, idx := range cycle {
		r.orders[idx].state = stUnresolved
	}

	convoyParadox := false
	for _, idx := range cycle {
		m := r.orders[idx].order
		if m.Kind != OrderMove || !m.IsConvoy {
			continue
		}
		for _, j := range cycle {
			c := r.orders[j].order
			if c.Kind == OrderConvoy && c.Start == m.Province && c.End == m.Dest {
				convoyParadox = true
			}
		}
	}

	if convoyParadox {
		for _, idx := range cycle {
			o := &r.orders[idx]
			if o.order.Kind == OrderConvoy || (o.order.Kind == OrderMove && o.order.IsConvoy) {
				o.state, o.resolution = stResolved, false
			}
		}
	} else {
		for _, idx := range cycle {
			o := &r.orders[idx]
			if o.order.Kind == OrderMove {
				o.state, o.resolution = stResolved, true
			}
		}
	}

	r.depStack = r.depStack[:n]
}

// adjudicate dispatches to the per-kind resolution function. This is the
// body that may (recursively, via r.resolve) push new dependencies onto
// the stack.
func (r *resolver) adjudicate(i int) bool {
	switch r.orders[i].order.Kind {
	case OrderHold, OrderBuild, OrderDisband, OrderPass, OrderCancel:
		return true
	case OrderMove:
		return r.resolveMove(i)
	case OrderSupportHold, OrderSupportMove:
		return r.resolveSupport(i)
	case OrderConvoy:
		return r.resolveConvoy(i)
	default:
		return false
	}
}

func (r *resolver) resolveMove(i int) bool {
	o := r.orders[i].order

	if r.needsConvoy(o) && !r.hasConvoyRoute(o) {
		return false
	}

	attack := r.attackStrength(i)
	destIdx, destOccupied := r.indexAt(o.Dest)
	hold := 0
	if destOccupied {
		hold = r.holdStrength(destIdx)
	}
	if attack <= hold {
		return false
	}

	// Head-to-head: the unit at our destination is itself moving into our province.
	if destOccupied {
		defender := r.orders[destIdx].order
		if defender.Kind == OrderMove && defender.Dest == o.Province && !o.IsConvoy && !defender.IsConvoy {
			if attack <= r.attackStrength(destIdx) {
				return false
			}
		}
	}

	for j := range r.orders {
		if j == i {
			continue
		}
		other := r.orders[j].order
		if other.Kind != OrderMove || other.Dest != o.Dest {
			continue
		}
		if attack <= r.preventStrength(j) {
			return false
		}
	}

	return true
}

// attackStrength is the strength of a move order attacking its destination.
func (r *resolver) attackStrength(i int) int {
	o := r.orders[i].order
	if o.Kind != OrderMove {
		return 0
	}

	occupier := r.s.UnitAt(o.Dest)
	if occupier != nil && occupier.Country == o.Country {
		destIdx, ok := r.indexAt(o.Dest)
		if !ok {
			return 0
		}
		occOrder := r.orders[destIdx].order
		if occOrder.Kind != OrderMove {
			return 0
		}
		if occOrder.Dest == o.Province {
			return 0 // own unit swapping places: illegal, no attack
		}
	}

	strength := 1
	for j := range r.orders {
		other := r.orders[j].order
		if other.Kind != OrderSupportMove || other.From != o.Province || other.Supporting != o.Dest {
			continue
		}
		if r.resolve(j) {
			strength++
		}
	}
	return strength
}

// holdStrength is the defensive strength of whatever is holding (or
// failing to move out of) the province at orders index provIdx.
func (r *resolver) holdStrength(provIdx int) int {
	o := r.orders[provIdx].order
	if o.Kind == OrderMove {
		if r.resolve(provIdx) {
			return 0
		}
		return 1
	}

	strength := 1
	for j := range r.orders {
		other := r.orders[j].order
		if other.Kind != OrderSupportHold || other.Supporting != o.Province {
			continue
		}
		if r.resolve(j) {
			strength++
		}
	}
	return strength
}

// preventStrength is the strength with which the competing move at
// orders index i keeps some other move out of its shared destination.
func (r *resolver) preventStrength(i int) int {
	o := r.orders[i].order
	if o.Kind != OrderMove {
		return 0
	}
	if r.needsConvoy(o) && !r.hasConvoyRoute(o) {
		return 0
	}

	destIdx, destOccupied := r.indexAt(o.Dest)
	if destOccupied {
		defender := r.orders[destIdx].order
		if defender.Kind == OrderMove && defender.Dest == o.Province && !o.IsConvoy && !defender.IsConvoy {
			if !r.resolve(i) {
				return 0 // lost the head-to-head
			}
		}
	}

	strength := 1
	for j := range r.orders {
		other := r.orders[j].order
		if other.Kind != OrderSupportMove || other.From != o.Province || other.Supporting != o.Dest {
			continue
		}
		if r.resolve(j) {
			strength++
		}
	}
	return strength
}

// resolveSupport implements support-cutting: a support order fails iff
// some move attacks the supporter's province from a direction other
// than the one being supported into, from a different country, via a
// route that actually works.
func (r *resolver) resolveSupport(i int) bool {
	o := r.orders[i].order

	for j := range r.orders {
		if j == i {
			continue
		}
		other := r.orders[j].order
		if other.Kind != OrderMove || other.Dest != o.Province {
			continue
		}
		if o.Kind == OrderSupportMove && other.Province == o.Supporting {
			continue // can't be cut by the very unit being attacked
		}
		if other.Country == o.Country {
			continue
		}
		if other.IsConvoy && !r.hasConvoyRoute(other) {
			continue
		}
		return false
	}
	return true
}

// resolveConvoy succeeds unless the convoying fleet is itself dislodged.
func (r *resolver) resolveConvoy(i int) bool {
	o := r.orders[i].order
	for j := range r.orders {
		other := r.orders[j].order
		if other.Kind != OrderMove || other.Dest != o.Province {
			continue
		}
		if r.resolve(j) {
			return false
		}
	}
	return true
}

// needsConvoy reports whether a move must travel by convoy — either
// because the submitter declared it, or because no direct land route exists.
func (r *resolver) needsConvoy(o Order) bool {
	if o.Kind != OrderMove || o.UnitType != Army {
		return false
	}
	if o.IsConvoy {
		return true
	}
	return !r.m.Adjacent(o.Province, o.Coast, o.Dest, "", false)
}

// hasConvoyRoute implements any_convoy_route(m): true iff a chain of
// working Convoy orders connects m's origin to its destination through
// sea provinces, explored by DFS/BFS over all candidate hops so that any
// single successful path suffices.
func (r *resolver) hasConvoyRoute(o Order) bool {
	visited := make(map[int]bool)
	var queue []int

	for j := range r.orders {
		c := r.orders[j].order
		if c.Kind != OrderConvoy || c.Start != o.Province || c.End != o.Dest {
			continue
		}
		p := r.m.Provinces[c.Province]
		if p == nil || p.Kind != Sea {
			continue
		}
		if !r.m.AdjacentIgnoreCoasts(o.Province, c.Province, true) {
			continue
		}
		if r.resolve(j) {
			visited[j] = true
			queue = append(queue, j)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curOrder := r.orders[cur].order

		if r.m.AdjacentIgnoreCoasts(curOrder.Province, o.Dest, true) {
			return true
		}

		for j := range r.orders {
			if visited[j] {
				continue
			}
			c := r.orders[j].order
			if c.Kind != OrderConvoy || c.Start != o.Province || c.End != o.Dest {
				continue
			}
			p := r.m.Provinces[c.Province]
			if p == nil || p.Kind != Sea {
				continue
			}
			if !r.m.AdjacentIgnoreCoasts(curOrder.Province, c.Province, true) {
				continue
			}
			if r.resolve(j) {
				visited[j] = true
				queue = append(queue, j)
			}
		}
	}
	return false
}

// buildResults stamps Result on every order and computes the
// dislodgement table.
func (r *resolver) buildResults() ([]Order, map[string]Dislodgement) {
	attackerOf := make(map[string]string) // dest province -> attacker's origin province, for successful moves
	convoyedAttackerOf := make(map[string]bool)
	for _, ro := range r.orders {
		if ro.order.Kind == OrderMove && ro.resolution {
			attackerOf[ro.order.Dest] = ro.order.Province
			convoyedAttackerOf[ro.order.Dest] = ro.order.IsConvoy
		}
	}

	out := make([]Order, len(r.orders))
	dislodgements := make(map[string]Dislodgement)

	for i, ro := range r.orders {
		o := ro.order
		result := Success

		switch o.Kind {
		case OrderMove:
			if !ro.resolution {
				result = Fail
			}
		case OrderSupportHold, OrderSupportMove:
			if !ro.resolution {
				result = Fail
			}
		case OrderConvoy:
			if !ro.resolution {
				result = Fail
			}
		case OrderHold:
			result = Success
		}

		if attackerFrom, ok := attackerOf[o.Province]; ok {
			if o.Kind != OrderMove || !ro.resolution {
				result = Dislodged
				from := attackerFrom
				if convoyedAttackerOf[o.Province] {
					from = ""
				}
				dislodgements[o.Province] = Dislodgement{
					Unit:    Unit{Type: o.UnitType, Country: o.Country, Province: o.Province, Coast: o.Coast},
					From:    from,
					Country: o.Country,
				}
			}
		}

		o.Result = result
		out[i] = o
	}

	return out, dislodgements
}

// ContestedProvinces returns provinces with two or more failed,
// non-winning attackers, which retreats may not enter.
func ContestedProvinces(resolved []Order) map[string]bool {
	attempts := make(map[string]int)
	for _, o := range resolved {
		if o.Kind != OrderMove {
			continue
		}
		if o.Result == Fail {
			attempts[o.Dest]++
		}
	}
	contested := make(map[string]bool)
	for dest, n := range attempts {
		if n >= 2 {
			contested[dest] = true
		}
	}
	return contested
}

// ApplyMoves mutates the state: successful movers relocate, dislodged
// units are removed from the board (their retreat channel is opened by
// the caller via the returned Dislodgement table from ResolveOrders).
func ApplyMoves(s *State, m *Map, resolved []Order, dislodgements map[string]Dislodgement) {
	type relocate struct {
		dest, coast string
		clearCoast  bool
	}
	moves := make(map[string]relocate) // origin province -> relocation
	for _, o := range resolved {
		if o.Kind == OrderMove && o.Result == Success {
			moves[o.Province] = relocate{
				dest:       o.Dest,
				coast:      o.DestCoast,
				clearCoast: o.DestCoast == "" && !m.HasCoasts(o.Dest),
			}
		}
	}

	for _, n := range s.Nations {
		kept := n.Units[:0]
		for _, u := range n.Units {
			if _, dislodged := dislodgements[u.Province]; dislodged {
				continue
			}
			if mv, ok := moves[u.Province]; ok {
				u.Province = mv.dest
				if mv.coast != "" {
					u.Coast = mv.coast
				} else if mv.clearCoast {
					u.Coast = ""
				}
			}
			kept = append(kept, u)
		}
		n.Units = kept
	}
}
