package engine

import "testing"

// DATC-style scenarios (Diplomacy Adjudicator Test Cases).
// Reference: http://web.inter.nl.net/users/L.B.Kruijswijk/

// S1: a single unopposed move succeeds.
func TestS1_SimpleMoveSucceeds(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(Unit{Army, "france", "par", ""})
	orders := []Order{move(Army, "france", "par", "bur")}

	orders = ValidateAndDefaultOrders(orders, s, m)
	resolved, _ := ResolveOrders(orders, s, m)
	if resultFor(resolved, "par") != Success {
		t.Fatalf("expected Par->Bur to succeed, got %v", resultFor(resolved, "par"))
	}

	ApplyMoves(s, m, resolved, nil)
	if u := s.UnitAt("bur"); u == nil || u.Country != "france" {
		t.Fatalf("expected French unit to land in Bur, got %v", u)
	}
	if s.UnitAt("par") != nil {
		t.Fatalf("expected Par to be vacated")
	}
}

// S2: two units moving to the same empty province both bounce.
func TestS2_Bounce(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(
		Unit{Army, "france", "par", ""},
		Unit{Army, "france", "mar", ""},
	)
	orders := []Order{
		move(Army, "france", "par", "bur"),
		move(Army, "france", "mar", "bur"),
	}
	orders = ValidateAndDefaultOrders(orders, s, m)
	resolved, _ := ResolveOrders(orders, s, m)

	if resultFor(resolved, "par") != Fail {
		t.Errorf("expected Par->Bur to fail, got %v", resultFor(resolved, "par"))
	}
	if resultFor(resolved, "mar") != Fail {
		t.Errorf("expected Mar->Bur to fail, got %v", resultFor(resolved, "mar"))
	}
	contested := ContestedProvinces(resolved)
	if !contested["bur"] {
		t.Errorf("expected Bur to be contested")
	}
}

// S3: a support is cut by an attack on the supporting unit's own
// province, collapsing the attack it was propping up.
func TestS3_SupportCut(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(
		Unit{Army, "france", "par", ""},
		Unit{Army, "france", "bur", ""},
		Unit{Army, "germany", "mun", ""},
		Unit{Army, "france", "ruh", ""},
	)
	orders := []Order{
		move(Army, "france", "par", "bur"),
		hold(Army, "france", "bur"),
		supportMove(Army, "germany", "mun", "par", "bur"),
		move(Army, "france", "ruh", "mun"),
	}
	orders = ValidateAndDefaultOrders(orders, s, m)
	resolved, _ := ResolveOrders(orders, s, m)

	if resultFor(resolved, "mun") != Fail {
		t.Errorf("expected Munich's support to be cut, got %v", resultFor(resolved, "mun"))
	}
	if resultFor(resolved, "par") != Fail {
		t.Errorf("expected Par->Bur to bounce once support is cut, got %v", resultFor(resolved, "par"))
	}
	if resultFor(resolved, "ruh") != Fail {
		t.Errorf("expected Ruh->Mun to bounce off Munich holding, got %v", resultFor(resolved, "ruh"))
	}
}

// S4: convoy paradox. A French attack on the convoying fleet only cuts
// the defending support if the convoy it depends on would succeed,
// while the convoy's own survival depends on that same attack — a
// genuine self-reference resolved by the circular-movement backup rule
// (see resolve.go's applyBackupRule). Final answer: the convoy and the
// convoyed move both fail, and the French attack on the fleet resolves
// normally and dislodges it.
func TestS4_ConvoyParadox(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(
		Unit{Fleet, "england", "eng", ""},
		Unit{Army, "england", "lon", ""},
		Unit{Fleet, "france", "bel", ""},
		Unit{Fleet, "france", "pic", ""},
	)
	orders := []Order{
		convoy("england", "eng", "lon", "bel"),
		{Kind: OrderMove, Country: "england", Province: "lon", UnitType: Army, Dest: "bel", IsConvoy: true},
		supportMove(Fleet, "france", "bel", "pic", "eng"),
		move(Fleet, "france", "pic", "eng"),
	}
	orders = ValidateAndDefaultOrders(orders, s, m)
	resolved, dislodgements := ResolveOrders(orders, s, m)

	if resultFor(resolved, "lon") != Fail {
		t.Errorf("expected the convoyed move to fail, got %v", resultFor(resolved, "lon"))
	}
	if resultFor(resolved, "eng") != Dislodged {
		t.Errorf("expected the convoying fleet to be dislodged, got %v", resultFor(resolved, "eng"))
	}
	if resultFor(resolved, "bel") != Success {
		t.Errorf("expected the French support to survive, got %v", resultFor(resolved, "bel"))
	}
	if resultFor(resolved, "pic") != Success {
		t.Errorf("expected the French attack to succeed normally, got %v", resultFor(resolved, "pic"))
	}
	if _, ok := dislodgements["eng"]; !ok {
		t.Errorf("expected a dislodgement entry for eng")
	}
}

// S5: three-army circular movement, all falling back to the circular
// movement backup rule — every move in the ring succeeds.
func TestS5_CircularMovement(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(
		Unit{Army, "germany", "ber", ""},
		Unit{Army, "germany", "kie", ""},
		Unit{Army, "germany", "mun", ""},
	)
	orders := []Order{
		move(Army, "germany", "ber", "kie"),
		move(Army, "germany", "kie", "mun"),
		move(Army, "germany", "mun", "ber"),
	}
	orders = ValidateAndDefaultOrders(orders, s, m)
	resolved, dislodgements := ResolveOrders(orders, s, m)

	for _, prov := range []string{"ber", "kie", "mun"} {
		if resultFor(resolved, prov) != Success {
			t.Errorf("expected %s's move to succeed in the rotation, got %v", prov, resultFor(resolved, prov))
		}
	}
	if len(dislodgements) != 0 {
		t.Errorf("expected no dislodgements from a clean rotation, got %v", dislodgements)
	}
}

// S6: dislodgement, then retreat — exercised end to end via ApplyMoves,
// ValidRetreats, ValidateRetreat and ResolveRetreats.
func TestS6_DislodgeThenRetreat(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(
		Unit{Army, "france", "par", ""},
		Unit{Army, "germany", "pic", ""},
		Unit{Army, "germany", "bur", ""},
	)
	orders := []Order{
		hold(Army, "france", "par"),
		move(Army, "germany", "pic", "par"),
		supportMove(Army, "germany", "bur", "pic", "par"),
	}
	orders = ValidateAndDefaultOrders(orders, s, m)
	resolved, dislodgements := ResolveOrders(orders, s, m)

	if resultFor(resolved, "par") != Dislodged {
		t.Fatalf("expected Paris to be dislodged, got %v", resultFor(resolved, "par"))
	}
	d, ok := dislodgements["par"]
	if !ok {
		t.Fatal("expected a dislodgement entry for Paris")
	}

	ApplyMoves(s, m, resolved, dislodgements)
	s.Dislodgements = dislodgements

	valid := ValidRetreats(d, s, m)
	found := false
	for _, v := range valid {
		if v == "gas" {
			found = true
		}
		if v == "pic" {
			t.Errorf("retreat must not return to the attacker's origin")
		}
	}
	if !found {
		t.Fatalf("expected Gascony to be a valid retreat, got %v", valid)
	}

	retreatOrder := Order{Kind: OrderRetreat, Country: "france", Province: "par", UnitType: Army, Dest: "gas"}
	if err := ValidateRetreat(retreatOrder, d, s, m); err != nil {
		t.Fatalf("expected retreat to Gascony to validate: %v", err)
	}

	next := ResolveRetreats(map[string]Order{"par": retreatOrder}, dislodgements, s, m)
	if u := next.UnitAt("gas"); u == nil || u.Country != "france" {
		t.Fatalf("expected the French unit to retreat into Gascony, got %v", u)
	}
}

// Property: uncut, uncontested moves with legal support all succeed.
func TestProperty_UncontestedMovesAlwaysSucceed(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(
		Unit{Army, "france", "par", ""},
		Unit{Army, "germany", "mun", ""},
	)
	orders := []Order{
		move(Army, "france", "par", "bur"),
		move(Army, "germany", "mun", "ruh"),
	}
	orders = ValidateAndDefaultOrders(orders, s, m)
	resolved, _ := ResolveOrders(orders, s, m)
	for _, o := range resolved {
		if o.Kind == OrderMove && o.Result != Success {
			t.Errorf("expected %s to succeed unopposed, got %v", o.Describe(), o.Result)
		}
	}
}

// Property: adjudication is deterministic — the same input produces
// the same stamped results on repeated runs.
func TestProperty_AdjudicationIsDeterministic(t *testing.T) {
	m := standardMapForTest(t)
	build := func() (*State, []Order) {
		s := stateWith(
			Unit{Army, "france", "par", ""},
			Unit{Army, "france", "bur", ""},
			Unit{Army, "germany", "mun", ""},
			Unit{Army, "germany", "ruh", ""},
		)
		orders := []Order{
			move(Army, "france", "par", "bur"),
			hold(Army, "france", "bur"),
			supportMove(Army, "germany", "mun", "par", "bur"),
			move(Army, "germany", "ruh", "mun"),
		}
		return s, ValidateAndDefaultOrders(orders, s, m)
	}

	s1, o1 := build()
	first, _ := ResolveOrders(o1, s1, m)
	s2, o2 := build()
	second, _ := ResolveOrders(o2, s2, m)

	for i := range first {
		if first[i].Result != second[i].Result {
			t.Fatalf("non-deterministic result for %s: %v vs %v", first[i].Describe(), first[i].Result, second[i].Result)
		}
	}
}
