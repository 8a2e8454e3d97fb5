package engine

import "testing"

func TestValidRetreatsExcludesAttackerOriginAndOccupied(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(
		Unit{Army, "germany", "pic", ""}, // the attacker, sitting in the origin it moved from
		Unit{Army, "germany", "bur", ""}, // otherwise-free neighbor, but occupied
	)
	d := Dislodgement{Unit: Unit{Type: Army, Country: "france", Province: "par"}, From: "pic", Country: "germany"}

	valid := ValidRetreats(d, s, m)
	for _, p := range valid {
		if p == "pic" {
			t.Errorf("retreat must not return to the attacker's origin")
		}
		if p == "bur" {
			t.Errorf("retreat must not land on an occupied province")
		}
	}
	found := false
	for _, p := range valid {
		if p == "gas" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Gascony to remain a valid retreat, got %v", valid)
	}
}

func TestValidRetreatsAllowsAttackersOriginWhenDislodgedByConvoy(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith()
	d := Dislodgement{Unit: Unit{Type: Army, Country: "france", Province: "bel"}, From: "", Country: "england"}

	valid := ValidRetreats(d, s, m)
	if len(valid) == 0 {
		t.Fatal("expected at least one retreat option out of Belgium")
	}
}

func TestValidRetreatsExcludesContestedProvinces(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith()
	s.Contested["gas"] = true
	d := Dislodgement{Unit: Unit{Type: Army, Country: "france", Province: "par"}, From: "pic", Country: "germany"}

	for _, p := range ValidRetreats(d, s, m) {
		if p == "gas" {
			t.Errorf("retreat must not land on a contested province")
		}
	}
}

func TestValidateRetreatAcceptsDisband(t *testing.T) {
	m := standardMapForTest(t)
	d := Dislodgement{Unit: Unit{Type: Army, Country: "france", Province: "par"}, From: "pic", Country: "germany"}
	o := Order{Kind: OrderDisband, Country: "france", Province: "par"}
	if err := ValidateRetreat(o, d, stateWith(), m); err != nil {
		t.Fatalf("expected disband to always validate: %v", err)
	}
}

func TestValidateRetreatRejectsIllegalDestination(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith(Unit{Army, "germany", "bur", ""})
	d := Dislodgement{Unit: Unit{Type: Army, Country: "france", Province: "par"}, From: "pic", Country: "germany"}
	o := Order{Kind: OrderRetreat, Country: "france", Province: "par", Dest: "bur"}
	if err := ValidateRetreat(o, d, s, m); err == nil {
		t.Fatal("expected an error retreating onto an occupied province")
	}
}

// Two units retreating to the same province both fail and are disbanded.
func TestResolveRetreatsCollidingRetreatsBothDisband(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith()
	dislodgements := map[string]Dislodgement{
		"par": {Unit: Unit{Type: Army, Country: "france", Province: "par"}, From: "pic", Country: "france"},
		"mar": {Unit: Unit{Type: Army, Country: "france", Province: "mar"}, From: "spa", Country: "france"},
	}
	orders := map[string]Order{
		"par": {Kind: OrderRetreat, Country: "france", Province: "par", Dest: "gas"},
		"mar": {Kind: OrderRetreat, Country: "france", Province: "mar", Dest: "gas"},
	}
	next := ResolveRetreats(orders, dislodgements, s, m)
	if next.UnitAt("gas") != nil {
		t.Fatalf("expected both colliding retreats to disband, found a unit at gas")
	}
}

// A dislodged unit with no submitted retreat order is disbanded.
func TestResolveRetreatsDefaultsToDisband(t *testing.T) {
	m := standardMapForTest(t)
	s := stateWith()
	dislodgements := map[string]Dislodgement{
		"par": {Unit: Unit{Type: Army, Country: "france", Province: "par"}, From: "pic", Country: "france"},
	}
	next := ResolveRetreats(map[string]Order{}, dislodgements, s, m)
	for _, n := range next.Nations {
		for _, u := range n.Units {
			if u.Province == "par" {
				t.Fatalf("expected the unit to have been disbanded, still found at par")
			}
		}
	}
}
