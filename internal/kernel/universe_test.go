package kernel

import "testing"

func TestNormalizeUnivCollapsesSuccChains(t *testing.T) {
	u := &Succ{Of: &Succ{Of: &Set{}, K: 2}, K: 3}
	n, ok := NormalizeUniv(u).(*Succ)
	if !ok {
		t.Fatalf("normal form = %T, want Succ", NormalizeUniv(u))
	}
	if n.K != 5 {
		t.Errorf("collapsed count = %d, want 5", n.K)
	}
	if _, ok := n.Of.(*Set); !ok {
		t.Errorf("base = %T, want Set", n.Of)
	}
}

func TestNormalizeUnivZeroSuccVanishes(t *testing.T) {
	u := &Succ{Of: &Prop{}, K: 0}
	if _, ok := NormalizeUniv(u).(*Prop); !ok {
		t.Errorf("Succ^0 should normalize away, got %T", NormalizeUniv(u))
	}
}

func TestNormalizeUnivMaxEdgeCases(t *testing.T) {
	if _, ok := NormalizeUniv(&Max{}).(*Prop); !ok {
		t.Error("empty join must normalize to Prop")
	}
	single := &Max{Of: []Univ{&Global{Name: "u"}}}
	if g, ok := NormalizeUniv(single).(*Global); !ok || g.Name != "u" {
		t.Errorf("singleton join must be the identity, got %T", NormalizeUniv(single))
	}
}

func TestNormalizeUnivIdempotent(t *testing.T) {
	cases := []Univ{
		&Succ{Of: &Succ{Of: &Global{Name: "u"}, K: 1}, K: 2},
		&Max{Of: []Univ{&Prop{}, &Succ{Of: &Set{}, K: 0}}},
		&Rule{Left: &Max{Of: []Univ{&Set{}}}, Right: &Prop{}},
		&Max{},
	}
	for _, u := range cases {
		once := NormalizeUniv(u)
		twice := NormalizeUniv(once)
		if !UnivEqual(once, twice) {
			t.Errorf("normalization of %s is not idempotent: %s vs %s",
				UnivKey(u), UnivKey(once), UnivKey(twice))
		}
	}
}

func TestUnivEqualNormalizesOperands(t *testing.T) {
	a := &Succ{Of: &Succ{Of: &Set{}, K: 1}, K: 1}
	b := &Succ{Of: &Set{}, K: 2}
	if !UnivEqual(a, b) {
		t.Error("chained and flat successors of the same count must compare equal")
	}
	if UnivEqual(a, &Succ{Of: &Set{}, K: 3}) {
		t.Error("different successor counts must not compare equal")
	}
}
