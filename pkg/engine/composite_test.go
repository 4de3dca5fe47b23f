package engine

import (
	"math"
	"testing"
)

func TestCompositeAllAbsent(t *testing.T) {
	e := New(testMethodology())
	if got := e.Composite(nil, nil, nil); got != nil {
		t.Fatalf("all families absent: got %+v, want nil", got)
	}
}

func TestCompositeSingleFamilyEqualsItself(t *testing.T) {
	e := New(testMethodology())
	for _, score := range []float64{0, 37.5, 72, 100} {
		got := e.Composite(&score, nil, nil)
		if got == nil {
			t.Fatal("got nil")
		}
		if got.Score != int(math.Round(score)) {
			t.Errorf("single family %.1f: got %d, want %d", score, got.Score, int(math.Round(score)))
		}
		if got.Weights[FamilyCritic] != 1 {
			t.Errorf("single family weight must renormalize to 1, got %.2f", got.Weights[FamilyCritic])
		}
	}
}

func TestCompositeAllThreeFamilies(t *testing.T) {
	e := New(testMethodology())
	critic, audience, buzz := 80.0, 60.0, 40.0
	got := e.Composite(&critic, &audience, &buzz)
	// 0.5*80 + 0.3*60 + 0.2*40 = 66
	if got.Score != 66 {
		t.Errorf("composite: got %d, want 66", got.Score)
	}
	if len(got.Families) != 3 {
		t.Errorf("families: got %d entries, want 3", len(got.Families))
	}
}

func TestCompositeRenormalizesOverPresent(t *testing.T) {
	e := New(testMethodology())
	audience, buzz := 60.0, 40.0
	got := e.Composite(nil, &audience, &buzz)
	// 0.3 and 0.2 renormalize to 0.6 and 0.4: 60*0.6 + 40*0.4 = 52.
	if got.Score != 52 {
		t.Errorf("renormalized composite: got %d, want 52", got.Score)
	}
	sum := 0.0
	for _, w := range got.Weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights must sum to 1, got %.4f", sum)
	}
	if _, present := got.Weights[FamilyCritic]; present {
		t.Error("absent family must not appear in used weights")
	}
}

func TestCompositeZeroIsPresent(t *testing.T) {
	e := New(testMethodology())
	critic, audience := 80.0, 0.0
	got := e.Composite(&critic, &audience, nil)
	// Audience is present with a score of 0 and still weighted:
	// 80*(0.5/0.8) + 0*(0.3/0.8) = 50, not 80.
	if got.Score != 50 {
		t.Errorf("zero-score family must still be weighted: got %d, want 50", got.Score)
	}
}
