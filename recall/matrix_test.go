package recall

import (
	"math"
	"testing"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

func TestBuildUtilityMatrix(t *testing.T) {
	target := &core.User{ID: 1, Name: "alice", Ratings: core.Ratings{10: 5, 20: 3}}
	similar := []*core.User{
		{ID: 2, Name: "bob", Ratings: core.Ratings{20: 4, 30: 2}},
		{ID: 3, Name: "carol", Ratings: core.Ratings{10: 1, 40: 5}},
	}

	m := BuildUtilityMatrix(target, similar)

	wantUsers := []int64{1, 2, 3}
	if len(m.UserIDs) != len(wantUsers) {
		t.Fatalf("UserIDs = %v, want %v", m.UserIDs, wantUsers)
	}
	for i, id := range wantUsers {
		if m.UserIDs[i] != id {
			t.Errorf("UserIDs[%d] = %d, want %d", i, m.UserIDs[i], id)
		}
	}

	// columns follow first-encounter order: target's sorted ids, then each candidate's new ids
	wantMovies := []int64{10, 20, 30, 40}
	if len(m.MovieIDs) != len(wantMovies) {
		t.Fatalf("MovieIDs = %v, want %v", m.MovieIDs, wantMovies)
	}
	for i, id := range wantMovies {
		if m.MovieIDs[i] != id {
			t.Errorf("MovieIDs[%d] = %d, want %d", i, m.MovieIDs[i], id)
		}
	}

	tests := []struct {
		userID  int64
		movieID int64
		want    float64
	}{
		{1, 10, 5},
		{1, 20, 3},
		{1, 30, 0}, // unrated cell stays zero
		{2, 20, 4},
		{2, 30, 2},
		{2, 40, 0},
		{3, 10, 1},
		{3, 40, 5},
		{99, 10, 0}, // unknown user
		{1, 99, 0},  // unknown movie
	}
	for _, tt := range tests {
		if got := m.Rating(tt.userID, tt.movieID); got != tt.want {
			t.Errorf("Rating(%d, %d) = %v, want %v", tt.userID, tt.movieID, got, tt.want)
		}
	}
}

func TestBuildUtilityMatrixRowShape(t *testing.T) {
	target := &core.User{ID: 7, Ratings: core.Ratings{1: 2}}
	m := BuildUtilityMatrix(target, []*core.User{
		{ID: 8, Ratings: core.Ratings{1: 4, 2: 5, 3: 1}},
	})

	for _, id := range m.UserIDs {
		row := m.Row(id)
		if len(row) != len(m.MovieIDs) {
			t.Errorf("Row(%d) length = %d, want %d", id, len(row), len(m.MovieIDs))
		}
	}
	if m.Row(999) != nil {
		t.Error("Row(999) should be nil for unknown user")
	}
}

func TestCosineMatrixSymmetryAndDiagonal(t *testing.T) {
	target := &core.User{ID: 1, Ratings: core.Ratings{1: 5, 2: 3}}
	similar := []*core.User{
		{ID: 2, Ratings: core.Ratings{1: 5, 2: 3}}, // identical ratings
		{ID: 3, Ratings: core.Ratings{3: 4}},       // disjoint movies
		{ID: 4, Ratings: core.Ratings{}},           // zero row
	}

	sim := BuildUtilityMatrix(target, similar).CosineMatrix()

	for _, a := range sim.UserIDs {
		for _, b := range sim.UserIDs {
			if sim.Similarity(a, b) != sim.Similarity(b, a) {
				t.Errorf("similarity not symmetric for (%d, %d)", a, b)
			}
		}
	}

	if got := sim.Similarity(1, 1); math.Abs(got-1) > 1e-9 {
		t.Errorf("self-similarity = %v, want 1", got)
	}
	if got := sim.Similarity(4, 4); got != 0 {
		t.Errorf("zero-row self-similarity = %v, want 0", got)
	}
	if got := sim.Similarity(1, 2); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical rows similarity = %v, want 1", got)
	}
	if got := sim.Similarity(1, 3); got != 0 {
		t.Errorf("disjoint rows similarity = %v, want 0", got)
	}
	if got := sim.Similarity(1, 999); got != 0 {
		t.Errorf("unknown user similarity = %v, want 0", got)
	}
}

func TestCosineKnownValue(t *testing.T) {
	// rows [3,4,0] and [3,0,4]: dot=9, norms=5*5 -> 0.36
	target := &core.User{ID: 1, Ratings: core.Ratings{1: 3, 2: 4}}
	similar := []*core.User{{ID: 2, Ratings: core.Ratings{1: 3, 3: 4}}}

	sim := BuildUtilityMatrix(target, similar).CosineMatrix()
	if got := sim.Similarity(1, 2); math.Abs(got-0.36) > 1e-9 {
		t.Errorf("Similarity(1, 2) = %v, want 0.36", got)
	}
}
