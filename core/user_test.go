package core

import (
	"encoding/json"
	"testing"
)

func TestRatingsCommon(t *testing.T) {
	a := Ratings{1: 5, 2: 3, 3: 4}
	b := Ratings{2: 1, 3: 2, 4: 5}

	if got := a.Common(b); got != 2 {
		t.Errorf("Common = %d, want 2", got)
	}
	if got := b.Common(a); got != 2 {
		t.Errorf("Common must be symmetric, got %d", got)
	}
	if got := a.Common(Ratings{}); got != 0 {
		t.Errorf("Common with empty = %d, want 0", got)
	}
}

func TestRatingsSortedIDs(t *testing.T) {
	r := Ratings{30: 1, 10: 2, 20: 3}
	ids := r.SortedIDs()
	want := []int64{10, 20, 30}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("SortedIDs = %v, want %v", ids, want)
		}
	}
}

func TestUserRatingVector(t *testing.T) {
	u := &User{ID: 1, Ratings: Ratings{1: 5, 3: 2}}
	vec := u.RatingVector([]int64{1, 2, 3})
	want := []float64{5, 0, 2}
	for i := range want {
		if vec[i] != want[i] {
			t.Fatalf("RatingVector = %v, want %v", vec, want)
		}
	}
}

func TestUserJSONRoundTrip(t *testing.T) {
	// stored records keep ratings as a JSON object with string keys
	data := []byte(`{"user_id": 7, "username": "alice", "ratings": {"10": 5, "20": 3}}`)

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		t.Fatal(err)
	}
	if u.ID != 7 || u.Name != "alice" {
		t.Errorf("user = %+v", u)
	}
	if u.Ratings[10] != 5 || u.Ratings[20] != 3 {
		t.Errorf("ratings = %v", u.Ratings)
	}

	out, err := json.Marshal(&u)
	if err != nil {
		t.Fatal(err)
	}
	var again User
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatal(err)
	}
	if again.Ratings[10] != 5 {
		t.Errorf("round trip lost ratings: %v", again.Ratings)
	}
}

func TestDomainErrorChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"not found", ErrUserNotFound, IsNotFound, true},
		{"no overlap", ErrNoOverlap, IsNoOverlap, true},
		{"catalog miss is not found", ErrCatalogMiss, IsNotFound, true},
		{"store not found scoped", ErrStoreNotFound, IsStoreNotFound, true},
		{"plain error", json.Unmarshal([]byte("x"), &struct{}{}), IsNotFound, false},
		{"nil", nil, IsNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check = %v, want %v", got, tt.want)
			}
		})
	}
}
