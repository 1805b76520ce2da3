package recall

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"testing"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// fixedSim builds a similarity matrix with hand-picked target weights,
// so scoring tests do not depend on the cosine computation.
func fixedSim(targetID int64, weights map[int64]float64) *SimilarityMatrix {
	ids := []int64{targetID}
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Slice(ids[1:], func(i, j int) bool { return ids[1+i] < ids[1+j] })

	sm := &SimilarityMatrix{
		UserIDs: ids,
		Data:    make([][]float64, len(ids)),
		index:   make(map[int64]int, len(ids)),
	}
	for i, id := range ids {
		sm.index[id] = i
		sm.Data[i] = make([]float64, len(ids))
		sm.Data[i][i] = 1
	}
	for id, w := range weights {
		i := sm.index[id]
		sm.Data[0][i] = w
		sm.Data[i][0] = w
	}
	return sm
}

func TestFilterSimilarUsers(t *testing.T) {
	target := &core.User{ID: 1, Name: "alice", Ratings: core.Ratings{1: 5, 2: 4, 3: 3, 4: 2, 5: 1, 6: 5}}

	exactlyFive := &core.User{ID: 2, Ratings: core.Ratings{1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 99: 1}}
	six := &core.User{ID: 3, Ratings: core.Ratings{1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1}}
	sameNameAsTarget := &core.User{ID: 1, Name: "alice", Ratings: core.Ratings{1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1}}

	got := FilterSimilarUsers(target, []*core.User{exactlyFive, six, sameNameAsTarget, nil})

	if len(got) != 1 || got[0].ID != 3 {
		ids := make([]int64, len(got))
		for i, u := range got {
			ids[i] = u.ID
		}
		t.Fatalf("filtered ids = %v, want [3]", ids)
	}
}

func TestFilterSimilarUsersKeepsOrder(t *testing.T) {
	shared := core.Ratings{1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1}
	target := &core.User{ID: 1, Ratings: shared}
	candidates := []*core.User{
		{ID: 9, Ratings: shared},
		{ID: 4, Ratings: shared},
		{ID: 7, Ratings: shared},
	}

	got := FilterSimilarUsers(target, candidates)
	want := []int64{9, 4, 7}
	for i, u := range got {
		if u.ID != want[i] {
			t.Fatalf("order not preserved: got[%d].ID = %d, want %d", i, u.ID, want[i])
		}
	}
}

func TestScoreUnseenExcludesWatched(t *testing.T) {
	target := &core.User{ID: 1, Ratings: core.Ratings{10: 5}}
	similar := []*core.User{{ID: 2, Ratings: core.Ratings{10: 1, 20: 4}}}
	sim := fixedSim(1, map[int64]float64{2: 1})

	scored := ScoreUnseen(target, similar, sim, 0)
	for _, s := range scored {
		if s.MovieID == 10 {
			t.Fatal("watched movie 10 must not be scored")
		}
	}
	if len(scored) != 1 || scored[0].MovieID != 20 {
		t.Fatalf("scored = %v, want only movie 20", scored)
	}
}

func TestScoreUnseenWeightedAverage(t *testing.T) {
	target := &core.User{ID: 1, Ratings: core.Ratings{}}
	similar := []*core.User{
		{ID: 2, Ratings: core.Ratings{10: 4}},
		{ID: 3, Ratings: core.Ratings{10: 2, 11: 5}},
	}
	// movie 10: (0.5*4 + 1.0*2) / 1.5 = 2.666... -> 2 (truncated)
	// movie 11: (1.0*5) / 1.0 = 5
	sim := fixedSim(1, map[int64]float64{2: 0.5, 3: 1.0})

	scored := ScoreUnseen(target, similar, sim, 0)
	want := []core.ScoredMovie{{MovieID: 11, Score: 5}, {MovieID: 10, Score: 2}}
	if len(scored) != len(want) {
		t.Fatalf("scored = %v, want %v", scored, want)
	}
	for i := range want {
		if scored[i] != want[i] {
			t.Errorf("scored[%d] = %v, want %v", i, scored[i], want[i])
		}
	}
}

func TestScoreUnseenTruncatesTowardZero(t *testing.T) {
	target := &core.User{ID: 1, Ratings: core.Ratings{}}
	similar := []*core.User{
		{ID: 2, Ratings: core.Ratings{10: 5}},
		{ID: 3, Ratings: core.Ratings{10: 2}},
	}
	// (0.7*5 + 0.3*2) / 1.0 = 4.1 -> 4
	sim := fixedSim(1, map[int64]float64{2: 0.7, 3: 0.3})

	scored := ScoreUnseen(target, similar, sim, 0)
	if len(scored) != 1 || scored[0].Score != 4 {
		t.Fatalf("scored = %v, want score 4", scored)
	}
}

func TestScoreUnseenDropsZeroWeight(t *testing.T) {
	target := &core.User{ID: 1, Ratings: core.Ratings{}}
	similar := []*core.User{{ID: 2, Ratings: core.Ratings{10: 5}}}
	sim := fixedSim(1, map[int64]float64{2: 0})

	if scored := ScoreUnseen(target, similar, sim, 0); len(scored) != 0 {
		t.Fatalf("scored = %v, want empty (zero total weight)", scored)
	}
}

func TestScoreUnseenStableTieBreak(t *testing.T) {
	target := &core.User{ID: 1, Ratings: core.Ratings{}}
	// one rater, equal ratings: ties keep first-encounter order (movie id ascending here)
	similar := []*core.User{{ID: 2, Ratings: core.Ratings{30: 4, 10: 4, 20: 4}}}
	sim := fixedSim(1, map[int64]float64{2: 1})

	scored := ScoreUnseen(target, similar, sim, 0)
	want := []int64{10, 20, 30}
	if len(scored) != 3 {
		t.Fatalf("scored = %v, want 3 entries", scored)
	}
	for i, id := range want {
		if scored[i].MovieID != id {
			t.Errorf("scored[%d].MovieID = %d, want %d", i, scored[i].MovieID, id)
		}
	}
}

func TestScoreUnseenTopN(t *testing.T) {
	target := &core.User{ID: 1, Ratings: core.Ratings{}}
	similar := []*core.User{{ID: 2, Ratings: core.Ratings{1: 5, 2: 4, 3: 3, 4: 2, 5: 1, 6: 1, 7: 1}}}
	sim := fixedSim(1, map[int64]float64{2: 1})

	scored := ScoreUnseen(target, similar, sim, 5)
	if len(scored) != 5 {
		t.Fatalf("len(scored) = %d, want 5", len(scored))
	}
	if scored[0].MovieID != 1 || scored[0].Score != 5 {
		t.Errorf("scored[0] = %v, want movie 1 score 5", scored[0])
	}
}

// storeUser writes a user record the way the dataset builder persists it.
func storeUser(t *testing.T, kv core.Store, u *core.User) {
	t.Helper()
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(context.Background(), DefaultUserKeyPrefix+strconv.FormatInt(u.ID, 10), data); err != nil {
		t.Fatal(err)
	}
}
