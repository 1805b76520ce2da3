package filter

import (
	"context"
	"testing"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/pkg/utils"
)

func item(id int64, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func TestFilterNodeKeepsOrder(t *testing.T) {
	node := &FilterNode{Filters: []Filter{NewRuleFilter(`item.score <= 3.0`)}}
	items := []*core.Item{item(1, 5), item(2, 2), item(3, 4), nil}

	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 3}
	if len(out) != len(want) {
		t.Fatalf("got %d items, want %d", len(out), len(want))
	}
	for i, id := range want {
		if out[i].ID != id {
			t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, id)
		}
	}
}

func TestFilterNodeNoFilters(t *testing.T) {
	node := &FilterNode{}
	items := []*core.Item{item(1, 1)}

	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d items, want 1", len(out))
	}
}

func TestRuleFilterOnGenreLabel(t *testing.T) {
	horror := item(1, 4)
	horror.PutLabel("genres", utils.Label{Value: "Horror Thriller", Source: "catalog"})
	comedy := item(2, 4)
	comedy.PutLabel("genres", utils.Label{Value: "Comedy", Source: "catalog"})

	f := NewRuleFilter(`label.genres.contains("Horror")`)
	rctx := &core.RecommendContext{UserID: 1}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{"horror filtered", horror, true},
		{"comedy kept", comedy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), rctx, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleFilterEmptyExpr(t *testing.T) {
	f := NewRuleFilter("")
	got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{}, item(1, 1))
	if err != nil || got {
		t.Fatalf("empty expr: got (%v, %v), want (false, nil)", got, err)
	}
}

func TestWatchedFilter(t *testing.T) {
	rctx := &core.RecommendContext{
		UserID: 1,
		User:   &core.User{ID: 1, Ratings: core.Ratings{10: 5}},
	}
	f := &WatchedFilter{}

	if got, _ := f.ShouldFilter(context.Background(), rctx, item(10, 4)); !got {
		t.Error("rated movie should be filtered")
	}
	if got, _ := f.ShouldFilter(context.Background(), rctx, item(11, 4)); got {
		t.Error("unrated movie should be kept")
	}
	if got, _ := f.ShouldFilter(context.Background(), &core.RecommendContext{}, item(10, 4)); got {
		t.Error("missing user record should not filter")
	}
}
