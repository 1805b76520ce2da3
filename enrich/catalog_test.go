package enrich

import (
	"context"
	"testing"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/store"
)

func newTestCatalog(t *testing.T, movies ...*core.Movie) *StoreCatalog {
	t.Helper()
	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })

	catalog := NewStoreCatalog(kv)
	for _, m := range movies {
		if err := catalog.SaveMovie(context.Background(), m); err != nil {
			t.Fatal(err)
		}
	}
	return catalog
}

func TestStoreCatalogRoundTrip(t *testing.T) {
	catalog := newTestCatalog(t, &core.Movie{
		ID:      1,
		Title:   "Toy Story (1995)",
		Genres:  []string{"Animation", "Children's", "Comedy"},
		Summary: "toys come alive",
	})

	movie, err := catalog.LookupMovie(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if movie.Title != "Toy Story (1995)" {
		t.Errorf("Title = %q", movie.Title)
	}
	if len(movie.Genres) != 3 || movie.Genres[0] != "Animation" {
		t.Errorf("Genres = %v", movie.Genres)
	}
	if movie.Summary != "toys come alive" {
		t.Errorf("Summary = %q", movie.Summary)
	}
}

func TestStoreCatalogMiss(t *testing.T) {
	catalog := newTestCatalog(t)

	_, err := catalog.LookupMovie(context.Background(), 404)
	if !core.IsNotFound(err) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestStoreCatalogEmptySummary(t *testing.T) {
	catalog := newTestCatalog(t, &core.Movie{ID: 2, Title: "GoldenEye (1995)", Genres: []string{"Action"}})

	movie, err := catalog.LookupMovie(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if movie.Summary != "" {
		t.Errorf("Summary = %q, want empty", movie.Summary)
	}
}

func scoredItem(id int64, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func TestCatalogNodeEnrichesAndThresholds(t *testing.T) {
	catalog := newTestCatalog(t,
		&core.Movie{ID: 1, Title: "A", Genres: []string{"Drama"}, Summary: "a"},
		&core.Movie{ID: 2, Title: "B", Genres: []string{"Comedy"}, Summary: "b"},
		&core.Movie{ID: 3, Title: "C", Genres: []string{"Action"}, Summary: "c"},
	)
	node := NewCatalogNode(catalog, nil)

	items := []*core.Item{
		scoredItem(1, 5),
		scoredItem(2, 3), // at the threshold: dropped (strictly greater required)
		scoredItem(3, 4),
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 1}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 3 {
		t.Fatalf("got %d items, want movies [1 3] in order", len(out))
	}
	if out[0].Meta["title"] != "A" {
		t.Errorf("Meta[title] = %v", out[0].Meta["title"])
	}
	if lbl, ok := out[0].GetLabel("genres"); !ok || lbl.Value != "Drama" {
		t.Errorf("genres label = %v", lbl)
	}
}

func TestCatalogNodeSkipsMissingEntries(t *testing.T) {
	catalog := newTestCatalog(t,
		&core.Movie{ID: 1, Title: "A", Genres: []string{"Drama"}},
		&core.Movie{ID: 3, Title: "C", Genres: []string{"Action"}},
	)
	node := NewCatalogNode(catalog, nil)

	// movie 2 has no catalog entry: skipped, the rest keeps its order
	items := []*core.Item{scoredItem(1, 5), scoredItem(2, 5), scoredItem(3, 4)}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 1}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 3 {
		t.Fatalf("got %v, want movies [1 3]", out)
	}
}
