package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DvUo/Sistema-de-recomendacion/config"
	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/dataset"
	"github.com/DvUo/Sistema-de-recomendacion/enrich"
	"github.com/DvUo/Sistema-de-recomendacion/pipeline"
	"github.com/DvUo/Sistema-de-recomendacion/recall"
	"github.com/DvUo/Sistema-de-recomendacion/recommender"
	"github.com/DvUo/Sistema-de-recomendacion/service"
	"github.com/DvUo/Sistema-de-recomendacion/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer builds a full in-memory stack seeded with a small dataset.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	vectors := store.NewMemoryVectorService()

	movies := []*core.Movie{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Comedy"}},
		{ID: 2, Title: "GoldenEye (1995)", Genres: []string{"Action", "Thriller"}},
		{ID: 3, Title: "Heat (1995)", Genres: []string{"Action", "Crime"}},
		{ID: 4, Title: "Twelve Monkeys (1995)", Genres: []string{"Drama", "Sci-Fi"}},
		{ID: 5, Title: "Babe (1995)", Genres: []string{"Children's", "Comedy"}},
		{ID: 6, Title: "Seven (1995)", Genres: []string{"Crime", "Thriller"}},
		{ID: 7, Title: "Usual Suspects (1995)", Genres: []string{"Crime", "Thriller"}},
		{ID: 8, Title: "Braveheart (1995)", Genres: []string{"Action", "Drama"}},
	}
	users := []*core.User{
		{ID: 1, Name: "alice", Ratings: core.Ratings{1: 5, 2: 4, 3: 5, 4: 3, 5: 4, 6: 5}},
		{ID: 2, Name: "bob", Ratings: core.Ratings{1: 5, 2: 4, 3: 5, 4: 3, 5: 4, 6: 5, 7: 5}},
		{ID: 3, Name: "carol", Ratings: core.Ratings{8: 5}},
	}

	builder := dataset.NewBuilder(kv, vectors, service.NewHashEmbedder(16))
	if err := builder.Build(ctx, movies, users); err != nil {
		t.Fatal(err)
	}

	deps := config.Deps{
		UserStore: recall.NewStoreUserAdapter(kv, vectors),
		Catalog:   enrich.NewStoreCatalog(kv),
	}
	p, err := config.Default().BuildPipeline(deps)
	if err != nil {
		t.Fatal(err)
	}

	return New(recommender.New(p, nil), nil)
}

func postRecommend(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestRecommendEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := postRecommend(t, s, `{"user_id": 1, "top_n": 5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result core.RecommendResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.UserID != 1 {
		t.Errorf("user_id = %d", result.UserID)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("recommendations = %+v, want exactly movie 7", result.Recommendations)
	}
	rec := result.Recommendations[0]
	if rec.Title != "Usual Suspects (1995)" || rec.Score != 5 {
		t.Errorf("rec = %+v", rec)
	}
}

func TestRecommendEndpointUnknownUser(t *testing.T) {
	s := newTestServer(t)

	w := postRecommend(t, s, `{"user_id": 999}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (empty result, not an error)", w.Code)
	}

	var result core.RecommendResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if len(result.Recommendations) != 0 || result.Explanation == "" {
		t.Errorf("result = %+v, want empty with explanation", result)
	}
}

func TestRecommendEndpointBadRequest(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing user_id", `{"top_n": 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postRecommend(t, s, tt.body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

// downNode simulates an unreachable upstream.
type downNode struct{}

func (downNode) Name() string        { return "down" }
func (downNode) Kind() pipeline.Kind { return pipeline.KindRecall }
func (downNode) Process(context.Context, *core.RecommendContext, []*core.Item) ([]*core.Item, error) {
	return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: connection refused")
}

func TestRecommendEndpointUpstreamDown(t *testing.T) {
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{downNode{}}}
	s := New(recommender.New(p, nil), nil)

	if w := postRecommend(t, s, `{"user_id": 1}`); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
