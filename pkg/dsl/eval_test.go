package dsl

import (
	"testing"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/pkg/utils"
)

func TestEvaluate(t *testing.T) {
	item := core.NewItem(7)
	item.Score = 4
	item.PutLabel("genres", utils.Label{Value: "Action Thriller", Source: "catalog"})
	rctx := &core.RecommendContext{UserID: 1, TopN: 5}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"empty expr is true", "", true},
		{"genre hit", `label.genres.contains("Action")`, true},
		{"genre miss", `label.genres.contains("Horror")`, false},
		{"score compare", `item.score > 3.0`, true},
		{"logic", `item.score > 3.0 && label.genres.contains("Thriller")`, true},
		{"rctx access", `rctx.top_n == 5`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEval(item, rctx).Evaluate(tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	item := core.NewItem(1)
	rctx := &core.RecommendContext{}

	if _, err := NewEval(item, rctx).Evaluate("not a (valid expr"); err == nil {
		t.Error("compile error expected")
	}
	if _, err := NewEval(item, rctx).Evaluate("item.score"); err == nil {
		t.Error("non-boolean result must error")
	}
	// missing label key errors at eval time, callers treat it as no match
	if _, err := NewEval(item, rctx).Evaluate(`label.genres.contains("x")`); err == nil {
		t.Error("missing key must error")
	}
}
