package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/lemma/internal/model"
)

// stubRunner returns canned results and can simulate slow claims
type stubRunner struct {
	delay time.Duration
}

func (r *stubRunner) Run(spec model.ClaimSpec) model.ClaimResult {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return model.ClaimResult{
		ID:      spec.ID,
		Type:    spec.Type,
		Status:  model.StatusProved,
		Details: map[string]interface{}{"passed": true},
	}
}

func specsWithIDs(ids ...string) []model.ClaimSpec {
	specs := make([]model.ClaimSpec, 0, len(ids))
	for _, id := range ids {
		specs = append(specs, model.ClaimSpec{ID: id, Type: model.ClaimTypeGate})
	}
	return specs
}

func TestProcessClaimsSortedByID(t *testing.T) {
	b := NewBatchProcessor(&stubRunner{}, 4, 0)
	results := b.ProcessClaims(context.Background(), specsWithIDs("c", "a", "b"))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].ID != want {
			t.Errorf("result %d: expected id %q, got %q", i, want, results[i].ID)
		}
	}
}

func TestProcessClaimsEmpty(t *testing.T) {
	b := NewBatchProcessor(&stubRunner{}, 4, 0)
	results := b.ProcessClaims(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestProcessClaimsTimeout(t *testing.T) {
	b := NewBatchProcessor(&stubRunner{delay: 500 * time.Millisecond}, 2, 20*time.Millisecond)
	results := b.ProcessClaims(context.Background(), specsWithIDs("slow"))

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if res.Status != model.StatusInconclusive {
		t.Errorf("expected inconclusive on timeout, got %s", res.Status)
	}
	if timedOut, _ := res.Details["timeout"].(bool); !timedOut {
		t.Errorf("expected timeout detail, got %v", res.Details)
	}
}

func TestProcessClaimsNoTimeoutWhenFast(t *testing.T) {
	b := NewBatchProcessor(&stubRunner{}, 2, 1*time.Second)
	results := b.ProcessClaims(context.Background(), specsWithIDs("fast"))

	if len(results) != 1 || results[0].Status != model.StatusProved {
		t.Fatalf("expected one proved result, got %+v", results)
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	content := `
# suites
a.yaml
b.yaml

a.yaml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "a.yaml" || paths[1] != "b.yaml" {
		t.Errorf("expected [a.yaml b.yaml], got %v", paths)
	}

	if _, err := ReadPathsFromFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
