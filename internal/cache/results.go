package cache

import (
	"encoding/json"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/registry"
)

// ResultStore persists claim verdicts through a Cache layer
type ResultStore struct {
	cache Cache
	seed  int64
}

// NewResultStore creates a result store over the given cache
func NewResultStore(c Cache, seed int64) *ResultStore {
	return &ResultStore{cache: c, seed: seed}
}

// Get returns the cached verdict for a claim, if present and still
// readable. Entries written by older versions may lack the status field;
// those are re-derived from the details map through the registry's
// migration shim.
func (s *ResultStore) Get(spec model.ClaimSpec) (model.ClaimResult, bool) {
	data, found := s.cache.Get(ResultKey(spec, s.seed))
	if !found {
		return model.ClaimResult{}, false
	}

	var result model.ClaimResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.ClaimResult{}, false
	}
	if result.ID != spec.ID {
		return model.ClaimResult{}, false
	}

	if result.Status == "" {
		result.Status = registry.StatusFromDetails(result.Type, result.Details)
	}

	return result, true
}

// Put stores a claim verdict
func (s *ResultStore) Put(spec model.ClaimSpec, result model.ClaimResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ResultKey(spec, s.seed), data, 0)
}
