// Package cache persists claim verdicts between runs so an unchanged claim
// does not have to be re-evaluated. Entries are keyed by a digest of the
// full claim specification plus the run seed: any edit to the claim or a
// different seed misses the cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/lemma/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResultKey derives the cache key for a claim under a given seed. The data
// map is serialized through encoding/json, which sorts keys, so the digest
// is stable across runs.
func ResultKey(spec model.ClaimSpec, seed int64) string {
	payload, err := json.Marshal(spec.Data)
	if err != nil {
		payload = []byte(spec.ID)
	}
	h := sha256.New()
	h.Write([]byte(spec.ID))
	h.Write([]byte(spec.Type))
	h.Write([]byte(fmt.Sprintf("seed=%d;", seed)))
	h.Write(payload)
	return "lemma:v1:" + hex.EncodeToString(h.Sum(nil))
}
