// Package loader reads claim specifications from YAML files.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/lemma/internal/model"
)

// claimsFile is the on-disk shape of a claims file
type claimsFile struct {
	Claims []map[string]interface{} `yaml:"claims"`
}

// LoadClaims reads and validates a claims file. Each claim needs a unique
// id and a type; all other fields stay in the claim's data map for the
// dispatcher to interpret.
func LoadClaims(path string) ([]model.ClaimSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}
	return ParseClaims(data)
}

// ParseClaims parses claim specifications from YAML bytes
func ParseClaims(data []byte) ([]model.ClaimSpec, error) {
	var file claimsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse claims file: %w", err)
	}

	seen := make(map[string]bool, len(file.Claims))
	out := make([]model.ClaimSpec, 0, len(file.Claims))

	for i, item := range file.Claims {
		id, _ := item["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("claim %d: missing id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("claim %d: duplicate id %q", i, id)
		}
		seen[id] = true

		typ, _ := item["type"].(string)
		if typ == "" {
			return nil, fmt.Errorf("claim %q: missing type", id)
		}

		out = append(out, model.ClaimSpec{
			ID:   id,
			Type: model.ClaimType(typ),
			Data: item,
		})
	}

	return out, nil
}
