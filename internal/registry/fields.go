package registry

import (
	"fmt"

	"github.com/ppiankov/lemma/internal/model"
)

// fields extracts typed values from a claim's data map, accumulating the
// first ConfigError so strategy construction can be validated before
// anything runs. YAML decoding hands us interface{} values, so every
// accessor normalizes the type variants yaml.v3 produces.
type fields struct {
	spec model.ClaimSpec
	err  error
}

func newFields(spec model.ClaimSpec) *fields {
	return &fields{spec: spec}
}

func (f *fields) fail(field, reason string) {
	if f.err == nil {
		f.err = &model.ConfigError{ClaimID: f.spec.ID, Field: field, Reason: reason}
	}
}

func (f *fields) missing(field string) {
	if f.err == nil {
		f.err = &model.ConfigError{ClaimID: f.spec.ID, Field: field}
	}
}

func (f *fields) str(key string, required bool) string {
	v, ok := f.spec.Data[key]
	if !ok {
		if required {
			f.missing(key)
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(key, fmt.Sprintf("expected string, got %T", v))
		return ""
	}
	return s
}

func (f *fields) strDefault(key, def string) string {
	if _, ok := f.spec.Data[key]; !ok {
		return def
	}
	return f.str(key, false)
}

func (f *fields) stringSlice(key string, required bool) []string {
	v, ok := f.spec.Data[key]
	if !ok {
		if required {
			f.missing(key)
		}
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		f.fail(key, fmt.Sprintf("expected list of strings, got %T", v))
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			f.fail(key, fmt.Sprintf("expected string element, got %T", item))
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (f *fields) stringMap(key string) map[string]string {
	v, ok := f.spec.Data[key]
	if !ok {
		return nil
	}
	out := make(map[string]string)
	switch m := v.(type) {
	case map[string]interface{}:
		for k, item := range m {
			s, ok := item.(string)
			if !ok {
				f.fail(key, fmt.Sprintf("expected string value for %q, got %T", k, item))
				return nil
			}
			out[k] = s
		}
	case map[interface{}]interface{}:
		for k, item := range m {
			ks, ok1 := k.(string)
			s, ok2 := item.(string)
			if !ok1 || !ok2 {
				f.fail(key, "expected string keys and values")
				return nil
			}
			out[ks] = s
		}
	default:
		f.fail(key, fmt.Sprintf("expected mapping, got %T", v))
		return nil
	}
	return out
}

func (f *fields) intDefault(key string, def int) int {
	v, ok := f.spec.Data[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		f.fail(key, fmt.Sprintf("expected integer, got %T", v))
		return def
	}
}

func (f *fields) float(key string, required bool) float64 {
	v, ok := f.spec.Data[key]
	if !ok {
		if required {
			f.missing(key)
		}
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		f.fail(key, fmt.Sprintf("expected number, got %T", v))
		return 0
	}
}

// ranges reads the optional per-variable sampling ranges: a mapping from
// symbol to a two-element [low, high] list
func (f *fields) ranges() map[string]model.Range {
	v, ok := f.spec.Data["ranges"]
	if !ok {
		return nil
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		if legacy, ok2 := v.(map[interface{}]interface{}); ok2 {
			raw = make(map[string]interface{}, len(legacy))
			for k, item := range legacy {
				ks, ok3 := k.(string)
				if !ok3 {
					f.fail("ranges", "expected string keys")
					return nil
				}
				raw[ks] = item
			}
		} else {
			f.fail("ranges", fmt.Sprintf("expected mapping, got %T", v))
			return nil
		}
	}

	out := make(map[string]model.Range, len(raw))
	for sym, bounds := range raw {
		pair, ok := bounds.([]interface{})
		if !ok || len(pair) != 2 {
			f.fail("ranges", fmt.Sprintf("range for %q must be [low, high]", sym))
			return nil
		}
		lo, ok1 := toFloat(pair[0])
		hi, ok2 := toFloat(pair[1])
		if !ok1 || !ok2 {
			f.fail("ranges", fmt.Sprintf("range for %q must be numeric", sym))
			return nil
		}
		if lo > hi {
			f.fail("ranges", fmt.Sprintf("range for %q has low > high", sym))
			return nil
		}
		out[sym] = model.Range{Low: lo, High: hi}
	}
	return out
}

// assumptions reads the declared assumption list for the induction symbol.
// Claim files written for the original engine nest the list under the
// symbol name; a plain list is also accepted.
func (f *fields) assumptions(nSymbol string) []string {
	v, ok := f.spec.Data["assumptions"]
	if !ok {
		return nil
	}

	if list, ok := v.([]interface{}); ok {
		return f.toStringList("assumptions", list)
	}

	var byName map[string]interface{}
	switch m := v.(type) {
	case map[string]interface{}:
		byName = m
	case map[interface{}]interface{}:
		byName = make(map[string]interface{}, len(m))
		for k, item := range m {
			if ks, ok := k.(string); ok {
				byName[ks] = item
			}
		}
	default:
		f.fail("assumptions", fmt.Sprintf("expected list or mapping, got %T", v))
		return nil
	}

	inner, ok := byName[nSymbol]
	if !ok {
		return nil
	}
	list, ok := inner.([]interface{})
	if !ok {
		f.fail("assumptions", fmt.Sprintf("expected list under %q, got %T", nSymbol, inner))
		return nil
	}
	return f.toStringList("assumptions", list)
}

func (f *fields) toStringList(key string, list []interface{}) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			f.fail(key, fmt.Sprintf("expected string element, got %T", item))
			return nil
		}
		out = append(out, s)
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
