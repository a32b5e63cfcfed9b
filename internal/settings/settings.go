// Package settings resolves layered key/value configuration from the
// environment, a JSON or YAML file, a JSON string and key=value pairs.
//
// Later layers override earlier ones:
//
//	env < file < json < key=value
package settings

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment prefixes.
const (
	ContextPrefix = "PYRAMID_CONTEXT"
	WebhookPrefix = "PYRAMID_WEBHOOK"
	UploadPrefix  = "PYRAMID_UPLOAD_CONFIG"
)

// Sources are the user-supplied layers for one setting group.
type Sources struct {
	JSON  string
	Pairs []string
	File  string
}

// Empty reports whether no layer was given on the command line.
func (s Sources) Empty() bool {
	return s.JSON == "" && len(s.Pairs) == 0 && s.File == ""
}

// ParsePair parses key=value, inferring int, float and bool values.
func ParsePair(pair string) (string, any, error) {
	key, raw, ok := strings.Cut(pair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", pair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}
	return key, inferValue(strings.TrimSpace(raw)), nil
}

func inferValue(s string) any {
	// ints first so "1" is not read as true
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// ParseJSON decodes a JSON document of any shape.
func ParseJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// ParseFile reads a JSON or YAML file. Files ending in .json are decoded as
// JSON, everything else as YAML.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var v any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
		return v, nil
	}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return v, nil
}

// FromEnv collects PREFIX (a JSON object) and PREFIX_KEY variables. Keys are
// lowercased. It returns nil when nothing is set.
func FromEnv(prefix string) map[string]any {
	values := make(map[string]any)

	if raw := os.Getenv(prefix); raw != "" {
		if parsed, err := ParseJSON(raw); err == nil {
			if m, ok := parsed.(map[string]any); ok {
				maps.Copy(values, m)
			}
		}
	}

	for _, env := range os.Environ() {
		name, raw, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, prefix+"_") {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, prefix+"_"))
		values[key] = inferValue(strings.TrimSpace(raw))
	}

	if len(values) == 0 {
		return nil
	}
	return values
}

// Merge overlays layers left to right. A non-object layer is returned as-is
// only when no object has been merged before it.
func Merge(layers ...any) any {
	result := make(map[string]any)

	for _, layer := range layers {
		switch v := layer.(type) {
		case nil:
		case map[string]any:
			maps.Copy(result, v)
		default:
			if len(result) == 0 {
				return v
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Build resolves every layer for prefix.
func Build(prefix string, src Sources) (any, error) {
	var layers []any

	if env := FromEnv(prefix); env != nil {
		layers = append(layers, env)
	}

	if src.File != "" {
		v, err := ParseFile(src.File)
		if err != nil {
			return nil, err
		}
		layers = append(layers, v)
	}

	if src.JSON != "" {
		v, err := ParseJSON(src.JSON)
		if err != nil {
			return nil, err
		}
		layers = append(layers, v)
	}

	if len(src.Pairs) > 0 {
		pairs := make(map[string]any, len(src.Pairs))
		for _, p := range src.Pairs {
			key, value, err := ParsePair(p)
			if err != nil {
				return nil, err
			}
			pairs[key] = value
		}
		layers = append(layers, pairs)
	}

	return Merge(layers...), nil
}

// BuildMap is Build for settings that must be an object.
func BuildMap(prefix string, src Sources) (map[string]any, error) {
	v, err := Build(prefix, src)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s settings must be an object, got %T", strings.ToLower(prefix), v)
	}
	return m, nil
}

// String returns m[key] as a string, formatting numbers and bools.
func String(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns m[key] as an int, or def when missing or not numeric.
func Int(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Bool returns m[key] as a bool, or def when missing.
func Bool(m map[string]any, key string, def bool) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
