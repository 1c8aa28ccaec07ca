package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"pulse-news/pkg/models"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseFrontMatter splits a content file into its front matter, body and
// front matter format (yaml, toml or json).
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := normalizeLineEndings(string(content))
	// Check for YAML (---)
	if strings.HasPrefix(str, "---\n") {
		parts := strings.SplitN(str, "---", 3) // "", FM, Body
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return sanitizeFrontMatter(fm), strings.TrimSpace(parts[2]), "yaml", nil
			}
		}
	}
	// Check for TOML (+++)
	if strings.HasPrefix(str, "+++\n") {
		parts := strings.SplitN(str, "+++", 3)
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := toml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return sanitizeFrontMatter(fm), strings.TrimSpace(parts[2]), "toml", nil
			}
		}
	}
	// Check for JSON ({). The body follows the closing brace.
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		dec := json.NewDecoder(strings.NewReader(str))
		var fm map[string]interface{}
		if err := dec.Decode(&fm); err == nil {
			rest := str[dec.InputOffset():]
			return fm, strings.TrimSpace(rest), "json", nil
		}
	}

	return nil, "", "", fmt.Errorf("unknown format")
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[k] = sanitizeValue(v)
	}
	return sanitized
}

// sanitizeValue converts decoder-specific shapes (YAML's interface-keyed maps,
// typed slices, Block values) into plain string-keyed maps and []interface{}.
func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case models.Block:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeValue(v[i])
		}
		return slice
	case []map[string]interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatter(v[i])
		}
		return slice
	case []models.Block:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatter(v[i])
		}
		return slice
	case []string:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = v[i]
		}
		return slice
	default:
		return v
	}
}

func normalizeLineEndings(input string) string {
	return strings.ReplaceAll(input, "\r\n", "\n")
}
