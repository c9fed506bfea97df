// Package generation produces term pairs with an LLM constrained by a strict JSON schema
package generation

import (
	"fmt"

	"github.com/flashdeck/backend/internal/models"
)

// SchemaName names the structured output schema in provider requests
const SchemaName = "pairs_generation"

// BuildPairsSchema returns a JSON Schema for an object holding exactly count pairs.
// Both object levels reject additional properties.
func BuildPairsSchema(count int) (map[string]any, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	pairTypes := make([]string, 0, len(models.PairTypes))
	for _, t := range models.PairTypes {
		pairTypes = append(pairTypes, string(t))
	}
	registers := make([]string, 0, len(models.Registers))
	for _, r := range models.Registers {
		registers = append(registers, string(r))
	}

	term := func() map[string]any {
		return map[string]any{
			"type":      "string",
			"minLength": 1,
			"maxLength": models.MaxTermLength,
		}
	}

	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"term_a", "term_b", "type", "register"},
		"properties": map[string]any{
			"term_a":   term(),
			"term_b":   term(),
			"type":     map[string]any{"type": "string", "enum": pairTypes},
			"register": map[string]any{"type": "string", "enum": registers},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"pairs"},
		"properties": map[string]any{
			"pairs": map[string]any{
				"type":     "array",
				"minItems": count,
				"maxItems": count,
				"items":    item,
			},
		},
	}, nil
}
