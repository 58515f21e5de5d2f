package memory

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

func stringList() *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{"array", "null"}, Items: &jsonschema.Schema{Type: "string"}}
}

func nullableString() *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{"string", "null"}}
}

func noteList() *jsonschema.Schema {
	return &jsonschema.Schema{
		Types: []string{"array", "null"},
		Items: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"title":       {Type: "string"},
				"platform":    nullableString(),
				"description": nullableString(),
				"timestamp":   nullableString(),
			},
			Required: []string{"title"},
		},
	}
}

// documentSchema describes the persisted memory document.
func documentSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_name": nullableString(),
			"preferences": {
				Types: []string{"object", "null"},
				Properties: map[string]*jsonschema.Schema{
					"favorite_genres":      stringList(),
					"favorite_platforms":   stringList(),
					"preferred_difficulty": stringList(),
					"mood_preferences":     stringList(),
				},
			},
			"favorites":       noteList(),
			"mentioned_games": stringList(),
			"provided_info":   noteList(),
			"conversation_history": {
				Types: []string{"array", "null"},
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"user":      {Type: "string"},
						"ai":        {Type: "string"},
						"timestamp": nullableString(),
					},
				},
			},
			"last_updated": nullableString(),
		},
	}
}

func resolveSchema() (*jsonschema.Resolved, error) {
	resolved, err := documentSchema().Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve memory schema: %w", err)
	}
	return resolved, nil
}
