package engine

import "github.com/abhisek/specter/internal/llm"

// TurnSchema defines the JSON schema for every narrative engine reply.
var TurnSchema = &llm.Schema{
	Name:        "heist-turn",
	Description: "One game-master turn: narrative text plus optional game state directives",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"markdown_response": map[string]any{
				"type":        "string",
				"description": "The narrative reply to the agent, in Markdown",
			},
			"mascot_action": map[string]any{
				"type":        "string",
				"enum":        []any{"GREET", "THINKING", "SUCCESS", "IDLE", "ANGRY"},
				"description": "Pose the handler avatar should take for this turn",
			},
			"quiz_result": map[string]any{
				"type":        "string",
				"enum":        []any{"CORRECT", "WRONG", "NEUTRAL"},
				"description": "Verdict on the agent's last answer, NEUTRAL when no answer was judged",
			},
			"flashcards": map[string]any{
				"type":        "array",
				"description": "Intel cards extracted from the document for this turn",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"term": map[string]any{
							"type":        "string",
							"description": "The concept or keyword",
						},
						"definition": map[string]any{
							"type":        "string",
							"description": "Short definition grounded in the document",
						},
					},
					"required":             []any{"term", "definition"},
					"additionalProperties": false,
				},
			},
			"active_challenge": map[string]any{
				"type":        "object",
				"description": "The mission currently posed to the agent, repeated while it stays open",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Short mission title",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "What the agent must do to clear the mission",
					},
					"difficulty": map[string]any{
						"type": "string",
						"enum": []any{"EASY", "MEDIUM", "HARD", "BOSS"},
					},
					"xpReward": map[string]any{
						"type":        "integer",
						"description": "XP granted on success: 15 easy, 35 medium, 60 hard, 100 boss",
					},
				},
				"required":             []any{"title", "description", "difficulty", "xpReward"},
				"additionalProperties": false,
			},
			"game_state_update": map[string]any{
				"type":        "object",
				"description": "Progression directives, omit fields that should carry forward",
				"properties": map[string]any{
					"current_level": map[string]any{
						"type":        "integer",
						"description": "Security level the agent is on, 1-5",
					},
					"level_title": map[string]any{
						"type":        "string",
						"description": "Display name of the current level",
					},
					"xp_gained": map[string]any{
						"type":        "integer",
						"description": "XP delta for this turn, negative for penalties",
					},
					"is_boss_fight": map[string]any{
						"type":        "boolean",
						"description": "True while a boss encounter is active, reassert every turn it stays active",
					},
					"core_pillars": map[string]any{
						"type":        "array",
						"description": "The 3-5 core concepts of the document",
						"items":       map[string]any{"type": "string"},
					},
				},
				"additionalProperties": false,
			},
		},
		"required":             []any{"markdown_response"},
		"additionalProperties": false,
	},
}
