package services

import (
	"inclusiveai/skill-assessment/internal/models"
)

// accessibilityTable maps each interaction mode to its evaluation and
// presentation configuration. We adjust the conditions under which skill is
// demonstrated, never the score itself, and we store the configuration, not
// a diagnosis.
var accessibilityTable = map[models.AccessibilityMode]models.AccessibilityConfig{
	models.ModeGeneral: {
		EvaluationRules: models.EvaluationRules{
			IgnoreGrammar:       false,
			IgnoreSpeechLatency: false,
			TimePressure:        models.TimePressureNormal,
		},
		PreferredQuestionStyle: models.StyleText,
	},
	models.ModeDeaf: {
		EvaluationRules: models.EvaluationRules{
			// Sign language structure differs from written grammar.
			IgnoreGrammar:       true,
			IgnoreSpeechLatency: false,
			TimePressure:        models.TimePressureNormal,
		},
		PreferredQuestionStyle: models.StyleVisual,
	},
	models.ModeMute: {
		EvaluationRules: models.EvaluationRules{
			IgnoreGrammar:       false,
			IgnoreSpeechLatency: false,
			TimePressure:        models.TimePressureNormal,
		},
		PreferredQuestionStyle: models.StyleText,
	},
	models.ModeNeurodivergent: {
		EvaluationRules: models.EvaluationRules{
			IgnoreGrammar:       false,
			IgnoreSpeechLatency: false,
			// Remove anxiety-inducing timers.
			TimePressure: models.TimePressureNone,
		},
		PreferredQuestionStyle: models.StyleScenario,
	},
}

// ResolveAccessibility returns the configuration for a user mode. Unknown
// modes silently fall back to the general configuration.
func ResolveAccessibility(mode models.AccessibilityMode) models.AccessibilityConfig {
	if cfg, ok := accessibilityTable[mode]; ok {
		return cfg
	}
	return accessibilityTable[models.ModeGeneral]
}
