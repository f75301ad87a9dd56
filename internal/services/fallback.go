package services

import (
	"fmt"
	"math/rand"

	"inclusiveai/skill-assessment/internal/models"
)

// Deterministic substitutes used whenever the model-backed path fails or
// degenerates. The pipeline contract is that callers always receive a
// valid-shaped result, never an error, for generation and grading.

type cannedQuestion struct {
	Text  string
	Skill string
}

var fallbackQuestionBank = map[string][]cannedQuestion{
	"React": {
		{Text: "Explain how you would optimize a React application that renders a large list of items. Focus on the 'why' behind your choice.", Skill: "problem_solving"},
		{Text: "A component is re-rendering unexpectedly. How do you safeguard against this, and what tools would you use to debug?", Skill: "critical_thinking"},
		{Text: "Design a state management structure for a shopping cart. Justify using Context vs Redux vs Local State.", Skill: "analytical_reasoning"},
		{Text: "If useEffect dependencies are omitted, what happens? Explain the lifecycle implication.", Skill: "logical_reasoning"},
		{Text: "How does the Virtual DOM diffing algorithm handle list re-ordering? What is the role of 'keys'?", Skill: "technical_depth"},
		{Text: "Describe a scenario where useMemo is harmful rather than helpful.", Skill: "optimization_logic"},
	},
	"Python": {
		{Text: "Explain the difference between a generator and a list comprehension. When would you use one over the other under strict memory limits?", Skill: "problem_solving"},
		{Text: "Debug a memory leak in a long-running Python script. What is your process?", Skill: "critical_thinking"},
		{Text: "Design a decorator that retries a function 3 times on failure. Explain the flow.", Skill: "analytical_reasoning"},
		{Text: "Why is the Global Interpreter Lock (GIL) a bottleneck? How do you bypass it for CPU-bound tasks?", Skill: "logical_reasoning"},
		{Text: "Explain the concept of 'duck typing' with a practical example.", Skill: "technical_depth"},
		{Text: "How does Python garbage collection work? Explain reference counting vs cyclic GC.", Skill: "optimization_logic"},
	},
	"General": {
		{Text: "You have a deadline in 2 hours and a critical bug. Walk me through your prioritization process.", Skill: "problem_solving"},
		{Text: "Explain a complex technical concept to a non-technical stakeholder.", Skill: "communication"},
		{Text: "Analyze a situation where you had to make a trade-off between code quality and speed.", Skill: "critical_thinking"},
		{Text: "How do you approach learning a new technology stack quickly?", Skill: "adaptability"},
		{Text: "Describe a time you disagreed with a team member's technical implementation. How did you resolve it?", Skill: "collaboration"},
		{Text: "What is your process for reviewing code? What do you look for first?", Skill: "analytical_reasoning"},
	},
}

var fallbackSkills = []string{
	"logical_reasoning",
	"problem_solving",
	"critical_thinking",
	"analytical_reasoning",
	"communication",
}

var fallbackSkillFeedback = []string{
	"Strong logical flow.",
	"Good reasoning, but could be more specific.",
	"Excellent understanding of edge cases.",
	"Clear and concise explanation.",
	"Demonstrates deep conceptual knowledge.",
}

// FallbackQuestions returns the canned question set for a domain. Unknown
// domains use the General bank. Ids are contiguous from 1 and difficulty is
// the requested level.
func FallbackQuestions(domain, level string) []models.Question {
	bank, ok := fallbackQuestionBank[domain]
	if !ok {
		bank = fallbackQuestionBank["General"]
	}

	questions := make([]models.Question, 0, len(bank))
	for i, q := range bank {
		questions = append(questions, models.Question{
			ID:            i + 1,
			Text:          q.Text,
			SkillCategory: q.Skill,
			QuestionType:  "text",
			Difficulty:    level,
		})
	}
	return questions
}

// FallbackEvaluation produces a plausible placeholder grading. One base draw
// is shared across all skills so per-skill scores stay correlated; each
// skill adds a small independent jitter, clamped to [60, 100].
func FallbackEvaluation(rng *rand.Rand) models.EvaluationResult {
	base := 70 + rng.Intn(26)

	scores := make([]models.SkillScore, 0, len(fallbackSkills))
	total := 0
	for _, skill := range fallbackSkills {
		score := base + rng.Intn(21) - 10
		if score > 100 {
			score = 100
		}
		if score < 60 {
			score = 60
		}
		scores = append(scores, models.SkillScore{
			Skill:      skill,
			Percentage: score,
			Feedback:   fallbackSkillFeedback[rng.Intn(len(fallbackSkillFeedback))],
		})
		total += score
	}

	overall := total / len(fallbackSkills)

	return models.EvaluationResult{
		OverallScore: overall,
		SkillScores:  scores,
		SummaryFeedback: fmt.Sprintf(
			"AI grading unavailable, placeholder score. Candidate demonstrates %s proficiency in %s and %s. Recommended for manual review.",
			proficiencyLabel(overall), fallbackSkills[0], fallbackSkills[1]),
	}
}

// FallbackRecommendations returns generic improvement suggestions built from
// the candidate's known skills.
func FallbackRecommendations(skills []string) []string {
	if len(skills) == 0 {
		return []string{"Please provide skills to get personalized recommendations."}
	}

	recs := []string{
		fmt.Sprintf("Deepen your expertise in %s through a hands-on project with real users.", skills[0]),
		"Practice explaining technical decisions in writing to strengthen communication.",
	}
	if len(skills) > 1 {
		recs = append(recs, fmt.Sprintf("Explore how %s and %s combine in production systems.", skills[0], skills[1]))
	}
	return recs
}

func proficiencyLabel(score int) string {
	switch {
	case score > 90:
		return "Expert"
	case score > 80:
		return "Advanced"
	case score > 70:
		return "Intermediate"
	default:
		return "Foundational"
	}
}
