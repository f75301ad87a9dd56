package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inclusiveai/skill-assessment/internal/models"
)

// ContextRetriever supplies optional reference material for question
// generation. A nil retriever or a retrieval failure means no extra context.
type ContextRetriever interface {
	SearchContext(ctx context.Context, queryText, domain string, limit int) (string, error)
}

// HiringCrew runs the fixed agent pipelines: the three-step assessment flow
// (generate questions, candidate answers externally, grade) and the flat
// hiring-report flow (profile, accessibility, plan, recommend, aggregate).
type HiringCrew struct {
	resumeAnalyst      *Agent
	questionArchitect  *Agent
	grader             *Agent
	recommender        *Agent
	accessibilityGuard *Agent

	knowledge ContextRetriever
	rng       *rand.Rand

	// strict surfaces generation/grading failures instead of silently
	// substituting fallback results.
	strict bool
}

func NewHiringCrew(gateway LLMGateway, knowledge ContextRetriever, strict bool) *HiringCrew {
	return &HiringCrew{
		resumeAnalyst: NewModelAgent(
			"Alex",
			"Senior Tech Recruiter",
			"Extract key technical skills and experience levels from resumes.",
			"Expert in parsing varied resume formats and identifying true expertise.",
			gateway,
		),
		questionArchitect: NewModelAgent(
			"Q",
			"Chief Architect",
			"Design challenging, scenario-based technical interview questions.",
			"Evaluates deep understanding over memorization. Hates 'LeetCode' style questions.",
			gateway,
		),
		grader: NewModelAgent(
			"Judge",
			"Technical Hiring Manager",
			"Evaluate candidate answers for depth, clarity, and correctness.",
			"Strict but fair. Looks for nuances and practical application of knowledge.",
			gateway,
		),
		recommender: NewModelAgent(
			"Coach",
			"Career Coach",
			"Provide supportive, skill-focused improvement suggestions.",
			"Encouraging and professional. Never makes assumptions about a candidate's background.",
			gateway,
		),
		accessibilityGuard: NewToolAgent(
			"Guard",
			"Accessibility Guard",
			resolveAccessibilityTool,
		),
		knowledge: knowledge,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		strict:    strict,
	}
}

// resolveAccessibilityTool adapts the rule resolver to the agent contract so
// the flat pipeline dispatches it like any other stage.
func resolveAccessibilityTool(contextData map[string]any) (any, error) {
	mode, _ := contextData["accessibility_mode"].(string)
	cfg := ResolveAccessibility(models.AccessibilityMode(mode))

	obj := map[string]any{}
	buf, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode accessibility config: %w", err)
	}
	if err := json.Unmarshal(buf, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode accessibility config: %w", err)
	}
	return obj, nil
}

// AnalyzeProfile extracts a candidate profile from free resume text. A
// failed or empty analysis degrades to an anonymous mid-level profile; this
// stage never blocks the pipeline.
func (c *HiringCrew) AnalyzeProfile(ctx context.Context, resumeText, domain string) models.CandidateProfile {
	degraded := models.CandidateProfile{
		Skills:          []string{},
		ExperienceYears: 0,
		SeniorityLevel:  "Mid",
	}

	if strings.TrimSpace(resumeText) == "" {
		return degraded
	}

	task := fmt.Sprintf("Analyze this candidate's text for the %s role. "+
		"Extract 'skills' (list of strings), 'experience_years' (int), and 'seniority_level' (Junior/Mid/Senior). "+
		"IGNORE all personally identifiable information such as name, email, location, age, or gender; "+
		"none of it may appear in the output.", domain)

	obj, err := c.resumeAnalyst.ExecuteObject(ctx, task, map[string]any{
		"resume": resumeText,
	})
	if err != nil || len(obj) == 0 {
		return degraded
	}

	// Decoding into the fixed profile shape drops any extra fields the
	// model may emit, so PII cannot be reintroduced here.
	var profile models.CandidateProfile
	if err := decodeInto(obj, &profile); err != nil {
		return degraded
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.ExperienceYears < 0 {
		profile.ExperienceYears = 0
	}
	switch profile.SeniorityLevel {
	case "Junior", "Mid", "Senior":
	default:
		profile.SeniorityLevel = "Mid"
	}
	return profile
}

// DesignAssessment generates the ordered question sequence for a candidate.
// Ids are assigned here, never trusted from the model, and the result always
// has count questions with contiguous ids starting at 1.
func (c *HiringCrew) DesignAssessment(
	ctx context.Context,
	profile models.CandidateProfile,
	domain, level string,
	rules models.AccessibilityConfig,
	count int,
) ([]models.Question, error) {
	if count <= 0 {
		count = 6
	}

	contextData := map[string]any{
		"profile": profileToMap(profile),
	}
	if reference := c.retrieveReference(ctx, profile, domain); reference != "" {
		contextData["reference_material"] = reference
	}

	task := buildQuestionTask(domain, level, rules, count)

	list, err := c.questionArchitect.ExecuteList(ctx, task, contextData)

	questions := make([]models.Question, 0, count)
	for _, item := range list {
		q, ok := coerceQuestion(item, level)
		if !ok {
			continue
		}
		questions = append(questions, q)
		if len(questions) == count {
			break
		}
	}

	if len(questions) < count {
		if c.strict {
			if err == nil {
				err = fmt.Errorf("%w: got %d of %d questions", ErrUpstreamEmpty, len(questions), count)
			}
			return nil, fmt.Errorf("question generation failed: %w", err)
		}
		log.Printf("⚠️  Question generation yielded %d of %d questions, using fallback set", len(questions), count)
		questions = FallbackQuestions(domain, level)
	}

	for i := range questions {
		questions[i].ID = i + 1
	}
	return questions, nil
}

// GradeSubmission evaluates free-text answers. A zero overall score is the
// internal grading-failed sentinel and is always replaced by the fallback
// evaluation before returning.
func (c *HiringCrew) GradeSubmission(
	ctx context.Context,
	answers []models.Answer,
	domain string,
	rules models.AccessibilityConfig,
) (models.EvaluationResult, error) {
	log.Printf("🧑‍⚖️ [Judge] Grading %d answers for %s", len(answers), domain)

	task := buildGradingTask(domain, rules)

	obj, err := c.grader.ExecuteObject(ctx, task, map[string]any{
		"answers": answersToList(answers),
	})

	var result models.EvaluationResult
	if err == nil {
		if decodeErr := decodeInto(obj, &result); decodeErr != nil {
			err = decodeErr
		}
	}

	clampEvaluation(&result)

	if err != nil || result.OverallScore == 0 {
		if c.strict {
			if err == nil {
				err = fmt.Errorf("%w: grader returned zero score", ErrUpstreamEmpty)
			}
			return models.EvaluationResult{}, fmt.Errorf("grading failed: %w", err)
		}
		log.Println("⚠️  Grading unavailable, substituting placeholder evaluation")
		return FallbackEvaluation(c.rng), nil
	}

	return result, nil
}

// Recommend produces 2-4 supportive improvement suggestions for the given
// skills. Failures degrade to canned suggestions.
func (c *HiringCrew) Recommend(ctx context.Context, skills []string) []string {
	if len(skills) == 0 {
		return FallbackRecommendations(skills)
	}

	task := "Provide 2-4 improvement suggestions based on the candidate's current skills. " +
		"Tone: supportive, encouraging, professional. Focus strictly on technical skill growth. " +
		"Do NOT make assumptions about the candidate's background, gender, age, or disability status. " +
		"Return a JSON list of strings."

	list, err := c.recommender.ExecuteList(ctx, task, map[string]any{
		"skills": skills,
	})
	if err != nil || len(list) == 0 {
		return FallbackRecommendations(skills)
	}

	recs := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			recs = append(recs, strings.TrimSpace(s))
		}
	}
	if len(recs) == 0 {
		return FallbackRecommendations(skills)
	}
	return recs
}

// BuildHiringReport runs the flat pipeline: profile, accessibility, plan,
// recommend, aggregate. Each stage's output is merged into the shared
// context; a failed stage degrades to empty input for its successors. The
// only fatal condition is malformed top-level input.
func (c *HiringCrew) BuildHiringReport(
	ctx context.Context,
	identifier, resumeText, domain string,
	mode models.AccessibilityMode,
) (*models.HiringReport, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, fmt.Errorf("%w: candidate identifier is required", ErrInvalidInput)
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("%w: resume text is required", ErrInvalidInput)
	}

	candidateID, err := Anonymize(identifier)
	if err != nil {
		return nil, err
	}

	pipelineContext := map[string]any{
		"domain":             domain,
		"accessibility_mode": string(mode),
	}

	// Stage: resume analysis.
	profile := c.AnalyzeProfile(ctx, resumeText, domain)
	pipelineContext["resume_analysis"] = profileToMap(profile)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled: %w", err)
	}

	// Stage: accessibility resolution, dispatched through the tool agent.
	rules := ResolveAccessibility(mode)
	if obj, err := c.accessibilityGuard.ExecuteObject(ctx, "Resolve accessibility configuration", pipelineContext); err == nil {
		var resolved models.AccessibilityConfig
		if decodeInto(obj, &resolved) == nil {
			rules = resolved
		}
	}
	pipelineContext["accessibility_rules"] = rules
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled: %w", err)
	}

	// Stage: assessment plan.
	level := levelForSeniority(profile.SeniorityLevel)
	plan, err := c.DesignAssessment(ctx, profile, domain, level, rules, 6)
	if err != nil {
		return nil, err
	}
	pipelineContext["assessment_plan"] = plan
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled: %w", err)
	}

	// Stage: recommendations.
	recommendations := c.Recommend(ctx, profile.Skills)

	return &models.HiringReport{
		CandidateID:        candidateID,
		Domain:             domain,
		ResumeAnalysis:     profile,
		AccessibilityRules: rules,
		AssessmentPlan:     plan,
		Recommendations:    recommendations,
	}, nil
}

func (c *HiringCrew) retrieveReference(ctx context.Context, profile models.CandidateProfile, domain string) string {
	if c.knowledge == nil {
		return ""
	}

	query := domain
	if len(profile.Skills) > 0 {
		query = fmt.Sprintf("%s interview topics for skills: %s", domain, strings.Join(profile.Skills, ", "))
	}

	reference, err := c.knowledge.SearchContext(ctx, query, domain, 3)
	if err != nil {
		log.Printf("⚠️  Failed to retrieve reference material: %v", err)
		return ""
	}
	return reference
}

func buildQuestionTask(domain, level string, rules models.AccessibilityConfig, count int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate %d reasoning-based %s interview questions at %s difficulty, tailored to the candidate's profile.\n", count, domain, level)
	sb.WriteString("Rules:\n")
	sb.WriteString("1. NO memorization or syntax trivia.\n")
	sb.WriteString("2. Focus on LOGIC, REASONING, and CONCEPTUAL UNDERSTANDING.\n")
	sb.WriteString("3. NO trick questions. One concept per question.\n")

	switch rules.PreferredQuestionStyle {
	case models.StyleVisual:
		sb.WriteString("4. Preferred style: visual. Describe scenarios or code snippets clearly and concretely.\n")
	case models.StyleScenario:
		sb.WriteString("4. Preferred style: scenario. Use real-world situations rather than abstract prompts.\n")
	default:
		sb.WriteString("4. Preferred style: text.\n")
	}

	if rules.EvaluationRules.TimePressure == models.TimePressureNone {
		sb.WriteString("5. The candidate is not timed. Questions must not be speed-dependent or use time-boxed phrasing.\n")
	}

	fmt.Fprintf(&sb, "Return a JSON list of %d objects, each with 'text', 'skill_category', 'question_type', and 'difficulty'.", count)
	return sb.String()
}

func buildGradingTask(domain string, rules models.AccessibilityConfig) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Evaluate these %s interview answers for depth, clarity, and correctness.\n", domain)
	if rules.EvaluationRules.IgnoreGrammar {
		sb.WriteString("Do not penalize grammar, spelling, or sentence structure; judge reasoning only.\n")
	}
	if rules.EvaluationRules.IgnoreSpeechLatency {
		sb.WriteString("Ignore any response-latency signals in the answers.\n")
	}
	sb.WriteString("Return JSON with 'overall_score' (int 1-100), 'summary_feedback' (string), " +
		"and 'skill_scores' (list of {skill, percentage, feedback}).")
	return sb.String()
}

func coerceQuestion(item any, level string) (models.Question, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.Question{}, false
	}

	text := coerceText(obj["text"])
	if text == "" {
		text = coerceText(obj["question_text"])
	}
	if text == "" {
		return models.Question{}, false
	}

	q := models.Question{
		Text:          text,
		SkillCategory: coerceText(obj["skill_category"]),
		QuestionType:  coerceText(obj["question_type"]),
		Difficulty:    coerceText(obj["difficulty"]),
	}
	if q.QuestionType == "" {
		q.QuestionType = "text"
	}
	if q.Difficulty == "" {
		q.Difficulty = level
	}
	return q, true
}

// coerceText flattens a string or list-of-strings value. Models sometimes
// return a list where a single category was requested.
func coerceText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func clampEvaluation(result *models.EvaluationResult) {
	if result.OverallScore < 0 {
		result.OverallScore = 0
	}
	if result.OverallScore > 100 {
		result.OverallScore = 100
	}
	for i := range result.SkillScores {
		if result.SkillScores[i].Percentage < 0 {
			result.SkillScores[i].Percentage = 0
		}
		if result.SkillScores[i].Percentage > 100 {
			result.SkillScores[i].Percentage = 100
		}
	}
}

func levelForSeniority(seniority string) string {
	switch seniority {
	case "Junior":
		return "beginner"
	case "Senior":
		return "expert"
	default:
		return "intermediate"
	}
}

func profileToMap(profile models.CandidateProfile) map[string]any {
	return map[string]any{
		"skills":           profile.Skills,
		"experience_years": profile.ExperienceYears,
		"seniority_level":  profile.SeniorityLevel,
	}
}

func answersToList(answers []models.Answer) []any {
	list := make([]any, 0, len(answers))
	for _, a := range answers {
		list = append(list, map[string]any{
			"question_id": a.QuestionID,
			"text":        a.Text,
		})
	}
	return list
}

func decodeInto(obj map[string]any, target any) error {
	buf, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to encode agent output: %w", err)
	}
	if err := json.Unmarshal(buf, target); err != nil {
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return nil
}
