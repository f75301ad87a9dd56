package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inclusiveai/skill-assessment/internal/models"
)

func questionsJSON(count int) string {
	items := make([]string, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, fmt.Sprintf(
			`{"id": %d, "text": "Question %d?", "skill_category": "problem_solving", "question_type": "text", "difficulty": "intermediate"}`,
			100+i, i))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func defaultProfile() models.CandidateProfile {
	return models.CandidateProfile{
		Skills:          []string{"Go", "PostgreSQL"},
		ExperienceYears: 4,
		SeniorityLevel:  "Mid",
	}
}

func TestAnalyzeProfileHappyPath(t *testing.T) {
	gateway := fixedGateway(`{"skills": ["Go", "Docker"], "experience_years": 6, "seniority_level": "Senior", "name": "Jane Doe", "email": "jane@x.com"}`)
	crew := NewHiringCrew(gateway, nil, false)

	profile := crew.AnalyzeProfile(context.Background(), "resume text here", "Backend")

	assert.Equal(t, []string{"Go", "Docker"}, profile.Skills)
	assert.Equal(t, 6, profile.ExperienceYears)
	assert.Equal(t, "Senior", profile.SeniorityLevel)

	require.Len(t, gateway.prompts, 1)
	assert.Contains(t, gateway.prompts[0], "IGNORE all personally identifiable information")
}

func TestAnalyzeProfileDegradesOnFailure(t *testing.T) {
	crew := NewHiringCrew(failingGateway(ErrUnavailable), nil, false)

	profile := crew.AnalyzeProfile(context.Background(), "resume text", "Backend")

	assert.Equal(t, []string{}, profile.Skills)
	assert.Equal(t, 0, profile.ExperienceYears)
	assert.Equal(t, "Mid", profile.SeniorityLevel)
}

func TestAnalyzeProfileEmptyResumeSkipsModel(t *testing.T) {
	gateway := fixedGateway(`{}`)
	crew := NewHiringCrew(gateway, nil, false)

	profile := crew.AnalyzeProfile(context.Background(), "   ", "Backend")

	assert.Equal(t, "Mid", profile.SeniorityLevel)
	assert.Empty(t, gateway.prompts)
}

func TestAnalyzeProfileNormalizesBadValues(t *testing.T) {
	gateway := fixedGateway(`{"skills": null, "experience_years": -2, "seniority_level": "Architect"}`)
	crew := NewHiringCrew(gateway, nil, false)

	profile := crew.AnalyzeProfile(context.Background(), "resume", "Backend")

	assert.NotNil(t, profile.Skills)
	assert.Equal(t, 0, profile.ExperienceYears)
	assert.Equal(t, "Mid", profile.SeniorityLevel)
}

func TestDesignAssessmentAssignsContiguousIDs(t *testing.T) {
	gateway := fixedGateway(questionsJSON(6))
	crew := NewHiringCrew(gateway, nil, false)

	questions, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "Go", "intermediate",
		ResolveAccessibility(models.ModeGeneral), 6)
	require.NoError(t, err)
	require.Len(t, questions, 6)

	// Model-supplied ids (100..105) are discarded.
	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
	}
}

func TestDesignAssessmentFallsBackWhenGatewayDown(t *testing.T) {
	crew := NewHiringCrew(failingGateway(ErrUnavailable), nil, false)

	questions, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "Python", "beginner",
		ResolveAccessibility(models.ModeGeneral), 6)
	require.NoError(t, err)
	require.Len(t, questions, 6)

	expected := FallbackQuestions("Python", "beginner")
	assert.Equal(t, expected, questions)
	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		assert.Equal(t, "beginner", q.Difficulty)
	}
}

func TestDesignAssessmentFallsBackOnShortList(t *testing.T) {
	gateway := fixedGateway(questionsJSON(2))
	crew := NewHiringCrew(gateway, nil, false)

	questions, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "React", "expert",
		ResolveAccessibility(models.ModeGeneral), 6)
	require.NoError(t, err)
	assert.Equal(t, FallbackQuestions("React", "expert"), questions)
}

func TestDesignAssessmentStrictModeSurfacesError(t *testing.T) {
	crew := NewHiringCrew(failingGateway(ErrUnavailable), nil, true)

	_, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "Go", "intermediate",
		ResolveAccessibility(models.ModeGeneral), 6)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDesignAssessmentCoercesListSkillCategory(t *testing.T) {
	raw := `[{"text": "Q1?", "skill_category": ["logic", "design"], "question_type": "text", "difficulty": "expert"}]`
	gateway := fixedGateway(raw)
	crew := NewHiringCrew(gateway, nil, false)

	questions, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "Go", "expert",
		ResolveAccessibility(models.ModeGeneral), 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "logic, design", questions[0].SkillCategory)
}

func TestDesignAssessmentNeurodivergentPrompt(t *testing.T) {
	gateway := fixedGateway(questionsJSON(6))
	crew := NewHiringCrew(gateway, nil, false)

	_, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "Go", "intermediate",
		ResolveAccessibility(models.ModeNeurodivergent), 6)
	require.NoError(t, err)

	require.Len(t, gateway.prompts, 1)
	prompt := gateway.prompts[0]
	assert.Contains(t, prompt, "scenario")
	assert.Contains(t, prompt, "must not be speed-dependent or use time-boxed phrasing")
}

func TestDesignAssessmentGeneralPromptHasNoTimerOptOut(t *testing.T) {
	gateway := fixedGateway(questionsJSON(6))
	crew := NewHiringCrew(gateway, nil, false)

	_, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "Go", "intermediate",
		ResolveAccessibility(models.ModeGeneral), 6)
	require.NoError(t, err)

	assert.NotContains(t, gateway.prompts[0], "not timed")
}

type stubRetriever struct {
	reference string
	queries   []string
}

func (s *stubRetriever) SearchContext(_ context.Context, queryText, _ string, _ int) (string, error) {
	s.queries = append(s.queries, queryText)
	return s.reference, nil
}

func TestDesignAssessmentIncludesReferenceMaterial(t *testing.T) {
	gateway := fixedGateway(questionsJSON(6))
	retriever := &stubRetriever{reference: "goroutine scheduling internals"}
	crew := NewHiringCrew(gateway, retriever, false)

	_, err := crew.DesignAssessment(
		context.Background(), defaultProfile(), "Go", "intermediate",
		ResolveAccessibility(models.ModeGeneral), 6)
	require.NoError(t, err)

	assert.Contains(t, gateway.prompts[0], "goroutine scheduling internals")
	require.Len(t, retriever.queries, 1)
	assert.Contains(t, retriever.queries[0], "Go interview topics")
}

func TestGradeSubmissionHappyPath(t *testing.T) {
	gateway := fixedGateway(`{
		"overall_score": 84,
		"summary_feedback": "Solid reasoning throughout.",
		"skill_scores": [{"skill": "problem_solving", "percentage": 88, "feedback": "Good decomposition."}]
	}`)
	crew := NewHiringCrew(gateway, nil, false)

	result, err := crew.GradeSubmission(
		context.Background(),
		[]models.Answer{{QuestionID: 1, Text: "I would profile first."}},
		"Go",
		ResolveAccessibility(models.ModeGeneral))
	require.NoError(t, err)

	assert.Equal(t, 84, result.OverallScore)
	assert.Equal(t, "Solid reasoning throughout.", result.SummaryFeedback)
	require.Len(t, result.SkillScores, 1)
	assert.Equal(t, 88, result.SkillScores[0].Percentage)
}

func TestGradeSubmissionNeverReturnsZeroScore(t *testing.T) {
	cases := map[string]*stubGateway{
		"gateway down":     failingGateway(ErrUnavailable),
		"prose response":   fixedGateway("I refuse to grade this."),
		"zero sentinel":    fixedGateway(`{"overall_score": 0, "summary_feedback": "", "skill_scores": []}`),
		"negative clamped": fixedGateway(`{"overall_score": -5, "summary_feedback": "x", "skill_scores": []}`),
	}

	for name, gateway := range cases {
		t.Run(name, func(t *testing.T) {
			crew := NewHiringCrew(gateway, nil, false)

			result, err := crew.GradeSubmission(
				context.Background(),
				[]models.Answer{{QuestionID: 1, Text: "answer"}},
				"Go",
				ResolveAccessibility(models.ModeGeneral))
			require.NoError(t, err)

			assert.Greater(t, result.OverallScore, 0)
			assert.NotEmpty(t, result.SkillScores)
			assert.Contains(t, result.SummaryFeedback, "placeholder score")
		})
	}
}

func TestGradeSubmissionClampsOverflow(t *testing.T) {
	gateway := fixedGateway(`{
		"overall_score": 140,
		"summary_feedback": "Over-enthusiastic model.",
		"skill_scores": [{"skill": "logic", "percentage": 120, "feedback": "ok"}]
	}`)
	crew := NewHiringCrew(gateway, nil, false)

	result, err := crew.GradeSubmission(
		context.Background(), []models.Answer{{QuestionID: 1, Text: "a"}},
		"Go", ResolveAccessibility(models.ModeGeneral))
	require.NoError(t, err)

	assert.Equal(t, 100, result.OverallScore)
	assert.Equal(t, 100, result.SkillScores[0].Percentage)
}

func TestGradeSubmissionStrictModeSurfacesError(t *testing.T) {
	crew := NewHiringCrew(failingGateway(ErrUnavailable), nil, true)

	_, err := crew.GradeSubmission(
		context.Background(), []models.Answer{{QuestionID: 1, Text: "a"}},
		"Go", ResolveAccessibility(models.ModeGeneral))
	assert.ErrorIs(t, err, ErrUnavailable)

	crew = NewHiringCrew(fixedGateway(`{"overall_score": 0, "skill_scores": [], "summary_feedback": ""}`), nil, true)
	_, err = crew.GradeSubmission(
		context.Background(), []models.Answer{{QuestionID: 1, Text: "a"}},
		"Go", ResolveAccessibility(models.ModeGeneral))
	assert.ErrorIs(t, err, ErrUpstreamEmpty)
}

func TestGradeSubmissionDeafRulesInPrompt(t *testing.T) {
	gateway := fixedGateway(`{"overall_score": 75, "summary_feedback": "ok", "skill_scores": [{"skill": "logic", "percentage": 75, "feedback": "ok"}]}`)
	crew := NewHiringCrew(gateway, nil, false)

	_, err := crew.GradeSubmission(
		context.Background(), []models.Answer{{QuestionID: 1, Text: "a"}},
		"Go", ResolveAccessibility(models.ModeDeaf))
	require.NoError(t, err)

	assert.Contains(t, gateway.prompts[0], "Do not penalize grammar")
}

func TestRecommendHappyPath(t *testing.T) {
	gateway := fixedGateway(`["Build a CLI tool in Go.", "Learn query planning in PostgreSQL."]`)
	crew := NewHiringCrew(gateway, nil, false)

	recs := crew.Recommend(context.Background(), []string{"Go", "PostgreSQL"})
	assert.Equal(t, []string{"Build a CLI tool in Go.", "Learn query planning in PostgreSQL."}, recs)
}

func TestRecommendDegradesToFallback(t *testing.T) {
	crew := NewHiringCrew(failingGateway(ErrUnavailable), nil, false)

	recs := crew.Recommend(context.Background(), []string{"Go"})
	assert.Equal(t, FallbackRecommendations([]string{"Go"}), recs)
}

func TestRecommendEmptySkills(t *testing.T) {
	gateway := fixedGateway(`["should not be called"]`)
	crew := NewHiringCrew(gateway, nil, false)

	recs := crew.Recommend(context.Background(), nil)
	assert.Equal(t, FallbackRecommendations(nil), recs)
	assert.Empty(t, gateway.prompts)
}

func TestBuildHiringReport(t *testing.T) {
	gateway := &stubGateway{fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Senior Tech Recruiter"):
			return `{"skills": ["React", "TypeScript"], "experience_years": 7, "seniority_level": "Senior"}`, nil
		case strings.Contains(prompt, "Chief Architect"):
			return questionsJSON(6), nil
		case strings.Contains(prompt, "Career Coach"):
			return `["Mentor a junior developer.", "Contribute to an open-source React library."]`, nil
		default:
			return "", fmt.Errorf("unexpected prompt: %s", prompt)
		}
	}}
	crew := NewHiringCrew(gateway, nil, false)

	report, err := crew.BuildHiringReport(
		context.Background(), "jane.doe@example.com", "7 years building React frontends", "React", models.ModeDeaf)
	require.NoError(t, err)

	wantID, _ := Anonymize("jane.doe@example.com")
	assert.Equal(t, wantID, report.CandidateID)
	assert.NotContains(t, report.CandidateID, "jane")

	assert.Equal(t, "React", report.Domain)
	assert.Equal(t, "Senior", report.ResumeAnalysis.SeniorityLevel)
	assert.True(t, report.AccessibilityRules.EvaluationRules.IgnoreGrammar)
	assert.Len(t, report.AssessmentPlan, 6)
	assert.Len(t, report.Recommendations, 2)

	// No raw identifier may leak into the serialized report.
	buf, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(buf), "jane.doe@example.com")
}

func TestBuildHiringReportDegradedStillCompletes(t *testing.T) {
	crew := NewHiringCrew(failingGateway(ErrUnavailable), nil, false)

	report, err := crew.BuildHiringReport(
		context.Background(), "candidate-42", "some resume text", "Python", models.ModeGeneral)
	require.NoError(t, err)

	assert.Equal(t, "Mid", report.ResumeAnalysis.SeniorityLevel)
	assert.Len(t, report.AssessmentPlan, 6)
	assert.NotEmpty(t, report.Recommendations)
}

func TestBuildHiringReportRejectsMissingInput(t *testing.T) {
	crew := NewHiringCrew(fixedGateway(`{}`), nil, false)

	_, err := crew.BuildHiringReport(context.Background(), "", "resume", "Go", models.ModeGeneral)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = crew.BuildHiringReport(context.Background(), "id", "   ", "Go", models.ModeGeneral)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildHiringReportHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	crew := NewHiringCrew(failingGateway(ErrUnavailable), nil, false)

	_, err := crew.BuildHiringReport(ctx, "id", "resume", "Go", models.ModeGeneral)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLevelForSeniority(t *testing.T) {
	assert.Equal(t, "beginner", levelForSeniority("Junior"))
	assert.Equal(t, "intermediate", levelForSeniority("Mid"))
	assert.Equal(t, "expert", levelForSeniority("Senior"))
	assert.Equal(t, "intermediate", levelForSeniority("anything else"))
}
