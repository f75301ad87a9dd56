package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inclusiveai/skill-assessment/internal/models"
	"inclusiveai/skill-assessment/internal/services"
)

// captureGateway records every prompt and always reports the backend as down,
// so the crew serves fallback results while the tests inspect the prompts.
type captureGateway struct {
	prompts []string
}

func (g *captureGateway) Generate(_ context.Context, prompt string, _ services.ResponseFormat) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return "", services.ErrUnavailable
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) Create(*models.User) error { return nil }
func (s *stubUserRepo) FindByEmail(string) (*models.User, error) {
	return s.user, nil
}
func (s *stubUserRepo) UpdateProfile(string, map[string]interface{}) error { return nil }

type stubAssessmentRepo struct {
	assessment *models.Assessment
	saved      *models.Submission
}

func (s *stubAssessmentRepo) Create(*models.Assessment) error { return nil }
func (s *stubAssessmentRepo) FindByID(uuid.UUID) (*models.Assessment, error) {
	return s.assessment, nil
}
func (s *stubAssessmentRepo) CreateSubmission(sub *models.Submission) error {
	s.saved = sub
	return nil
}
func (s *stubAssessmentRepo) FindSubmissionsByUser(uint) ([]models.Submission, error) {
	return nil, nil
}

func assessmentTestApp(user *models.User, gateway services.LLMGateway) (*fiber.App, *stubAssessmentRepo) {
	crew := services.NewHiringCrew(gateway, nil, false)
	assessmentRepo := &stubAssessmentRepo{
		assessment: &models.Assessment{ID: uuid.New(), UserID: user.ID, Domain: "Go", Level: "intermediate"},
	}
	handler := NewAssessmentHandler(assessmentRepo, &stubUserRepo{user: user}, crew, 6)

	app := fiber.New()
	identity := &services.Identity{Email: user.Email, Role: string(user.Role)}
	app.Post("/assessment/generate", func(c *fiber.Ctx) error {
		c.Locals(identityKey, identity)
		return handler.HandleGenerate(c)
	})
	app.Post("/assessment/submit", func(c *fiber.Ctx) error {
		c.Locals(identityKey, identity)
		return handler.HandleSubmit(c)
	})
	return app, assessmentRepo
}

func studentWithNeeds(needs string) *models.User {
	return &models.User{
		ID:                 1,
		Email:              "student@example.com",
		Role:               models.RoleStudent,
		Experience:         3,
		Skills:             json.RawMessage(`["Go"]`),
		AccessibilityNeeds: json.RawMessage(needs),
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) int {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestHandleGenerateUsesStoredAccessibilityNeeds(t *testing.T) {
	gateway := &captureGateway{}
	app, _ := assessmentTestApp(studentWithNeeds(`["neurodivergent"]`), gateway)

	status := postJSON(t, app, "/assessment/generate", models.AssessmentRequest{
		Domain: "Go",
		Level:  "intermediate",
	})
	assert.Equal(t, fiber.StatusOK, status)

	require.Len(t, gateway.prompts, 1)
	assert.Contains(t, gateway.prompts[0], "scenario")
	assert.Contains(t, gateway.prompts[0], "must not be speed-dependent or use time-boxed phrasing")
}

func TestHandleGenerateRequestModeOverridesStoredNeeds(t *testing.T) {
	gateway := &captureGateway{}
	app, _ := assessmentTestApp(studentWithNeeds(`["neurodivergent"]`), gateway)

	status := postJSON(t, app, "/assessment/generate", models.AssessmentRequest{
		Domain:            "Go",
		Level:             "intermediate",
		AccessibilityMode: "general",
	})
	assert.Equal(t, fiber.StatusOK, status)

	require.Len(t, gateway.prompts, 1)
	assert.NotContains(t, gateway.prompts[0], "must not be speed-dependent")
}

func TestHandleSubmitUsesStoredAccessibilityNeeds(t *testing.T) {
	gateway := &captureGateway{}
	app, repo := assessmentTestApp(studentWithNeeds(`["deaf"]`), gateway)

	status := postJSON(t, app, "/assessment/submit", models.SubmissionRequest{
		AssessmentID: repo.assessment.ID.String(),
		Answers:      []models.Answer{{QuestionID: 1, Text: "I would profile first."}},
	})
	assert.Equal(t, fiber.StatusOK, status)

	require.Len(t, gateway.prompts, 1)
	assert.Contains(t, gateway.prompts[0], "Do not penalize grammar")
	require.NotNil(t, repo.saved)
}

func TestAccessibilityModeFor(t *testing.T) {
	stored := studentWithNeeds(`["deaf"]`)
	assert.Equal(t, models.ModeDeaf, accessibilityModeFor(stored, ""))
	assert.Equal(t, models.ModeNeurodivergent, accessibilityModeFor(stored, "neurodivergent"))

	assert.Equal(t, models.ModeGeneral, accessibilityModeFor(studentWithNeeds(`[]`), ""))
	assert.Equal(t, models.ModeGeneral, accessibilityModeFor(studentWithNeeds(`{broken`), ""))
	assert.Equal(t, models.ModeGeneral, accessibilityModeFor(&models.User{}, ""))
}
