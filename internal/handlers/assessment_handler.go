package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inclusiveai/skill-assessment/internal/models"
	"inclusiveai/skill-assessment/internal/repositories"
	"inclusiveai/skill-assessment/internal/services"
)

type AssessmentHandler struct {
	assessmentRepo repositories.AssessmentRepository
	userRepo       repositories.UserRepository
	crew           *services.HiringCrew
	questionCount  int
}

func NewAssessmentHandler(
	assessmentRepo repositories.AssessmentRepository,
	userRepo repositories.UserRepository,
	crew *services.HiringCrew,
	questionCount int,
) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
		crew:           crew,
		questionCount:  questionCount,
	}
}

// HandleGenerate handles POST /assessment/generate
func (h *AssessmentHandler) HandleGenerate(c *fiber.Ctx) error {
	identity := CurrentIdentity(c)

	var req models.AssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Domain == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "domain is required",
		})
	}
	if req.Level == "" {
		req.Level = "intermediate"
	}

	user, err := h.userRepo.FindByEmail(identity.Email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}

	rules := services.ResolveAccessibility(accessibilityModeFor(user, req.AccessibilityMode))

	// A missing or malformed skills column just means no known skills.
	var skills []string
	_ = json.Unmarshal(user.Skills, &skills)
	profile := models.CandidateProfile{
		Skills:          skills,
		ExperienceYears: user.Experience,
		SeniorityLevel:  "Mid",
	}

	questions, err := h.crew.DesignAssessment(
		c.Context(), profile, req.Domain, req.Level, rules, h.questionCount,
	)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to encode questions",
		})
	}

	assessment := &models.Assessment{
		ID:        uuid.New(),
		UserID:    user.ID,
		Domain:    req.Domain,
		Level:     req.Level,
		Questions: questionsJSON,
		CreatedAt: time.Now(),
	}
	if err := h.assessmentRepo.Create(assessment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save assessment",
		})
	}

	return c.JSON(models.AssessmentResponse{
		ID:        assessment.ID.String(),
		Questions: questions,
	})
}

// HandleSubmit handles POST /assessment/submit
func (h *AssessmentHandler) HandleSubmit(c *fiber.Ctx) error {
	identity := CurrentIdentity(c)

	var req models.SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	assessmentID, err := uuid.Parse(req.AssessmentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid assessment_id format",
		})
	}
	if len(req.Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "answers are required",
		})
	}

	assessment, err := h.assessmentRepo.FindByID(assessmentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "assessment not found",
		})
	}

	user, err := h.userRepo.FindByEmail(identity.Email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}

	rules := services.ResolveAccessibility(accessibilityModeFor(user, ""))

	result, err := h.crew.GradeSubmission(c.Context(), req.Answers, assessment.Domain, rules)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to encode answers",
		})
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to encode result",
		})
	}

	submission := &models.Submission{
		AssessmentID: assessment.ID,
		UserID:       user.ID,
		Answers:      answersJSON,
		Result:       resultJSON,
		CreatedAt:    time.Now(),
	}
	if err := h.assessmentRepo.CreateSubmission(submission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save submission",
		})
	}

	return c.JSON(result)
}

// accessibilityModeFor picks the effective mode for a request: an explicit
// override wins, otherwise the first accessibility need stored on the account,
// otherwise general. A missing or malformed needs column means none.
func accessibilityModeFor(user *models.User, override string) models.AccessibilityMode {
	if override != "" {
		return models.AccessibilityMode(override)
	}
	var needs []string
	if err := json.Unmarshal(user.AccessibilityNeeds, &needs); err == nil && len(needs) > 0 {
		return models.AccessibilityMode(needs[0])
	}
	return models.ModeGeneral
}
