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

type HRHandler struct {
	reportRepo     repositories.ReportRepository
	userRepo       repositories.UserRepository
	crew           *services.HiringCrew
	worker         services.Worker
	storageService services.StorageService
	pdfParser      services.PDFParserService
	maxFileSize    int64
}

func NewHRHandler(
	reportRepo repositories.ReportRepository,
	userRepo repositories.UserRepository,
	crew *services.HiringCrew,
	worker services.Worker,
	storageService services.StorageService,
	pdfParser services.PDFParserService,
	maxFileSize int64,
) *HRHandler {
	return &HRHandler{
		reportRepo:     reportRepo,
		userRepo:       userRepo,
		crew:           crew,
		worker:         worker,
		storageService: storageService,
		pdfParser:      pdfParser,
		maxFileSize:    maxFileSize,
	}
}

// HandleParseResume handles POST /hr/parse_resume
func (h *HRHandler) HandleParseResume(c *fiber.Ctx) error {
	var req models.ResumeUpload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume text is required",
		})
	}

	profile := h.crew.AnalyzeProfile(c.Context(), req.Text, "General")

	return c.JSON(models.ExtractedSkills{
		Skills:         profile.Skills,
		SuggestedLevel: suggestedLevel(profile.SeniorityLevel),
	})
}

// HandleUploadResume handles POST /hr/upload_resume: stores the PDF,
// extracts its text, and runs the same analysis as parse_resume.
func (h *HRHandler) HandleUploadResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file too large",
		})
	}

	filename, filePath, err := h.storageService.SaveResume(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	text, err := h.pdfParser.ExtractText(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to extract text from PDF",
		})
	}

	profile := h.crew.AnalyzeProfile(c.Context(), text, "General")

	return c.JSON(models.ExtractedSkills{
		Skills:         profile.Skills,
		SuggestedLevel: suggestedLevel(profile.SeniorityLevel),
	})
}

// HandleCreateReport handles POST /hr/reports
func (h *HRHandler) HandleCreateReport(c *fiber.Ctx) error {
	identity := CurrentIdentity(c)

	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.CandidateEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_email is required",
		})
	}
	if req.ResumeText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text is required",
		})
	}

	user, err := h.userRepo.FindByEmail(identity.Email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}

	report := &models.Report{
		ID:                uuid.New(),
		RequestedBy:       user.ID,
		CandidateEmail:    req.CandidateEmail,
		ResumeText:        req.ResumeText,
		Domain:            req.Domain,
		AccessibilityMode: req.AccessibilityMode,
		Status:            models.StatusQueued,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := h.reportRepo.Create(report); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create report job",
		})
	}

	h.worker.EnqueueJob(report.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.ReportResponse{
		ID:     report.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetReport handles GET /hr/reports/:id
func (h *HRHandler) HandleGetReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid report ID format",
		})
	}

	report, err := h.reportRepo.FindByID(reportID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "report not found",
		})
	}

	response := models.ReportResultResponse{
		ID:     report.ID.String(),
		Status: string(report.Status),
	}

	if report.Status == models.StatusCompleted && len(report.Result) > 0 {
		var hiringReport models.HiringReport
		if err := json.Unmarshal(report.Result, &hiringReport); err == nil {
			response.Report = &hiringReport
		}
	}
	if report.Status == models.StatusFailed {
		response.ErrorMessage = report.ErrorMessage
	}

	return c.JSON(response)
}

func suggestedLevel(seniority string) string {
	switch seniority {
	case "Junior":
		return "beginner"
	case "Senior":
		return "expert"
	default:
		return "intermediate"
	}
}
