package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inclusiveai/skill-assessment/internal/models"
)

type AssessmentRepository interface {
	Create(assessment *models.Assessment) error
	FindByID(id uuid.UUID) (*models.Assessment, error)
	CreateSubmission(submission *models.Submission) error
	FindSubmissionsByUser(userID uint) ([]models.Submission, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(assessment *models.Assessment) error {
	if err := r.db.Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepository) FindByID(id uuid.UUID) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.Where("id = ?", id).First(&assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment not found")
		}
		return nil, fmt.Errorf("failed to find assessment: %w", err)
	}
	return &assessment, nil
}

func (r *assessmentRepository) CreateSubmission(submission *models.Submission) error {
	if err := r.db.Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *assessmentRepository) FindSubmissionsByUser(userID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	return submissions, nil
}
