package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	StatusQueued     ReportStatus = "queued"
	StatusProcessing ReportStatus = "processing"
	StatusCompleted  ReportStatus = "completed"
	StatusFailed     ReportStatus = "failed"
)

// Report is a queued hiring-report job. The candidate's raw identifier is
// kept only on the job row; the generated report carries the anonymized id.
type Report struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RequestedBy       uint            `gorm:"not null;index" json:"requested_by"`
	CandidateEmail    string          `gorm:"type:text;not null" json:"-"`
	ResumeText        string          `gorm:"type:text;not null" json:"-"`
	Domain            string          `gorm:"type:text" json:"domain"`
	AccessibilityMode string          `gorm:"type:text" json:"accessibility_mode"`
	Status            ReportStatus    `gorm:"not null;default:'queued'" json:"status"`
	Result            json.RawMessage `gorm:"type:jsonb" json:"result,omitempty"`
	ErrorMessage      *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Requester User `gorm:"foreignKey:RequestedBy" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}
