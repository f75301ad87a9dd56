package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Assessment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Domain    string          `gorm:"type:text" json:"domain"`
	Level     string          `gorm:"type:text" json:"level"`
	Questions json.RawMessage `gorm:"type:jsonb;default:'[]'" json:"questions"`
	CreatedAt time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Owner User `gorm:"foreignKey:UserID" json:"-"`
}

func (Assessment) TableName() string {
	return "assessments"
}

type Submission struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AssessmentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"assessment_id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Answers      json.RawMessage `gorm:"type:jsonb;default:'[]'" json:"answers"`
	Result       json.RawMessage `gorm:"type:jsonb;default:'{}'" json:"result"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Owner      User       `gorm:"foreignKey:UserID" json:"-"`
	Assessment Assessment `gorm:"foreignKey:AssessmentID" json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}
