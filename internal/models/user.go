package models

import (
	"encoding/json"
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleHR      UserRole = "hr"
)

type User struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Email              string          `gorm:"type:text;uniqueIndex;not null" json:"email"`
	HashedPassword     string          `gorm:"type:text;not null" json:"-"`
	Role               UserRole        `gorm:"type:text;not null;default:'student'" json:"role"`
	FullName           string          `gorm:"type:text" json:"full_name"`
	Domain             string          `gorm:"type:text" json:"domain"`
	Experience         int             `gorm:"default:0" json:"experience"`
	Skills             json.RawMessage `gorm:"type:jsonb;default:'[]'" json:"skills"`
	AccessibilityNeeds json.RawMessage `gorm:"type:jsonb;default:'[]'" json:"accessibility_needs"`
	CreatedAt          time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
