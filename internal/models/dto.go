package models

// Auth

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type ProfileUpdateRequest struct {
	FullName           *string   `json:"full_name,omitempty"`
	Domain             *string   `json:"domain,omitempty"`
	Experience         *int      `json:"experience,omitempty"`
	Skills             *[]string `json:"skills,omitempty"`
	AccessibilityNeeds *[]string `json:"accessibility_needs,omitempty"`
}

// Assessment

type AssessmentRequest struct {
	Domain            string `json:"domain"`
	Level             string `json:"level"`
	AccessibilityMode string `json:"accessibility_mode"`
}

type AssessmentResponse struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

type SubmissionRequest struct {
	AssessmentID string   `json:"assessment_id"`
	Answers      []Answer `json:"answers"`
}

// HR

type ResumeUpload struct {
	Text string `json:"text"`
}

type ExtractedSkills struct {
	Skills         []string `json:"skills"`
	SuggestedLevel string   `json:"suggested_level"`
}

type ReportRequest struct {
	CandidateEmail    string `json:"candidate_email"`
	ResumeText        string `json:"resume_text"`
	Domain            string `json:"domain"`
	AccessibilityMode string `json:"accessibility_mode"`
}

type ReportResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ReportResultResponse struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Report       *HiringReport `json:"report,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
}
