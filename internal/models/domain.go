package models

// AccessibilityMode is a caller-declared interaction category. It selects an
// evaluation configuration and is never stored as a diagnosis.
type AccessibilityMode string

const (
	ModeGeneral        AccessibilityMode = "general"
	ModeDeaf           AccessibilityMode = "deaf"
	ModeMute           AccessibilityMode = "mute"
	ModeNeurodivergent AccessibilityMode = "neurodivergent"
)

type TimePressure string

const (
	TimePressureNormal TimePressure = "normal"
	TimePressureNone   TimePressure = "none"
)

type QuestionStyle string

const (
	StyleText     QuestionStyle = "text"
	StyleVisual   QuestionStyle = "visual"
	StyleScenario QuestionStyle = "scenario"
)

type EvaluationRules struct {
	IgnoreGrammar       bool         `json:"ignore_grammar"`
	IgnoreSpeechLatency bool         `json:"ignore_speech_latency"`
	TimePressure        TimePressure `json:"time_pressure"`
}

type AccessibilityConfig struct {
	EvaluationRules        EvaluationRules `json:"evaluation_rules"`
	PreferredQuestionStyle QuestionStyle   `json:"preferred_question_style"`
}

// CandidateProfile is the resume analyst's output. It must never carry
// personally identifying fields.
type CandidateProfile struct {
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	SeniorityLevel  string   `json:"seniority_level"`
}

type Question struct {
	ID            int    `json:"id"`
	Text          string `json:"text"`
	SkillCategory string `json:"skill_category"`
	QuestionType  string `json:"question_type"`
	Difficulty    string `json:"difficulty"`
}

type Answer struct {
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
}

type SkillScore struct {
	Skill      string `json:"skill"`
	Percentage int    `json:"percentage"`
	Feedback   string `json:"feedback"`
}

type EvaluationResult struct {
	OverallScore    int          `json:"overall_score"`
	SkillScores     []SkillScore `json:"skill_scores"`
	SummaryFeedback string       `json:"summary_feedback"`
}

// HiringReport aggregates one full pipeline run. CandidateID is a one-way
// hash of the real identifier, never the identifier itself.
type HiringReport struct {
	CandidateID        string              `json:"candidate_id"`
	Domain             string              `json:"domain"`
	ResumeAnalysis     CandidateProfile    `json:"resume_analysis"`
	AccessibilityRules AccessibilityConfig `json:"accessibility_rules"`
	AssessmentPlan     []Question          `json:"assessment_plan"`
	Recommendations    []string            `json:"recommendations"`
}
