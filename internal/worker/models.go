package worker

import (
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumatch/internal/database"
	"github.com/muhammadolammi/resumatch/internal/resume"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Resume upload_status values written after analysis.
const (
	ResumeAnalyzed = "analyzed"
	ResumeFailed   = "failed"
)

type AnalysesResult struct {
	ResumeID       uuid.UUID          `json:"resume_id"`
	Filename       string             `json:"filename"`
	CandidateName  string             `json:"candidate_name"`
	CandidateEmail string             `json:"candidate_email"`
	Record         *resume.Record     `json:"record,omitempty"`
	MatchScore     int                `json:"match_score"`
	SkillsMatch    map[string]float64 `json:"skills_match,omitempty"`
	// Error result entry
	IsErrorResult bool   `json:"is_error_result"`
	Error         string `json:"error,omitempty"`
}

type AnalysesResults struct {
	SessionID uuid.UUID        `json:"session_id"`
	Results   []AnalysesResult `json:"results"`
}

// Session is the queue message. Only ID is required; the rest is loaded
// from the database when the job description is missing.
type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
}

func sessionFromRow(row database.Session) Session {
	return Session{
		ID:             row.ID,
		CreatedAt:      row.CreatedAt,
		Name:           row.Name,
		UserID:         row.UserID,
		Status:         row.Status,
		JobTitle:       row.JobTitle,
		JobDescription: row.JobDescription,
	}
}

// StatusUpdate is published to the session updates exchange.
type StatusUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
