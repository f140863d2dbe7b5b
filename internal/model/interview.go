package model

import "time"

// InterviewType tags every audit document
const InterviewType = "AI Readiness"

// Participant holds the profile fields collected before the interview
type Participant struct {
	UserID     string `json:"userId" bson:"userId"`
	UserName   string `json:"userName" bson:"userName"`
	JobTitle   string `json:"role" bson:"role"`
	Department string `json:"department" bson:"department"`
	Seniority  string `json:"seniority" bson:"seniority"`
	Location   string `json:"location" bson:"location"`
}

// InterviewDocument is the single persisted record of a processed session.
// It is written once and never updated.
type InterviewDocument struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	InterviewID      string         `json:"interviewId" bson:"interviewId"`
	UserID           string         `json:"userId" bson:"userId"`
	Role             string         `json:"role" bson:"role"`
	Department       string         `json:"department" bson:"department"`
	Seniority        string         `json:"seniority" bson:"seniority"`
	Location         string         `json:"location" bson:"location"`
	Messages         []Message      `json:"messages" bson:"messages"`
	Insights         InsightSet     `json:"insights" bson:"insights"`
	StructuredData   StructuredData `json:"structuredData" bson:"structuredData"`
	ExtractorVersion int            `json:"extractorVersion" bson:"extractorVersion"`

	AuditReport `bson:",inline"`

	Finalized bool      `json:"finalized" bson:"finalized"`
	Type      string    `json:"type" bson:"type"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// NewInterviewDocument assembles the document from a finished pipeline run
func NewInterviewDocument(interviewID string, p Participant, messages []Message, insights InsightSet, version int, report AuditReport, finalized bool) *InterviewDocument {
	if messages == nil {
		messages = []Message{}
	}
	return &InterviewDocument{
		InterviewID:      interviewID,
		UserID:           p.UserID,
		Role:             p.JobTitle,
		Department:       p.Department,
		Seniority:        p.Seniority,
		Location:         p.Location,
		Messages:         messages,
		Insights:         insights,
		StructuredData:   insights.StructuredData(),
		ExtractorVersion: version,
		AuditReport:      report,
		Finalized:        finalized,
		Type:             InterviewType,
		CreatedAt:        time.Now().UTC(),
	}
}

// Feedback is the read view rendered on the feedback page
type Feedback struct {
	InterviewID     string       `json:"interviewId"`
	UserID          string       `json:"userId"`
	TotalScore      int          `json:"totalScore"`
	Benchmark       string       `json:"benchmark"`
	Recommendations []string     `json:"recommendations"`
	Strengths       []string     `json:"strengths"`
	Weaknesses      []string     `json:"weaknesses"`
	RoleCategory    RoleCategory `json:"roleCategory"`
	CreatedAt       time.Time    `json:"createdAt"`

	// Standing is set when the leaderboard is available
	Standing *PeerStanding `json:"standing,omitempty"`
}

// InterviewStats are the admin dashboard counters
type InterviewStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// PeerStanding places one interview among finalized peers of its role category
type PeerStanding struct {
	Category       RoleCategory `json:"category"`
	Rank           int64        `json:"rank"`
	Peers          int64        `json:"peers"`
	AheadOfPercent int          `json:"aheadOfPercent"`
}
