package model

// ReportGenerateRequest is the session payload accepted by the report endpoint.
// The optional field texts are used where the transcript yields nothing.
type ReportGenerateRequest struct {
	UserID      string    `json:"userId"`
	EmployeeID  string    `json:"employeeId,omitempty"`
	InterviewID string    `json:"interviewId,omitempty"`
	UserName    string    `json:"userName,omitempty"`
	Role        string    `json:"role"`
	Department  string    `json:"department"`
	Seniority   string    `json:"seniority"`
	Location    string    `json:"location,omitempty"`
	Messages    []Message `json:"messages"`

	Responsibilities           string `json:"responsibilities,omitempty"`
	PainPoints                 string `json:"painPoints,omitempty"`
	CurrentTools               string `json:"currentTools,omitempty"`
	AIExposure                 string `json:"aiExposure,omitempty"`
	ChangeAppetite             string `json:"changeAppetite,omitempty"`
	TeamSize                   string `json:"teamSize,omitempty"`
	TimeSpentOnRepetitiveTasks string `json:"timeSpentOnRepetitiveTasks,omitempty"`
	MetricsUsed                string `json:"metricsUsed,omitempty"`
	ProcessMap                 string `json:"processMap,omitempty"`
	RootCauses                 string `json:"rootCauses,omitempty"`
	DataFlows                  string `json:"dataFlows,omitempty"`
	AIOpportunities            string `json:"aiOpportunities,omitempty"`
	Blockers                   string `json:"blockers,omitempty"`
}

// ReportGenerateResponse is the endpoint result
type ReportGenerateResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}
