package model

// RoleCategory is the closed set of job families a participant is classified into
type RoleCategory string

const (
	CategorySoftwareEngineering RoleCategory = "Software Engineering"
	CategoryProductManagement   RoleCategory = "Product Management"
	CategoryProductDesign       RoleCategory = "Product Design/UX"
	CategoryMarketingGrowth     RoleCategory = "Marketing/Growth"
	CategoryCustomerSupportOps  RoleCategory = "Customer Support/Ops"
	CategoryLeadershipStrategy  RoleCategory = "Leadership/Strategy"
	CategoryOtherAdmin          RoleCategory = "Other/Admin"
)

// RoleCategories lists every category in prompt order
var RoleCategories = []RoleCategory{
	CategorySoftwareEngineering,
	CategoryProductManagement,
	CategoryProductDesign,
	CategoryMarketingGrowth,
	CategoryCustomerSupportOps,
	CategoryLeadershipStrategy,
	CategoryOtherAdmin,
}

// Valid reports whether c is one of RoleCategories
func (c RoleCategory) Valid() bool {
	for _, known := range RoleCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Report field defaults used whenever the completion service gives nothing usable
const (
	DefaultReadinessScore   = 50
	DefaultBenchmarkSummary = "AI readiness assessment completed."
	DefaultRecommendation   = "Consider exploring AI solutions for your workflow."
	DefaultStrength         = "Existing knowledge of business processes."
	DefaultWeakness         = "Limited AI exposure."
)

// AuditReport is the generated readiness assessment for one session
type AuditReport struct {
	ReadinessScore   int          `json:"readinessScore" bson:"readinessScore"`
	BenchmarkSummary string       `json:"benchmarkSummary" bson:"benchmarkSummary"`
	Recommendations  []string     `json:"recommendations" bson:"recommendations"`
	Strengths        []string     `json:"strengths" bson:"strengths"`
	Weaknesses       []string     `json:"weaknesses" bson:"weaknesses"`
	RoleCategory     RoleCategory `json:"roleCategory" bson:"roleCategory"`
}

// DefaultAuditReport returns the fallback report
func DefaultAuditReport() AuditReport {
	return AuditReport{
		ReadinessScore:   DefaultReadinessScore,
		BenchmarkSummary: DefaultBenchmarkSummary,
		Recommendations:  []string{DefaultRecommendation},
		Strengths:        []string{DefaultStrength},
		Weaknesses:       []string{DefaultWeakness},
		RoleCategory:     CategoryOtherAdmin,
	}
}
