package model

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Rank orders severities for sorting; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

type ViolationType string

var violationTypeLabels = map[ViolationType]string{
	"parenting_time_denial":        "Parenting Time Denial",
	"custody_interference":         "Custody Interference",
	"parental_alienation":          "Parental Alienation",
	"communication_blocking":       "Blocking Communication with Child",
	"false_allegations":            "False Allegations",
	"schedule_violation":           "Schedule/Order Violation",
	"late_pickup_dropoff":          "Late Pickup/Drop-off",
	"no_show":                      "No Show for Exchange",
	"child_support_nonpayment":     "Child Support Non-Payment",
	"child_support_late":           "Child Support Late Payment",
	"medical_decision_violation":   "Medical Decision Violation",
	"education_decision_violation": "Education Decision Violation",
	"relocation_violation":         "Unauthorized Relocation",
	"third_party_interference":     "Third Party Interference",
	"verbal_abuse":                 "Verbal Abuse/Harassment",
	"threats":                      "Threats/Intimidation",
	"badmouthing":                  "Badmouthing Parent to Child",
	"withholding_information":      "Withholding Information",
	"other":                        "Other Violation",
}

func (v ViolationType) Valid() bool {
	_, ok := violationTypeLabels[v]
	return ok
}

func (v ViolationType) Label() string {
	if l, ok := violationTypeLabels[v]; ok {
		return l
	}
	return string(v)
}

type Violation struct {
	ViolationID   string        `json:"violation_id"`
	Title         string        `json:"title"`
	ViolationType ViolationType `json:"violation_type"`
	Description   string        `json:"description"`
	Date          string        `json:"date"`
	Severity      Severity      `json:"severity"`
	Witnesses     string        `json:"witnesses"`
	EvidenceNotes string        `json:"evidence_notes"`
	CreatedAt     string        `json:"created_at,omitempty"`
}

type ViolationInput struct {
	Title         string        `json:"title"`
	ViolationType ViolationType `json:"violation_type"`
	Description   string        `json:"description"`
	Date          string        `json:"date"`
	Severity      Severity      `json:"severity"`
	Witnesses     string        `json:"witnesses"`
	EvidenceNotes string        `json:"evidence_notes"`
}

func (in *ViolationInput) Validate() error {
	if err := required("title", in.Title); err != nil {
		return err
	}
	if err := required("description", in.Description); err != nil {
		return err
	}
	if _, err := checkDate("date", in.Date); err != nil {
		return err
	}
	if err := checkEnum("violation_type", in.ViolationType, ViolationType.Valid); err != nil {
		return err
	}
	if in.Severity == "" {
		in.Severity = SeverityMedium
	}
	return checkEnum("severity", in.Severity, Severity.Valid)
}
