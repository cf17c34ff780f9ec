package models

// RiskDimension is one scored axis (0-100) of the portfolio risk profile
type RiskDimension struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// Overall risk levels derived from the average dimension score
const (
	RiskLevelConservative = "Conservative"
	RiskLevelModerate     = "Moderate"
	RiskLevelAggressive   = "Aggressive"
)

// RiskFingerprint is the full six-dimension risk profile plus the
// human-readable interpretation and badges shown in the UI
type RiskFingerprint struct {
	Dimensions       []RiskDimension `json:"dimensions"`
	Interpretation   string          `json:"interpretation"`
	Badges           []string        `json:"badges"`
	OverallRiskLevel string          `json:"overall_risk_level"`
}
