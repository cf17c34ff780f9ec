package services

import (
	"fmt"

	"github.com/lqviet/folio/internal/models"
)

// RiskServiceImpl derives the six-dimension risk fingerprint from the current
// asset allocation. Every score is a deterministic weighted formula over the
// per-type percentages; nothing here is randomized or fitted.
//
// Geography and sector are proxy dimensions: no real geographic or sector
// classification data is available, so they are approximated from the asset
// type mix. The interpretation text is tuned to these exact thresholds.
type RiskServiceImpl struct {
	portfolio PortfolioService
}

// NewRiskService creates a risk service using the given valuation engine for
// allocation percentages
func NewRiskService(portfolio PortfolioService) *RiskServiceImpl {
	return &RiskServiceImpl{portfolio: portfolio}
}

const emptyPortfolioDescription = "Add assets to see this dimension"

// Dimension keys and labels, in fixed display order
var riskDimensionOrder = []struct {
	key   string
	label string
}{
	{"concentration", "Concentration"},
	{"geography", "Geography"},
	{"sector", "Sector"},
	{"volatility", "Volatility"},
	{"liquidity", "Liquidity"},
	{"income_growth", "Income vs Growth"},
}

// typePercents is the allocation normalized to 0-100 per asset type
type typePercents map[models.AssetType]float64

func (p typePercents) of(t models.AssetType) float64 { return p[t] }

// CalculateRiskFingerprint scores the portfolio across six risk dimensions
// and composes the interpretation sentence and badges. An empty portfolio is
// a valid input: all dimensions score 0 with a placeholder description and a
// neutral overall level.
func (s *RiskServiceImpl) CalculateRiskFingerprint(assets []*models.Asset) *models.RiskFingerprint {
	if len(assets) == 0 {
		return s.emptyFingerprint()
	}

	summary := s.portfolio.Summary(assets)
	percents := typePercents(summary.AllocationPercent())
	hasIncomeAsset := false
	for _, asset := range assets {
		if asset.HasIncome() {
			hasIncomeAsset = true
			break
		}
	}

	scores := map[string]float64{
		"concentration": concentrationScore(percents),
		"geography":     geographyScore(percents),
		"sector":        sectorScore(percents),
		"volatility":    volatilityScore(percents),
		"liquidity":     liquidityScore(percents),
		"income_growth": incomeGrowthScore(percents, hasIncomeAsset),
	}

	dimensions := make([]models.RiskDimension, 0, len(riskDimensionOrder))
	total := 0.0
	for _, d := range riskDimensionOrder {
		score := scores[d.key]
		total += score
		dimensions = append(dimensions, models.RiskDimension{
			Key:         d.key,
			Label:       d.label,
			Score:       score,
			Description: describeDimension(d.key, score),
		})
	}

	return &models.RiskFingerprint{
		Dimensions:       dimensions,
		Interpretation:   interpret(scores, percents, hasIncomeAsset),
		Badges:           badges(scores, percents, hasIncomeAsset),
		OverallRiskLevel: overallLevel(total / float64(len(dimensions))),
	}
}

func (s *RiskServiceImpl) emptyFingerprint() *models.RiskFingerprint {
	dimensions := make([]models.RiskDimension, 0, len(riskDimensionOrder))
	for _, d := range riskDimensionOrder {
		dimensions = append(dimensions, models.RiskDimension{
			Key:         d.key,
			Label:       d.label,
			Score:       0,
			Description: emptyPortfolioDescription,
		})
	}
	return &models.RiskFingerprint{
		Dimensions:       dimensions,
		Interpretation:   "Add assets to your portfolio to see its risk fingerprint.",
		Badges:           []string{},
		OverallRiskLevel: models.RiskLevelModerate,
	}
}

// concentrationScore buckets on the single largest type's share
func concentrationScore(p typePercents) float64 {
	largest := 0.0
	for _, pct := range p {
		if pct > largest {
			largest = pct
		}
	}
	switch {
	case largest > 70:
		return 85
	case largest > 50:
		return 60
	case largest > 30:
		return 35
	default:
		return 15
	}
}

// geographyScore is a proxy: no per-asset country data exists, so regional
// concentration is inferred from the asset type mix.
func geographyScore(p typePercents) float64 {
	weighted := p.of(models.AssetTypeStock) +
		0.6*p.of(models.AssetTypeCrypto) +
		0.8*p.of(models.AssetTypeFixedIncome)
	switch {
	case weighted > 70:
		return 80
	case weighted > 50:
		return 55
	case weighted > 30:
		return 30
	default:
		return 15
	}
}

// sectorScore is a proxy built from stock and crypto weight
func sectorScore(p typePercents) float64 {
	weighted := 0.7*p.of(models.AssetTypeStock) + p.of(models.AssetTypeCrypto)
	switch {
	case weighted > 60:
		return 75
	case weighted > 40:
		return 50
	case weighted > 20:
		return 30
	default:
		return 20
	}
}

func volatilityScore(p typePercents) float64 {
	weighted := p.of(models.AssetTypeCrypto) +
		0.6*p.of(models.AssetTypeStock) +
		0.5*p.of(models.AssetTypeCommodity) -
		(0.1*p.of(models.AssetTypeCash) +
			0.2*p.of(models.AssetTypeFixedIncome) +
			0.3*p.of(models.AssetTypeRealEstate))
	switch {
	case weighted > 60:
		return 85
	case weighted > 40:
		return 65
	case weighted > 20:
		return 40
	default:
		return 20
	}
}

// liquidityScore is continuous rather than bucketed: higher means the
// portfolio can be unwound faster.
func liquidityScore(p typePercents) float64 {
	score := p.of(models.AssetTypeCash) +
		0.9*p.of(models.AssetTypeStock) +
		0.8*p.of(models.AssetTypeCrypto) -
		0.5*(p.of(models.AssetTypeRealEstate)+
			0.6*p.of(models.AssetTypeCommodity)+
			0.4*p.of(models.AssetTypeFixedIncome))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Growth types chase appreciation; income types carry recurring cash flow.
func growthPercent(p typePercents) float64 {
	return p.of(models.AssetTypeStock) + p.of(models.AssetTypeCrypto)
}

func incomePercent(p typePercents) float64 {
	return p.of(models.AssetTypeFixedIncome) + p.of(models.AssetTypeRealEstate)
}

func incomeGrowthScore(p typePercents, hasIncomeAsset bool) float64 {
	growth := growthPercent(p)
	switch {
	case growth > 70 && !hasIncomeAsset:
		return 85
	case growth > 50:
		return 65
	case incomePercent(p) > 50:
		return 25
	default:
		return 50
	}
}

// describeDimension picks the short description for a dimension by score.
// The thresholds here were authored independently of the scoring buckets and
// do not line up at every boundary; that asymmetry is intentional smoothing
// of the display text, so keep the two tables separate.
func describeDimension(key string, score float64) string {
	switch key {
	case "concentration":
		switch {
		case score > 60:
			return "Heavily concentrated in a single asset class"
		case score > 30:
			return "Moderately diversified across asset classes"
		default:
			return "Well diversified across asset classes"
		}
	case "geography":
		switch {
		case score > 65:
			return "Largely tied to a single market region"
		case score > 35:
			return "Some geographic spread through mixed holdings"
		default:
			return "Broad implied geographic spread"
		}
	case "sector":
		switch {
		case score > 55:
			return "Concentrated in a narrow set of sectors"
		case score > 25:
			return "Moderate sector spread"
		default:
			return "Wide sector spread"
		}
	case "volatility":
		switch {
		case score > 60:
			return "High expected swings in portfolio value"
		case score > 35:
			return "Moderate expected swings in portfolio value"
		default:
			return "Low expected swings in portfolio value"
		}
	case "liquidity":
		switch {
		case score > 70:
			return "Most holdings can be sold quickly"
		case score > 40:
			return "A mix of liquid and illiquid holdings"
		default:
			return "Largely illiquid holdings"
		}
	case "income_growth":
		switch {
		case score > 70:
			return "Strongly growth-oriented with little income"
		case score > 45:
			return "Tilted toward growth over income"
		default:
			return "Balanced or income-oriented"
		}
	default:
		return ""
	}
}

// interpret composes the one-sentence summary from four of the six scores
// plus a direct income/real-estate percentage check
func interpret(scores map[string]float64, p typePercents, hasIncomeAsset bool) string {
	growthType := "balanced"
	switch {
	case scores["income_growth"] > 60:
		growthType = "growth-focused"
	case scores["income_growth"] < 40:
		growthType = "income-focused"
	}

	geoFocus := "geographically mixed"
	if scores["geography"] > 50 {
		geoFocus = "concentrated in one region"
	}

	volatilityLevel := "stable"
	switch {
	case scores["volatility"] > 60:
		volatilityLevel = "highly volatile"
	case scores["volatility"] > 35:
		volatilityLevel = "moderately volatile"
	}

	incomeProtection := "little income protection"
	switch {
	case incomePercent(p) > 30 || hasIncomeAsset:
		incomeProtection = "solid income protection"
	case incomePercent(p) > 10:
		incomeProtection = "some income protection"
	}

	return fmt.Sprintf("Your portfolio is %s, %s, and %s with %s.",
		growthType, geoFocus, volatilityLevel, incomeProtection)
}

// badges emits up to four short labels in fixed priority order
func badges(scores map[string]float64, p typePercents, hasIncomeAsset bool) []string {
	out := make([]string, 0, 6)

	switch {
	case growthPercent(p) > 50:
		out = append(out, "Growth Focused")
	case incomePercent(p) > 50 || hasIncomeAsset:
		out = append(out, "Income Focused")
	}

	if scores["geography"] > 70 {
		out = append(out, "Single Market")
	}

	switch {
	case scores["liquidity"] > 70:
		out = append(out, "High Liquidity")
	case scores["liquidity"] < 40:
		out = append(out, "Low Liquidity")
	default:
		out = append(out, "Medium Liquidity")
	}

	switch {
	case scores["volatility"] > 60:
		out = append(out, "High Risk")
	case scores["volatility"] < 25:
		out = append(out, "Conservative")
	}

	if p.of(models.AssetTypeCrypto) > 20 {
		out = append(out, "Crypto Exposure")
	}
	if p.of(models.AssetTypeRealEstate) > 30 {
		out = append(out, "Real Estate Heavy")
	}

	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

func overallLevel(avg float64) string {
	switch {
	case avg > 60:
		return models.RiskLevelAggressive
	case avg < 35:
		return models.RiskLevelConservative
	default:
		return models.RiskLevelModerate
	}
}
