package finance

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Investment is one holding in a portfolio
type Investment struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Cost  float64 `json:"cost"`
}

// AssetBreakdown aggregates holdings of one asset type
type AssetBreakdown struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PortfolioResult is the risk and diversification analysis of a portfolio
type PortfolioResult struct {
	PortfolioValue  float64          `json:"portfolio_value"`
	PortfolioCost   float64          `json:"portfolio_cost"`
	PortfolioGain   float64          `json:"portfolio_gain"`
	PortfolioReturn float64          `json:"portfolio_return"`
	RiskLevel       string           `json:"risk_level"`
	RiskScore       float64          `json:"risk_score"`
	Diversification int              `json:"diversification_score"`
	Recommendation  string           `json:"recommendation"`
	AssetBreakdown  []AssetBreakdown `json:"asset_breakdown"`
}

// riskWeights maps asset classes to relative volatility weights
var riskWeights = map[string]float64{
	"stocks":      0.8,
	"bonds":       0.3,
	"crypto":      1.2,
	"real_estate": 0.5,
	"cash":        0.1,
}

const defaultRiskWeight = 0.7

// AnalyzePortfolio computes gain, value-weighted risk and a simple
// diversification score for a set of investments
func AnalyzePortfolio(investments []Investment) (*PortfolioResult, error) {
	if len(investments) == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "no investments provided")
	}

	var totalValue, totalCost float64
	for _, inv := range investments {
		if inv.Value < 0 || inv.Cost < 0 {
			return nil, goerr.Wrap(model.ErrValidation, "investment value and cost cannot be negative",
				goerr.V("type", inv.Type))
		}
		totalValue += inv.Value
		totalCost += inv.Cost
	}

	gain := totalValue - totalCost
	ret := 0.0
	if totalCost > 0 {
		ret = gain / totalCost * 100
	}

	var weightedRisk float64
	byType := map[string]*AssetBreakdown{}
	var order []string

	for _, inv := range investments {
		assetType := strings.ToLower(inv.Type)
		if assetType == "" {
			assetType = "stocks"
		}

		weight := 0.0
		if totalValue > 0 {
			weight = inv.Value / totalValue
		}
		riskFactor, ok := riskWeights[assetType]
		if !ok {
			riskFactor = defaultRiskWeight
		}
		weightedRisk += weight * riskFactor

		if _, ok := byType[assetType]; !ok {
			byType[assetType] = &AssetBreakdown{Type: assetType}
			order = append(order, assetType)
		}
		byType[assetType].Count++
		byType[assetType].Value += inv.Value
	}

	riskLevel := "low"
	switch {
	case weightedRisk >= 0.7:
		riskLevel = "high"
	case weightedRisk >= 0.4:
		riskLevel = "medium"
	}

	diversification := len(byType) * 20
	if diversification > 100 {
		diversification = 100
	}

	recommendation := "consider more diversification"
	if diversification >= 80 {
		recommendation = "well diversified"
	}

	breakdown := make([]AssetBreakdown, 0, len(order))
	for _, assetType := range order {
		b := byType[assetType]
		b.Value = round2(b.Value)
		if totalValue > 0 {
			b.Percentage = round1(b.Value / totalValue * 100)
		}
		breakdown = append(breakdown, *b)
	}

	return &PortfolioResult{
		PortfolioValue:  round2(totalValue),
		PortfolioCost:   round2(totalCost),
		PortfolioGain:   round2(gain),
		PortfolioReturn: round2(ret),
		RiskLevel:       riskLevel,
		RiskScore:       round1(weightedRisk * 100),
		Diversification: diversification,
		Recommendation:  fmt.Sprintf("portfolio has %s risk, %s", riskLevel, recommendation),
		AssetBreakdown:  breakdown,
	}, nil
}
