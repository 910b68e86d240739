package finance

import (
	"math"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Withdrawal rate of the common 4% rule
const safeWithdrawalRate = 0.04

// RetirementInput are the projection parameters
type RetirementInput struct {
	CurrentAge          int     `json:"current_age"`
	RetirementAge       int     `json:"retirement_age"`
	CurrentSavings      float64 `json:"current_savings"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	ExpectedReturn      float64 `json:"expected_return"` // annual percentage
}

// Milestone is the projected balance at one point before retirement
type Milestone struct {
	Year          int     `json:"year"`
	Age           int     `json:"age"`
	TotalSavings  float64 `json:"total_savings"`
	MonthlyIncome float64 `json:"monthly_income_potential"`
}

// RetirementResult is the savings projection
type RetirementResult struct {
	YearsToRetirement int         `json:"years_to_retirement"`
	TotalSavings      float64     `json:"total_retirement_savings"`
	MonthlyIncome     float64     `json:"monthly_retirement_income"`
	AnnualIncome      float64     `json:"annual_retirement_income"`
	FromSavings       float64     `json:"from_current_savings"`
	FromContributions float64     `json:"from_contributions"`
	InvestmentGrowth  float64     `json:"investment_growth"`
	Milestones        []Milestone `json:"milestones"`
	Readiness         string      `json:"retirement_readiness"`
}

// PlanRetirement projects future savings from current balance plus monthly
// contributions at the expected annual return
func PlanRetirement(input *RetirementInput) (*RetirementResult, error) {
	years := input.RetirementAge - input.CurrentAge
	if years <= 0 {
		return nil, goerr.Wrap(model.ErrValidation, "retirement age must be greater than current age",
			goerr.V("current_age", input.CurrentAge), goerr.V("retirement_age", input.RetirementAge))
	}
	if input.CurrentSavings < 0 || input.MonthlyContribution < 0 {
		return nil, goerr.Wrap(model.ErrValidation, "savings and contributions cannot be negative")
	}
	if input.ExpectedReturn < 0 {
		return nil, goerr.Wrap(model.ErrValidation, "expected return cannot be negative",
			goerr.V("expected_return", input.ExpectedReturn))
	}

	annualReturn := input.ExpectedReturn / 100
	fromSavings := projectSavings(input.CurrentSavings, annualReturn, years)
	fromContributions := projectContributions(input.MonthlyContribution, annualReturn, years)
	total := fromSavings + fromContributions

	monthlyIncome := total * safeWithdrawalRate / 12
	contributed := input.MonthlyContribution * float64(years) * 12

	var milestones []Milestone
	for _, year := range []int{5, 10, 15, 20, 25} {
		if year > years {
			break
		}
		atYear := projectSavings(input.CurrentSavings, annualReturn, year) +
			projectContributions(input.MonthlyContribution, annualReturn, year)
		milestones = append(milestones, Milestone{
			Year:          year,
			Age:           input.CurrentAge + year,
			TotalSavings:  round2(atYear),
			MonthlyIncome: round2(atYear * safeWithdrawalRate / 12),
		})
	}

	readiness := "needs improvement"
	switch {
	case monthlyIncome > 5000:
		readiness = "excellent"
	case monthlyIncome > 3000:
		readiness = "good"
	}

	return &RetirementResult{
		YearsToRetirement: years,
		TotalSavings:      round2(total),
		MonthlyIncome:     round2(monthlyIncome),
		AnnualIncome:      round2(monthlyIncome * 12),
		FromSavings:       round2(fromSavings),
		FromContributions: round2(fromContributions),
		InvestmentGrowth:  round2(fromContributions - contributed),
		Milestones:        milestones,
		Readiness:         readiness,
	}, nil
}

func projectSavings(balance, annualReturn float64, years int) float64 {
	return balance * math.Pow(1+annualReturn, float64(years))
}

// projectContributions is the future value of a monthly annuity
func projectContributions(monthly, annualReturn float64, years int) float64 {
	monthlyReturn := annualReturn / 12
	months := years * 12
	if monthlyReturn == 0 {
		return monthly * float64(months)
	}
	return monthly * (math.Pow(1+monthlyReturn, float64(months)) - 1) / monthlyReturn
}
