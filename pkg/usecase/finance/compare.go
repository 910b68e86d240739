package finance

import (
	"fmt"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// LoanChoice names a loan together with the metric it wins on
type LoanChoice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ComparisonResult ranks multiple loan scenarios
type ComparisonResult struct {
	LoanCount        int                   `json:"loan_count"`
	LowestTotalCost  LoanChoice            `json:"lowest_total_cost"`
	LowestMonthly    LoanChoice            `json:"lowest_monthly_payment"`
	LowestRisk       LoanChoice            `json:"lowest_risk"`
	AverageTotalCost float64               `json:"avg_total_cost"`
	AverageMonthly   float64               `json:"avg_monthly_payment"`
	AverageRisk      float64               `json:"avg_risk_score"`
	DetailedAnalyses []*AmortizationResult `json:"detailed_analyses"`
}

// Compare analyzes several loans and picks the best by total cost, monthly
// payment and risk score
func Compare(loans []*Loan) (*ComparisonResult, error) {
	if len(loans) < 2 {
		return nil, goerr.Wrap(model.ErrValidation, "at least 2 loans required for comparison",
			goerr.V("got", len(loans)))
	}

	analyses := make([]*AmortizationResult, 0, len(loans))
	for i, loan := range loans {
		if loan.Name == "" {
			loan.Name = defaultLoanName(i)
		}
		result, err := Amortize(loan)
		if err != nil {
			return nil, goerr.Wrap(err, "loan analysis failed", goerr.V("loan", loan.Name))
		}
		analyses = append(analyses, result)
	}

	best := &ComparisonResult{
		LoanCount:        len(analyses),
		DetailedAnalyses: analyses,
	}

	var sumCost, sumMonthly, sumRisk float64
	for i, a := range analyses {
		sumCost += a.TotalCost
		sumMonthly += a.MonthlyPayment
		sumRisk += a.Risk.Score

		if i == 0 || a.TotalCost < best.LowestTotalCost.Value {
			best.LowestTotalCost = LoanChoice{Name: a.Loan.Name, Value: a.TotalCost}
		}
		if i == 0 || a.MonthlyPayment < best.LowestMonthly.Value {
			best.LowestMonthly = LoanChoice{Name: a.Loan.Name, Value: a.MonthlyPayment}
		}
		if i == 0 || a.Risk.Score < best.LowestRisk.Value {
			best.LowestRisk = LoanChoice{Name: a.Loan.Name, Value: a.Risk.Score}
		}
	}

	n := float64(len(analyses))
	best.AverageTotalCost = round2(sumCost / n)
	best.AverageMonthly = round2(sumMonthly / n)
	best.AverageRisk = round1(sumRisk / n)
	return best, nil
}

func defaultLoanName(i int) string {
	return fmt.Sprintf("Loan %d", i+1)
}
