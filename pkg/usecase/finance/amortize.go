package finance

import (
	"fmt"
)

// Payment is one row of an amortization schedule
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	Balance            float64 `json:"balance"`
	CumulativeInterest float64 `json:"cumulative_interest"`
}

// RiskAssessment scores a loan by term, rate and size
type RiskAssessment struct {
	Score   float64  `json:"score"`
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

// AmortizationResult is the full analysis of one loan
type AmortizationResult struct {
	Loan            Loan           `json:"loan_info"`
	MonthlyPayment  float64        `json:"monthly_payment"`
	TotalInterest   float64        `json:"total_interest"`
	TotalCost       float64        `json:"total_cost"`
	InterestSavings float64        `json:"interest_savings"`
	MonthsSaved     int            `json:"months_saved"`
	YearsSaved      float64        `json:"years_saved"`
	TotalPayments   int            `json:"total_payments"`
	FirstYear       []Payment      `json:"schedule"`
	Risk            RiskAssessment `json:"risk_assessment"`
	Recommendations []string       `json:"recommendations"`
}

// Amortize builds the complete payment schedule for a loan, including the
// effect of extra principal payments
func Amortize(loan *Loan) (*AmortizationResult, error) {
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	monthlyRate := loan.Rate / 100 / 12
	numPayments := loan.Years * 12
	payment := monthlyPayment(loan.Principal, monthlyRate, numPayments)

	var schedule []Payment
	balance := loan.Principal
	totalInterest := 0.0

	for month := 1; month <= numPayments && balance > 0.01; month++ {
		interest := balance * monthlyRate
		principal := payment - interest + loan.ExtraPayment
		if principal > balance {
			principal = balance
		}
		balance -= principal
		totalInterest += interest

		schedule = append(schedule, Payment{
			Month:              month,
			Payment:            round2(payment + loan.ExtraPayment),
			Principal:          round2(principal),
			Interest:           round2(interest),
			Balance:            round2(balance),
			CumulativeInterest: round2(totalInterest),
		})
	}

	standardTotalInterest := payment*float64(numPayments) - loan.Principal
	monthsSaved := numPayments - len(schedule)

	firstYear := schedule
	if len(firstYear) > 12 {
		firstYear = firstYear[:12]
	}

	risk := assessRisk(loan, payment)

	return &AmortizationResult{
		Loan:            *loan,
		MonthlyPayment:  round2(payment),
		TotalInterest:   round2(totalInterest),
		TotalCost:       round2(loan.Principal + totalInterest),
		InterestSavings: round2(standardTotalInterest - totalInterest),
		MonthsSaved:     monthsSaved,
		YearsSaved:      round1(float64(monthsSaved) / 12),
		TotalPayments:   len(schedule),
		FirstYear:       firstYear,
		Risk:            risk,
		Recommendations: recommend(risk.Score, loan),
	}, nil
}

func assessRisk(loan *Loan, payment float64) RiskAssessment {
	var factors []string
	score := 0.0

	switch {
	case loan.Years > 30:
		factors = append(factors, "very long loan term")
		score += 20
	case loan.Years > 15:
		factors = append(factors, "long loan term")
		score += 10
	}

	switch {
	case loan.Rate > 8:
		factors = append(factors, "high interest rate")
		score += 20
	case loan.Rate > 5:
		factors = append(factors, "moderate interest rate")
		score += 10
	}

	if loan.Principal > 500000 {
		factors = append(factors, "large loan amount")
		score += 15
	}

	level := "low"
	switch {
	case score > 40:
		level = "high"
	case score > 20:
		level = "moderate"
	}

	return RiskAssessment{Score: score, Level: level, Factors: factors}
}

func recommend(riskScore float64, loan *Loan) []string {
	var recs []string

	if riskScore > 40 {
		recs = append(recs, "consider refinancing to reduce risk factors")
	}
	if loan.ExtraPayment == 0 && loan.Rate > 4 {
		recs = append(recs, "consider extra principal payments to save on interest")
	}
	if loan.Years > 20 {
		recs = append(recs, "a shorter loan term would reduce total interest")
	}
	if loan.Rate > 6 {
		recs = append(recs, "shop around for a better interest rate")
	}
	if loan.ExtraPayment > 0 {
		recs = append(recs, fmt.Sprintf("extra payments of %.2f will save significant interest", loan.ExtraPayment))
	}
	if len(recs) == 0 {
		recs = append(recs, "this appears to be a well-structured loan")
	}
	return recs
}
