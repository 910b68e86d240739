// Package finance implements the loan, portfolio and retirement
// calculators. All operations are pure request/response: structured input
// in, structured result out, validation failures reported as errors for
// the boundary to convert.
package finance

import (
	"math"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	maxPrincipal = 10_000_000
	maxRate      = 50
	maxYears     = 50
)

// Loan describes one loan scenario
type Loan struct {
	Name         string  `json:"name,omitempty"`
	Type         string  `json:"type,omitempty"`
	Principal    float64 `json:"principal"`
	Rate         float64 `json:"rate"` // annual percentage, e.g. 4.5
	Years        int     `json:"years"`
	ExtraPayment float64 `json:"extra_payment,omitempty"`
}

// Validate checks the loan parameters against domain constraints
func (l *Loan) Validate() error {
	if l.Principal <= 0 {
		return goerr.Wrap(model.ErrValidation, "principal must be greater than 0",
			goerr.V("principal", l.Principal))
	}
	if l.Principal > maxPrincipal {
		return goerr.Wrap(model.ErrValidation, "principal is unrealistically high",
			goerr.V("principal", l.Principal))
	}
	if l.Rate < 0 {
		return goerr.Wrap(model.ErrValidation, "interest rate cannot be negative",
			goerr.V("rate", l.Rate))
	}
	if l.Rate > maxRate {
		return goerr.Wrap(model.ErrValidation, "interest rate is unrealistically high",
			goerr.V("rate", l.Rate))
	}
	if l.Years <= 0 {
		return goerr.Wrap(model.ErrValidation, "loan term must be greater than 0 years",
			goerr.V("years", l.Years))
	}
	if l.Years > maxYears {
		return goerr.Wrap(model.ErrValidation, "loan term is unrealistically long",
			goerr.V("years", l.Years))
	}
	if l.ExtraPayment < 0 {
		return goerr.Wrap(model.ErrValidation, "extra payment cannot be negative",
			goerr.V("extra_payment", l.ExtraPayment))
	}
	return nil
}

// monthlyPayment is the standard compound interest formula, falling back
// to straight division for a zero rate
func monthlyPayment(principal, monthlyRate float64, numPayments int) float64 {
	if monthlyRate == 0 {
		return principal / float64(numPayments)
	}
	pow := math.Pow(1+monthlyRate, float64(numPayments))
	return principal * (monthlyRate * pow) / (pow - 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
