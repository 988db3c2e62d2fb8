package checkout

import (
	"github.com/grocerlink/payment-service/pkg/errs"
)

type Method string

const (
	MethodCard    Method = "card"
	MethodInterac Method = "interac"
)

// MethodOption is what the method-selection screen renders. Immutable,
// chosen once per checkout attempt.
type MethodOption struct {
	ID                  Method
	FeeBps              int64
	ProcessingTimeLabel string
}

// FeeCalculator computes the total charge for an amount in cents.
// Card payments carry a processing fee; Interac transfers do not.
type FeeCalculator struct {
	cardFeeBps int64
}

func CreateFeeCalculator(cardFeeBps int64) FeeCalculator {
	return FeeCalculator{cardFeeBps: cardFeeBps}
}

func (f FeeCalculator) FeeBps(method Method) int64 {
	if method == MethodCard {
		return f.cardFeeBps
	}
	return 0
}

// Fee rounds half-up on the basis-point product.
func (f FeeCalculator) Fee(amount int64, method Method) (int64, error) {
	if amount < 0 {
		return 0, errs.ErrClient
	}

	bps := f.FeeBps(method)
	return (amount*bps + 5000) / 10000, nil
}

func (f FeeCalculator) Total(amount int64, method Method) (int64, error) {
	fee, err := f.Fee(amount, method)
	if err != nil {
		return 0, err
	}
	return amount + fee, nil
}

func (f FeeCalculator) MethodOptions() []MethodOption {
	return []MethodOption{
		{ID: MethodCard, FeeBps: f.cardFeeBps, ProcessingTimeLabel: "Instant"},
		{ID: MethodInterac, FeeBps: 0, ProcessingTimeLabel: "1-2 business days"},
	}
}
