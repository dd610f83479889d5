package split

import (
	"fmt"
	"math"
)

// ExactStrategy takes each participant's share verbatim. The entered amounts
// must reconcile with the expense total within Tolerance.
type ExactStrategy struct{}

// Type returns the split type identifier
func (s *ExactStrategy) Type() SplitType {
	return SplitTypeExact
}

// Validate checks if the inputs are valid for an exact split
func (s *ExactStrategy) Validate(totalAmount float64, participants []Input) error {
	if err := validateCommon(totalAmount, participants); err != nil {
		return err
	}

	var sum float64
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeAmount
		}
		sum += *p.Amount
	}

	if math.Abs(sum-totalAmount) > Tolerance {
		return fmt.Errorf("%w: entered %.2f, total %.2f", ErrAmountsMismatch, sum, totalAmount)
	}

	return nil
}

// Calculate returns the entered amounts, rounded to cents, in input order.
func (s *ExactStrategy) Calculate(totalAmount float64, participants []Input) ([]Share, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			UID:         p.UID,
			ShareAmount: roundToTwoDecimals(*p.Amount),
		}
	}

	return shares, nil
}
