package split

import (
	"fmt"
	"math"
)

// PercentageStrategy divides the total according to per-participant
// percentages, which must sum to 100 within Tolerance.
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() SplitType {
	return SplitTypePercentage
}

// Validate checks if the inputs are valid for a percentage split
func (s *PercentageStrategy) Validate(totalAmount float64, participants []Input) error {
	if err := validateCommon(totalAmount, participants); err != nil {
		return err
	}

	var sum float64
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if *p.Percentage < 0 || *p.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
		sum += *p.Percentage
	}

	if math.Abs(sum-100) > Tolerance {
		return fmt.Errorf("%w: got %.2f%%", ErrPercentagesMismatch, sum)
	}

	return nil
}

// Calculate computes each participant's share as percentage/100 of the total,
// rounded to cents.
func (s *PercentageStrategy) Calculate(totalAmount float64, participants []Input) ([]Share, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			UID:         p.UID,
			ShareAmount: roundToTwoDecimals((*p.Percentage / 100) * totalAmount),
		}
	}

	return shares, nil
}
