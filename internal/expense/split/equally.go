package split

import "math"

// EquallyStrategy divides the total evenly among all participants.
//
// Naive division leaves a residual cent when the total does not divide
// cleanly ($100 three ways is 33.33 each, one cent short). The residual is
// assigned by the largest-remainder rule: every participant gets the floor
// share and the leftover cents go, one each, to the first participants in
// list order. Shares therefore always sum exactly to the total.
type EquallyStrategy struct{}

// Type returns the split type identifier
func (s *EquallyStrategy) Type() SplitType {
	return SplitTypeEqually
}

// Validate checks if the inputs are valid for an equal split
func (s *EquallyStrategy) Validate(totalAmount float64, participants []Input) error {
	return validateCommon(totalAmount, participants)
}

// Calculate divides the total amount evenly, distributing residual cents to
// the first participants in list order.
func (s *EquallyStrategy) Calculate(totalAmount float64, participants []Input) ([]Share, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	totalCents := int64(math.Round(totalAmount * 100))
	n := int64(len(participants))
	baseCents := totalCents / n
	remainder := totalCents % n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		cents := baseCents
		if int64(i) < remainder {
			cents++
		}
		shares[i] = Share{
			UID:         p.UID,
			ShareAmount: float64(cents) / 100,
		}
	}

	return shares, nil
}
