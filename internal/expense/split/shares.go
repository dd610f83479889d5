package split

// SharesStrategy divides the total proportionally to per-participant share
// units (for example 2 shares for a couple, 1 for a single guest). The sum of
// units must be greater than zero.
type SharesStrategy struct{}

// Type returns the split type identifier
func (s *SharesStrategy) Type() SplitType {
	return SplitTypeShares
}

// Validate checks if the inputs are valid for a shares split
func (s *SharesStrategy) Validate(totalAmount float64, participants []Input) error {
	if err := validateCommon(totalAmount, participants); err != nil {
		return err
	}

	var sum int64
	for _, p := range participants {
		if p.ShareUnits == nil {
			return ErrMissingShareUnits
		}
		if *p.ShareUnits < 0 {
			return ErrNegativeShareUnits
		}
		sum += *p.ShareUnits
	}

	if sum == 0 {
		return ErrZeroShareUnits
	}

	return nil
}

// Calculate computes each participant's share proportional to their units,
// rounded to cents.
func (s *SharesStrategy) Calculate(totalAmount float64, participants []Input) ([]Share, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	var totalUnits int64
	for _, p := range participants {
		totalUnits += *p.ShareUnits
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		proportion := float64(*p.ShareUnits) / float64(totalUnits)
		shares[i] = Share{
			UID:         p.UID,
			ShareAmount: roundToTwoDecimals(proportion * totalAmount),
		}
	}

	return shares, nil
}
