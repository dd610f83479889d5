package split

import (
	"errors"
	"fmt"
	"math"
)

// SplitType defines the type of split strategy
type SplitType string

const (
	SplitTypeEqually    SplitType = "equally"
	SplitTypeExact      SplitType = "exact"
	SplitTypePercentage SplitType = "percentage"
	SplitTypeShares     SplitType = "shares"
)

// Tolerance is the maximum currency-rounding drift accepted when reconciling
// user-entered amounts or percentages against the expense total.
const Tolerance = 0.015

// Input represents one participant in a split with the optional per-type
// detail values.
type Input struct {
	UID        string   `json:"uid"`
	Amount     *float64 `json:"amount,omitempty"`     // for exact splits
	Percentage *float64 `json:"percentage,omitempty"` // for percentage splits
	ShareUnits *int64   `json:"shares,omitempty"`     // for shares splits
}

// Share is one participant's computed portion of the total. The full list,
// payer included, is persisted as the expense's participants.
type Share struct {
	UID         string  `json:"uid"`
	ShareAmount float64 `json:"shareAmount"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes one share per participant, in input order.
	Calculate(totalAmount float64, participants []Input) ([]Share, error)

	// Type returns the type identifier for this strategy
	Type() SplitType

	// Validate checks if the inputs are valid for this strategy
	Validate(totalAmount float64, participants []Input) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitTypeEqually:
		return &EquallyStrategy{}, nil
	case SplitTypeExact:
		return &ExactStrategy{}, nil
	case SplitTypePercentage:
		return &PercentageStrategy{}, nil
	case SplitTypeShares:
		return &SharesStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitType, splitType)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(SplitType(splitType))
}

var (
	ErrUnknownSplitType     = errors.New("unknown split type")
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrDuplicateParticipant = errors.New("duplicate participant in split")
	ErrNonPositiveAmount    = errors.New("total amount must be positive")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrMissingExactAmount   = errors.New("exact amount required for all participants")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrMissingShareUnits    = errors.New("share units required for all participants")
	ErrAmountsMismatch      = errors.New("exact amounts do not sum to total amount")
	ErrPercentagesMismatch  = errors.New("percentages do not sum to 100")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrNegativeShareUnits   = errors.New("share units cannot be negative")
	ErrZeroShareUnits       = errors.New("total share units cannot be zero")
)

// roundToTwoDecimals rounds a float to 2 decimal places
func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// validateCommon enforces the invariants shared by every strategy.
func validateCommon(totalAmount float64, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount <= 0 {
		return ErrNonPositiveAmount
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.UID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.UID)
		}
		seen[p.UID] = struct{}{}
	}
	return nil
}
