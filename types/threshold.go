package types

// ThresholdParams parametrizes the quorum and honest-minority fractions
// the vote keeper uses (spec.md §4.3 Driver constructor: "threshold_params").
// The zero value is not valid; use DefaultThresholdParams.
type ThresholdParams struct {
	// QuorumNumerator/QuorumDenominator express the strict supermajority
	// fraction; quorum weight is floor(total*Num/Den) + 1, which for the
	// canonical 2/3 fraction is the least weight strictly above two thirds
	// (3 for a total of 4).
	QuorumNumerator   uint64
	QuorumDenominator uint64

	// HonestNumerator/HonestDenominator express the minimum fraction that
	// guarantees at least one honest validator; honest weight is
	// floor(total*Num/Den) + 1, matching spec.md's floor(total/3) + 1 for
	// the canonical 1/3 fraction.
	HonestNumerator   uint64
	HonestDenominator uint64
}

// DefaultThresholdParams is the standard Tendermint BFT parametrization:
// quorum > 2/3, honest > 1/3.
func DefaultThresholdParams() ThresholdParams {
	return ThresholdParams{
		QuorumNumerator:   2,
		QuorumDenominator: 3,
		HonestNumerator:   1,
		HonestDenominator: 3,
	}
}

// Quorum returns the minimum weight that forms a strict supermajority of
// totalPower under these parameters.
func (p ThresholdParams) Quorum(totalPower uint64) uint64 {
	return (totalPower*p.QuorumNumerator)/p.QuorumDenominator + 1
}

// Honest returns the minimum weight that guarantees at least one honest
// validator's participation under these parameters.
func (p ThresholdParams) Honest(totalPower uint64) uint64 {
	return (totalPower*p.HonestNumerator)/p.HonestDenominator + 1
}
