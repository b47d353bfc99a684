package engine

import (
	"math"

	"rules-engine/internal/database"
)

// Epsilon is the tolerance for floating-point equality comparisons.
const Epsilon = 1e-9

// Matches evaluates a comparator against a measured value and a threshold.
// Equality and inequality use an epsilon comparison so two values differing
// only by floating-point noise count as equal. Operators outside the closed
// set never match; writes reject them before they can be stored.
func Matches(op database.Operator, value, threshold float64) bool {
	switch op {
	case database.OpGreater:
		return value > threshold
	case database.OpGreaterOrEqual:
		return value >= threshold
	case database.OpLess:
		return value < threshold
	case database.OpLessOrEqual:
		return value <= threshold
	case database.OpEqual:
		return math.Abs(value-threshold) < Epsilon
	case database.OpNotEqual:
		return math.Abs(value-threshold) >= Epsilon
	}
	return false
}
