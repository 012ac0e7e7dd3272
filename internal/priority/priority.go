// Package priority keeps value weights consistent after a single edit.
package priority

import (
	"errors"
	"fmt"
	"math"

	"example.com/timewealth/internal/domain"
)

var (
	ErrNoValues       = errors.New("no values to prioritise")
	ErrUnknownValue   = errors.New("value is not part of the profile")
	ErrNegativeWeight = errors.New("priority weight must not be negative")
)

// Total is the sum every normalised mapping adds up to.
const Total = 100

// Normalize substitutes raw for changed and rescales every weight in order so
// the integer weights sum to Total. The rounding residual goes to the first
// value holding the largest rounded weight.
//
// When every weight is zero the result is EqualShares(order), which is
// fractional and carries no residual correction.
func Normalize(order []domain.ValueName, weights map[domain.ValueName]float64, changed domain.ValueName, raw float64) (map[domain.ValueName]float64, error) {
	if len(order) == 0 {
		return nil, ErrNoValues
	}
	if raw < 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return nil, fmt.Errorf("%w: %q=%v", ErrNegativeWeight, changed, raw)
	}
	if !contains(order, changed) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValue, changed)
	}

	next := make(map[domain.ValueName]float64, len(order))
	for _, v := range order {
		w := weights[v]
		if v == changed {
			w = raw
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: %q=%v", ErrNegativeWeight, v, w)
		}
		next[v] = w
	}

	sum := 0.0
	for _, v := range order {
		sum += next[v]
	}
	if sum == 0 {
		return EqualShares(order), nil
	}

	roundedSum := 0.0
	var largest domain.ValueName
	for i, v := range order {
		next[v] = math.Round(next[v] * Total / sum)
		roundedSum += next[v]
		if i == 0 || next[v] > next[largest] {
			largest = v
		}
	}
	next[largest] += Total - roundedSum
	return next, nil
}

// EqualShares assigns Total/len(order) to every value without rounding.
func EqualShares(order []domain.ValueName) map[domain.ValueName]float64 {
	out := make(map[domain.ValueName]float64, len(order))
	if len(order) == 0 {
		return out
	}
	share := float64(Total) / float64(len(order))
	for _, v := range order {
		out[v] = share
	}
	return out
}

// Sum adds every weight in the mapping.
func Sum(weights map[domain.ValueName]float64) float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	return total
}

func contains(order []domain.ValueName, v domain.ValueName) bool {
	for _, existing := range order {
		if existing == v {
			return true
		}
	}
	return false
}
