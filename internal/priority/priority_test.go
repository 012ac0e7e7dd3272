package priority

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/timewealth/internal/domain"
)

var threeValues = []domain.ValueName{"Family", "Health", "Career"}

func TestNormalizeRescalesProportionally(t *testing.T) {
	weights := map[domain.ValueName]float64{"Family": 33, "Health": 33, "Career": 34}

	got, err := Normalize(threeValues, weights, "Family", 50)
	require.NoError(t, err)
	require.Equal(t, map[domain.ValueName]float64{"Family": 43, "Health": 28, "Career": 29}, got)
	require.Equal(t, float64(Total), Sum(got))

	require.Equal(t, float64(33), weights["Family"], "input mapping is not mutated")
}

func TestNormalizeResidualGoesToFirstLargest(t *testing.T) {
	weights := map[domain.ValueName]float64{"Family": 1, "Health": 1, "Career": 1}

	got, err := Normalize(threeValues, weights, "Health", 1)
	require.NoError(t, err)
	require.Equal(t, map[domain.ValueName]float64{"Family": 34, "Health": 33, "Career": 33}, got)
}

func TestNormalizeResidualCanBeNegative(t *testing.T) {
	order := []domain.ValueName{"A", "B", "C", "D", "E", "F"}
	weights := map[domain.ValueName]float64{"A": 1, "B": 1, "C": 1, "D": 1, "E": 1, "F": 1}

	// 100/6 rounds to 17 each, 102 in total.
	got, err := Normalize(order, weights, "A", 1)
	require.NoError(t, err)
	require.Equal(t, float64(15), got["A"])
	require.Equal(t, float64(17), got["F"])
	require.Equal(t, float64(Total), Sum(got))
}

func TestNormalizeZeroSumFallsBackToEqualShares(t *testing.T) {
	weights := map[domain.ValueName]float64{"Family": 0, "Health": 0, "Career": 100}

	got, err := Normalize(threeValues, weights, "Career", 0)
	require.NoError(t, err)
	for _, v := range threeValues {
		require.InDelta(t, 100.0/3.0, got[v], 1e-9)
	}
	require.Equal(t, EqualShares(threeValues), got)
}

func TestNormalizeAcceptsUnboundedRaw(t *testing.T) {
	weights := map[domain.ValueName]float64{"Family": 50, "Health": 50}

	got, err := Normalize([]domain.ValueName{"Family", "Health"}, weights, "Family", 450)
	require.NoError(t, err)
	require.Equal(t, float64(90), got["Family"])
	require.Equal(t, float64(10), got["Health"])
}

func TestNormalizeErrors(t *testing.T) {
	weights := map[domain.ValueName]float64{"Family": 50, "Health": 50}
	order := []domain.ValueName{"Family", "Health"}

	_, err := Normalize(nil, weights, "Family", 10)
	require.ErrorIs(t, err, ErrNoValues)

	_, err = Normalize(order, weights, "Career", 10)
	require.ErrorIs(t, err, ErrUnknownValue)

	_, err = Normalize(order, weights, "Family", -1)
	require.ErrorIs(t, err, ErrNegativeWeight)
}

func TestNormalizeKeepsSumAcrossEditSequences(t *testing.T) {
	order := []domain.ValueName{"Family", "Health", "Career", "Learning", "Community"}
	weights := EqualShares(order)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		changed := order[rng.Intn(len(order))]
		raw := float64(rng.Intn(150))

		next, err := Normalize(order, weights, changed, raw)
		require.NoError(t, err)

		if Sum(next) == 0 || isEqualShares(order, next) {
			weights = next
			continue
		}
		require.Equal(t, float64(Total), Sum(next), "edit %d: %s=%v", i, changed, raw)
		for _, v := range order {
			require.GreaterOrEqual(t, next[v], float64(0))
			require.Equal(t, next[v], float64(int(next[v])), "weight must be integral")
		}
		weights = next
	}
}

func TestEqualShares(t *testing.T) {
	require.Empty(t, EqualShares(nil))

	shares := EqualShares([]domain.ValueName{"A", "B", "C", "D"})
	require.Equal(t, map[domain.ValueName]float64{"A": 25, "B": 25, "C": 25, "D": 25}, shares)
}

func isEqualShares(order []domain.ValueName, weights map[domain.ValueName]float64) bool {
	share := float64(Total) / float64(len(order))
	for _, v := range order {
		if weights[v] != share {
			return false
		}
	}
	return true
}
