package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableOf(t *testing.T, records ...[]string) *Table {
	t.Helper()
	tbl, err := FromRecords("test", records, nil)
	require.NoError(t, err)
	return tbl
}

func TestSurvivalByClassScenario(t *testing.T) {
	tbl := tableOf(t,
		[]string{"Pclass", "Survived"},
		[]string{"1", "1"},
		[]string{"1", "0"},
		[]string{"1", "0"},
	)
	sum, err := SurvivalByClass(tbl, "Pclass", "Survived")
	require.NoError(t, err)
	require.Len(t, sum.Rows, 2)

	assert.Equal(t, "1", sum.Rows[0].Class)
	assert.False(t, sum.Rows[0].Survived)
	assert.Equal(t, 2, sum.Rows[0].Count)
	assert.InDelta(t, 66.667, sum.Rows[0].Percent, 1e-3)

	assert.True(t, sum.Rows[1].Survived)
	assert.Equal(t, 1, sum.Rows[1].Count)
	assert.InDelta(t, 33.333, sum.Rows[1].Percent, 1e-3)

	assert.InDelta(t, 33.333, sum.Rate("1"), 1e-3)
	assert.Equal(t, 0, sum.Skipped)
}

func TestSurvivalByClassSingleOutcome(t *testing.T) {
	tbl := tableOf(t,
		[]string{"Pclass", "Survived"},
		[]string{"2", "1"},
		[]string{"2", "1"},
		[]string{"3", "0"},
	)
	sum, err := SurvivalByClass(tbl, "Pclass", "Survived")
	require.NoError(t, err)
	require.Len(t, sum.Rows, 2)
	assert.Equal(t, SurvivalRow{Class: "2", Survived: true, Count: 2, Percent: 100}, sum.Rows[0])
	assert.Equal(t, SurvivalRow{Class: "3", Survived: false, Count: 1, Percent: 100}, sum.Rows[1])
	assert.Equal(t, 0.0, sum.Rate("3"))
}

func TestSurvivalByClassOrdersClassesNumerically(t *testing.T) {
	tbl := tableOf(t,
		[]string{"Pclass", "Survived"},
		[]string{"10", "1"},
		[]string{"2", "1"},
		[]string{"1", "0"},
	)
	sum, err := SurvivalByClass(tbl, "Pclass", "Survived")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, sum.Classes())
}

func TestSurvivalByClassTiesPutFalseFirst(t *testing.T) {
	tbl := tableOf(t,
		[]string{"Pclass", "Survived"},
		[]string{"1", "1"},
		[]string{"1", "0"},
	)
	sum, err := SurvivalByClass(tbl, "Pclass", "Survived")
	require.NoError(t, err)
	require.Len(t, sum.Rows, 2)
	assert.False(t, sum.Rows[0].Survived)
	assert.InDelta(t, 50.0, sum.Rows[0].Percent, 1e-9)
}

func TestSurvivalByClassSkipsMissingKeys(t *testing.T) {
	tbl := tableOf(t,
		[]string{"Pclass", "Survived"},
		[]string{"1", "1"},
		[]string{"", "0"},
		[]string{"1", "NA"},
		[]string{"1", "0"},
	)
	sum, err := SurvivalByClass(tbl, "Pclass", "Survived")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Skipped)
	require.Len(t, sum.Rows, 2)
	assert.Equal(t, 1, sum.Rows[0].Count)
	assert.Equal(t, 1, sum.Rows[1].Count)
	assert.Contains(t, sum.Markdown(), "2 rows skipped")
}

func TestSurvivalByClassAcceptsBooleanStrings(t *testing.T) {
	tbl := tableOf(t,
		[]string{"class", "alive"},
		[]string{"First", "yes"},
		[]string{"First", "no"},
		[]string{"Third", "no"},
		[]string{"Third", "No"},
	)
	sum, err := SurvivalByClass(tbl, "class", "alive")
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Third"}, sum.Classes())
	assert.InDelta(t, 50.0, sum.Rate("First"), 1e-9)
	assert.Equal(t, 0.0, sum.Rate("Third"))
}

func TestSurvivalByClassErrors(t *testing.T) {
	tbl := tableOf(t,
		[]string{"Pclass", "Survived", "Sex"},
		[]string{"1", "1", "male"},
	)
	_, err := SurvivalByClass(tbl, "Pclass", "Alive")
	require.ErrorIs(t, err, ErrColumnMissing)

	_, err = SurvivalByClass(tbl, "Pclass", "Sex")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDeriveBoolKeepsMissing(t *testing.T) {
	tbl := tableOf(t,
		[]string{"Survived"},
		[]string{"1"},
		[]string{"0"},
		[]string{""},
	)
	out, err := DeriveBool(tbl, "Survived")
	require.NoError(t, err)
	s, err := out.Column("Survived")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true}, s.IsNaN())
	b, err := s.Elem(0).Bool()
	require.NoError(t, err)
	assert.True(t, b)
}

// Random tables: one output row per distinct (class, survived) pair, and the
// percentages of each class add up to 100.
func TestSurvivalByClassProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		n := 1 + rng.Intn(300)
		classes := 1 + rng.Intn(5)
		records := [][]string{{"Pclass", "Survived"}}
		pairs := map[string]bool{}
		for i := 0; i < n; i++ {
			c := fmt.Sprint(1 + rng.Intn(classes))
			s := fmt.Sprint(rng.Intn(2))
			records = append(records, []string{c, s})
			pairs[c+"/"+s] = true
		}
		sum, err := SurvivalByClass(tableOf(t, records...), "Pclass", "Survived")
		require.NoError(t, err)
		assert.Len(t, sum.Rows, len(pairs))

		totals := map[string]float64{}
		counts := 0
		for _, r := range sum.Rows {
			totals[r.Class] += r.Percent
			counts += r.Count
		}
		assert.Equal(t, n, counts)
		for class, total := range totals {
			assert.LessOrEqual(t, math.Abs(total-100), 1e-6, "class %s sums to %v", class, total)
		}
	}
}
