package analysis

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var passengerRows = []string{
	"PassengerId,Survived,Pclass,Name,Sex,Age,Fare,Cabin",
	"1,0,3,Braund,male,22,7.25,",
	"2,1,1,Cumings,female,38,71.2833,C85",
	"3,1,3,Heikkinen,female,26,7.925,",
	"4,1,1,Futrelle,female,35,53.1,C123",
	"5,0,3,Allen,male,35,8.05,",
	"6,0,3,Moran,male,,8.4583,",
	"7,0,1,McCarthy,male,54,51.8625,E46",
	"8,0,3,Palsson,male,2,21.075,",
	"9,1,3,Johnson,female,27,11.1333,",
	"10,1,2,Nasser,female,14.5,30.0708,",
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func loadPassengers(t *testing.T) *Table {
	t.Helper()
	p := writeFile(t, "titanic.csv", strings.Join(passengerRows, "\n")+"\n")
	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	return tbl
}

func TestLoadDetectsColumnTypes(t *testing.T) {
	tbl := loadPassengers(t)
	assert.Equal(t, "titanic.csv", tbl.Name)
	assert.Equal(t, 10, tbl.Rows())
	assert.Equal(t, []string{"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "Fare", "Cabin"}, tbl.Names())

	want := map[string]series.Type{
		"Survived": series.Int,
		"Pclass":   series.Int,
		"Sex":      series.String,
		"Age":      series.Float,
		"Fare":     series.Float,
	}
	for col, typ := range want {
		s, err := tbl.Column(col)
		require.NoError(t, err)
		assert.Equal(t, typ, s.Type(), col)
	}

	ages, err := tbl.Numeric("Age")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ages[5]))
	assert.InDelta(t, 22.0, ages[0], 1e-9)
}

func TestLoadTSVByExtension(t *testing.T) {
	p := writeFile(t, "small.tsv", "a\tb\n1\tx\n2\ty\n")
	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Equal(t, 2, tbl.Rows())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadMalformedContent(t *testing.T) {
	cases := map[string]string{
		"ragged":      "a,b\n1,2\n3\n",
		"empty":       "",
		"bare quote":  "a,b\n\"1,2\n",
		"blank title": "a,,c\n1,2,3\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, "bad.csv", content)
			_, err := Load(p, LoadOptions{})
			require.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	p := writeFile(t, "in.csv", "Pclass,Survived\n")
	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pclass", "Survived"}, tbl.Names())
	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, 0, NullCounts(tbl).Total())

	sum, err := SurvivalByClass(tbl, "Pclass", "Survived")
	require.NoError(t, err)
	assert.Empty(t, sum.Rows)
	assert.Equal(t, 0, sum.Skipped)
}

func TestColumnAccessErrors(t *testing.T) {
	tbl := loadPassengers(t)

	_, err := tbl.Column("Deck")
	require.ErrorIs(t, err, ErrColumnMissing)

	_, err = tbl.Numeric("Sex")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCellsFormatsFloatsWithoutPadding(t *testing.T) {
	tbl := loadPassengers(t)
	vals, na, err := tbl.Cells("Fare")
	require.NoError(t, err)
	assert.Equal(t, "7.25", vals[0])
	assert.False(t, na[0])

	cabins, na, err := tbl.Cells("Cabin")
	require.NoError(t, err)
	assert.Equal(t, "", cabins[0])
	assert.True(t, na[0])
	assert.Equal(t, "C85", cabins[1])
}

func TestNullCounts(t *testing.T) {
	tbl := loadPassengers(t)
	nulls := NullCounts(tbl)
	require.Len(t, nulls, 8)

	assert.Equal(t, 0, nulls.Missing("Survived"))
	assert.Equal(t, 0, nulls.Missing("Pclass"))
	assert.Equal(t, 1, nulls.Missing("Age"))
	assert.Equal(t, 7, nulls.Missing("Cabin"))
	assert.Equal(t, -1, nulls.Missing("Deck"))
	assert.Equal(t, 8, nulls.Total())
}

func TestRequireColumns(t *testing.T) {
	tbl := loadPassengers(t)
	require.NoError(t, RequireColumns(tbl, "Pclass", "Survived"))

	err := RequireColumns(tbl, "Pclass", "Deck", "Boat")
	require.ErrorIs(t, err, ErrColumnMissing)
	assert.Contains(t, err.Error(), "Deck, Boat")
}

func TestDescribe(t *testing.T) {
	tbl := loadPassengers(t)
	rep := Describe(tbl)
	assert.Equal(t, 10, rep.Rows)

	byName := map[string]ColumnStats{}
	for _, c := range rep.Cols {
		byName[c.Name] = c
	}

	age := byName["Age"]
	assert.Equal(t, "numeric", age.Kind)
	assert.Equal(t, 9, age.Count)
	assert.Equal(t, 1, age.Missing)
	assert.InDelta(t, 2.0, age.Min, 1e-9)
	assert.InDelta(t, 54.0, age.Max, 1e-9)
	// sorted: 2 14.5 22 26 27 35 35 38 54
	assert.InDelta(t, 27.0, age.Q50, 1e-9)
	assert.InDelta(t, 22.0, age.Q25, 1e-9)
	assert.InDelta(t, 35.0, age.Q75, 1e-9)
	assert.InDelta(t, 253.5/9.0, age.Mean, 1e-9)

	sex := byName["Sex"]
	assert.Equal(t, "categorical", sex.Kind)
	assert.Equal(t, 2, sex.Unique)
	assert.Equal(t, "female", sex.Top)
	assert.Equal(t, 5, sex.Freq)

	md := rep.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "File: titanic.csv", "[MISSING VALUES]", "- Cabin: 7", "Age: numeric (count 9, missing 1)", "top female (5)"} {
		assert.Contains(t, md, want)
	}
}

func TestQuantileInterpolates(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(vals, 0.25), 1e-12)
	assert.InDelta(t, 2.5, quantile(vals, 0.5), 1e-12)
	assert.InDelta(t, 4.0, quantile(vals, 1), 1e-12)
	assert.Equal(t, 0.0, quantile(nil, 0.5))
}
