package textutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUmlautEquivalence(t *testing.T) {
	assert.Equal(t, Normalize("kaese raeucherwuerste"), Normalize("Käse-Räucherwürste"))
	assert.Equal(t, "weissbrot", Normalize("Weißbrot"))
	assert.Equal(t, "comte", Normalize("Comté"))
}

func TestNormalizeFractions(t *testing.T) {
	assert.Equal(t, "1/4 laib", Normalize("1_4 Laib"))
	assert.Equal(t, "1/4 laib", Normalize("1-4 Laib"))
	assert.Equal(t, "1/4 laib", Normalize("1/4 Laib"))
}

func TestNormalizePunctuationAndWhitespace(t *testing.T) {
	assert.Equal(t, "gouda jung 500g", Normalize("  Gouda,  jung (500g)!  "))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "", Normalize("-!?'"))
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"1.234,56", 1234.56, true},
		{"19,5", 19.5, true},
		{"12.50", 12.5, true},
		{"3", 3, true},
		{"€ 4,20", 4.2, true},
		{"1 234,50", 1234.5, true},
		{42, 42, true},
		{7.25, 7.25, true},
		{"abc", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{"1,2,3", 0, false}, // two commas: not a German decimal
	}
	for _, c := range cases {
		got, ok := ParseDecimal(c.in)
		assert.Equal(t, c.ok, ok, "input %v", c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, "input %v", c.in)
		}
	}
}

func TestParseDecimalIdempotent(t *testing.T) {
	for _, in := range []string{"1.234,56", "19,5", "12.50", "0,01", "-3,5"} {
		first, ok := ParseDecimalString(in)
		require.True(t, ok, in)
		second, ok := ParseDecimalString(strconv.FormatFloat(first, 'f', -1, 64))
		require.True(t, ok, in)
		assert.Equal(t, first, second, in)
	}
}
