package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowsOrdering(t *testing.T) {
	cases := []struct {
		actual  Tier
		minimum Tier
		want    bool
	}{
		{Free, Free, true},
		{Free, Premium, false},
		{Free, Pro, false},
		{Premium, Free, true},
		{Premium, Premium, true},
		{Premium, Pro, false},
		{Pro, Free, true},
		{Pro, Premium, true},
		{Pro, Pro, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.actual)+">="+string(tc.minimum), func(t *testing.T) {
			assert.Equal(t, tc.want, Allows(tc.actual, tc.minimum))
			assert.Equal(t, tc.want, tc.actual.AtLeast(tc.minimum))
		})
	}
}

// "premium" < "pro" alphabetically, but premium ranks below pro anyway, and
// "free" > "pro" alphabetically while ranking lowest.
func TestOrderIsNotLexicographic(t *testing.T) {
	assert.True(t, string(Free) < string(Premium))
	assert.False(t, Allows(Free, Pro))
	assert.True(t, string(Pro) > string(Free))
	assert.True(t, Allows(Pro, Free))
	assert.Less(t, Premium.Rank(), Pro.Rank())
}

func TestEmptyAndUnknownRankAsFree(t *testing.T) {
	assert.Equal(t, 0, Tier("").Rank())
	assert.Equal(t, 0, Tier("gold").Rank())
	assert.True(t, Allows("", Free))
	assert.False(t, Allows("", Premium))
	assert.False(t, Allows("gold", Premium))
}

func TestParse(t *testing.T) {
	got, err := Parse("  PREMIUM ")
	require.NoError(t, err)
	assert.Equal(t, Premium, got)

	_, err = Parse("platinum")
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.Equal(t, []Tier{Free, Premium, Pro}, all)
	all[0] = Pro
	assert.Equal(t, Free, All()[0])
}
