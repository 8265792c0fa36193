package orderbookv1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceOrderingUsesDecimalValue(t *testing.T) {
	a, err := PriceFromString("491.50")
	require.NoError(t, err)
	b, err := PriceFromString("491.5")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Cmp(b))
	assert.True(t, PriceFromInt(490).LessThan(a))
	assert.True(t, a.GreaterThan(PriceFromInt(490)))
	assert.True(t, ZeroPrice().IsZero())
}

func TestVolumeArithmetic(t *testing.T) {
	v := VolumeFromInt(100)

	assert.True(t, v.Sub(VolumeFromInt(30)).Equal(VolumeFromInt(70)))
	assert.True(t, v.Add(VolumeFromInt(50)).Equal(VolumeFromInt(150)))
	assert.True(t, v.Min(VolumeFromInt(40)).Equal(VolumeFromInt(40)))
	assert.True(t, VolumeFromInt(40).Min(v).Equal(VolumeFromInt(40)))
	assert.True(t, v.Sub(v).IsZero())
	assert.False(t, ZeroVolume().IsPositive())
}

func TestPriceJSONRoundTrip(t *testing.T) {
	p, err := PriceFromString("1251.25")
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var back Price
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, p.Equal(back))
}

func TestOrderIDGeneratorMonotonic(t *testing.T) {
	g := NewOrderIDGenerator()

	first := g.Next()
	second := g.Next()
	assert.Greater(t, second, first)

	g.Seed(second + 1000)
	assert.Greater(t, g.Next(), second+1000)

	// Seeding backwards never lowers the floor.
	g.Seed(first)
	assert.Greater(t, g.Next(), second+1000)
}
