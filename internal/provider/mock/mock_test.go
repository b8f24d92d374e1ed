package mock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"metalprices/internal/metal"
	"metalprices/internal/provider/mock"
)

func TestGenerate_BoundsAndIdentity(t *testing.T) {
	var gen mock.Generator
	for _, id := range metal.IDs() {
		info, _ := metal.Lookup(id)
		lo := info.BasePrice*0.8 - info.PriceRange/2
		hi := info.BasePrice*1.2 + info.PriceRange/2

		for i := 0; i < 10000; i++ {
			q := gen.Generate(id)
			require.Greater(t, q.Price, 0.0, "metal %s", id)
			// 0.005 covers the cent rounding of the price itself.
			require.GreaterOrEqual(t, q.Price, lo-0.005, "metal %s", id)
			require.LessOrEqual(t, q.Price, hi+0.005, "metal %s", id)

			// changePercent = change/price*100, up to the 2dp rounding of
			// each field.
			require.InDelta(t, q.Change/q.Price*100, q.ChangePercent, 0.05, "metal %s", id)

			require.NotNil(t, q.Bid)
			require.NotNil(t, q.Ask)
			require.Less(t, *q.Bid, q.Price)
			require.Greater(t, *q.Ask, q.Price)
		}
	}
}

func TestGenerate_Metadata(t *testing.T) {
	var gen mock.Generator
	q := gen.Generate("palladium")
	require.Equal(t, "palladium", q.ID)
	require.Equal(t, "Palladium", q.Name)
	require.Equal(t, "Pd", q.Symbol)
	require.Equal(t, "per troy ounce", q.Unit)
	require.False(t, q.Timestamp.IsZero())
}

func TestGenerate_UnknownMetalPanics(t *testing.T) {
	var gen mock.Generator
	require.Panics(t, func() { gen.Generate("copper") })
}

func TestFetch_UnknownMetalFails(t *testing.T) {
	var gen mock.Generator
	res, err := gen.Fetch(t.Context(), "copper", "INR")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, mock.SourceName, res.Source)
}

func TestFetch_Success(t *testing.T) {
	var gen mock.Generator
	res, err := gen.Fetch(t.Context(), "gold", "INR")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, mock.SourceName, res.Source)
	require.Equal(t, "gold", res.Data.ID)
}
