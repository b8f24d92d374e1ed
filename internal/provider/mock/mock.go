package mock

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"metalprices/internal/metal"
	"metalprices/internal/quote"
)

// SourceName labels every synthetic result.
const SourceName = "Mock Service"

// Generator produces plausible synthetic quotes by perturbing each metal's
// baseline with bounded randomness. It also satisfies provider.Source so the
// facade can be wired with it when real APIs are disabled.
type Generator struct{}

// Generate builds a synthetic quote for metalID. The identifier must already
// be validated against the supported-metals list; an unknown id is a
// programmer error and panics.
func (Generator) Generate(metalID string) quote.Quote {
	info, ok := metal.Lookup(metalID)
	if !ok {
		panic(fmt.Sprintf("mock: unsupported metal %q", metalID))
	}

	// price = baseline x U(0.8, 1.2) + U(-0.5, 0.5) x range
	randomFactor := 0.8 + rand.Float64()*0.4
	price := info.BasePrice*randomFactor + (rand.Float64()-0.5)*info.PriceRange

	maxChange := price * info.Volatility
	change := (rand.Float64() - 0.5) * maxChange * 2
	changePercent := change / price * 100

	bid := price - (rand.Float64()*2 + 0.5)
	ask := price + (rand.Float64()*2 + 0.5)
	// high can land under low when change is extreme; sources do not
	// guarantee the ordering either, so it is left as generated.
	high := price + math.Abs(change)*1.2
	low := price - math.Abs(change)*0.8
	open := price - change*0.8
	prevClose := price - change

	return quote.Quote{
		ID:            info.ID,
		Name:          info.Name,
		Symbol:        info.Symbol,
		Price:         round2(price),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		Unit:          quote.Unit,
		Timestamp:     time.Now().UTC(),
		Bid:           ptr(round2(bid)),
		Ask:           ptr(round2(ask)),
		High:          ptr(round2(high)),
		Low:           ptr(round2(low)),
		Open:          ptr(round2(open)),
		PrevClose:     ptr(round2(prevClose)),
	}
}

func (Generator) Name() string { return SourceName }

// Fetch implements provider.Source. Unlike Generate it validates the metal
// id and reports a failure instead of panicking.
func (g Generator) Fetch(_ context.Context, metalID, _ string) (quote.Result, error) {
	if !metal.Supported(metalID) {
		return quote.Fail(fmt.Sprintf("unsupported metal: %s", metalID), SourceName), nil
	}
	return quote.OK(g.Generate(metalID), SourceName), nil
}

// Status implements provider.Source; the generator is always reachable.
func (Generator) Status(context.Context) error { return nil }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 { return &v }
