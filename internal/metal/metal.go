package metal

// Info describes one supported metal: display data, the symbol each upstream
// API expects, and the baseline used by the synthetic generator.
type Info struct {
	ID     string
	Name   string
	Symbol string

	// Per-provider symbols.
	GoldAPI   string // e.g. XAU
	MetalsDev string // e.g. gold

	// Synthetic-quote baselines.
	BasePrice  float64
	PriceRange float64
	Volatility float64
}

var registry = map[string]Info{
	"gold": {
		ID: "gold", Name: "Gold", Symbol: "Au",
		GoldAPI: "XAU", MetalsDev: "gold",
		BasePrice: 1950, PriceRange: 100, Volatility: 0.15,
	},
	"silver": {
		ID: "silver", Name: "Silver", Symbol: "Ag",
		GoldAPI: "XAG", MetalsDev: "silver",
		BasePrice: 25, PriceRange: 5, Volatility: 0.12,
	},
	"platinum": {
		ID: "platinum", Name: "Platinum", Symbol: "Pt",
		GoldAPI: "XPT", MetalsDev: "platinum",
		BasePrice: 950, PriceRange: 50, Volatility: 0.18,
	},
	"palladium": {
		ID: "palladium", Name: "Palladium", Symbol: "Pd",
		GoldAPI: "XPD", MetalsDev: "palladium",
		BasePrice: 1800, PriceRange: 200, Volatility: 0.25,
	},
}

// ids keeps a stable listing order for FetchAll results and metadata output.
var ids = []string{"gold", "silver", "platinum", "palladium"}

// Lookup returns the registry entry for id.
func Lookup(id string) (Info, bool) {
	info, ok := registry[id]
	return info, ok
}

// IDs returns the supported metal identifiers in stable order.
func IDs() []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Supported reports whether id is a known metal.
func Supported(id string) bool {
	_, ok := registry[id]
	return ok
}

// Symbols returns the per-provider symbol mapping for every supported metal,
// keyed by metal id.
func Symbols() map[string]map[string]string {
	out := make(map[string]map[string]string, len(registry))
	for id, info := range registry {
		out[id] = map[string]string{"goldApi": info.GoldAPI, "metalsDev": info.MetalsDev}
	}
	return out
}
