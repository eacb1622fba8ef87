// Package pricing computes quote totals for the booking wizard. Totals are
// always recomputed from the full selection set, never patched incrementally.
package pricing

// Total sums the four priced components on top of the base price. Pure
// function; inputs are assumed non-negative per the caller contract.
func Total(base, technologies, features, hosting, maintenance int64) int64 {
	return base + technologies + features + hosting + maintenance
}

// Selections are the priced choices accumulated by the wizard.
type Selections struct {
	Technologies []string `json:"technologies"`
	Features     []string `json:"features"`
	Hosting      string   `json:"hosting,omitempty"`
	Maintenance  string   `json:"maintenance,omitempty"`
}

// Breakdown is the per-component subtotal view of a quote.
type Breakdown struct {
	Base         int64 `json:"base"`
	Technologies int64 `json:"technologies"`
	Features     int64 `json:"features"`
	Hosting      int64 `json:"hosting"`
	Maintenance  int64 `json:"maintenance"`
	Total        int64 `json:"total"`
}

// Quote resolves the selections against the catalog and returns the
// per-component subtotals plus the total. Unknown codes price at zero.
func Quote(c *Catalog, s Selections) Breakdown {
	b := Breakdown{Base: c.BasePrice}
	for _, code := range s.Technologies {
		b.Technologies += c.Technologies[code]
	}
	for _, code := range s.Features {
		b.Features += c.Features[code]
	}
	b.Hosting = c.Hosting[s.Hosting]
	b.Maintenance = c.Maintenance[s.Maintenance]
	b.Total = Total(b.Base, b.Technologies, b.Features, b.Hosting, b.Maintenance)
	return b
}
