package pricing

// Catalog maps selection codes to prices in the smallest currency unit.
type Catalog struct {
	BasePrice    int64
	Technologies map[string]int64
	Features     map[string]int64
	Hosting      map[string]int64
	Maintenance  map[string]int64
}

// DefaultCatalog returns the agency's standard price list. Core stack
// technologies are included in the base price; specialized ones add on top.
func DefaultCatalog() *Catalog {
	return &Catalog{
		BasePrice: 15000,
		Technologies: map[string]int64{
			"react":   0,
			"nextjs":  0,
			"nodejs":  0,
			"flutter": 10000,
			"python":  8000,
			"golang":  8000,
		},
		Features: map[string]int64{
			"cms":            5000,
			"payments":       8000,
			"auth":           4000,
			"search":         6000,
			"analytics":      3000,
			"notifications":  3500,
			"multi_language": 4500,
		},
		Hosting: map[string]int64{
			"":         0,
			"none":     0,
			"basic":    2000,
			"standard": 5000,
			"premium":  12000,
		},
		Maintenance: map[string]int64{
			"":          0,
			"none":      0,
			"monthly":   3000,
			"quarterly": 8000,
			"yearly":    25000,
		},
	}
}
