package credits

// Package is a purchasable credit bundle.
type Package struct {
	ID      int
	Credits int
	Label   string
}

// Packages lists purchasable bundles, in menu order.
var Packages = []Package{
	{ID: 1, Credits: 100, Label: "Starter (100)"},
	{ID: 2, Credits: 300, Label: "Standard (300)"},
	{ID: 3, Credits: 700, Label: "Premium (700)"},
	{ID: 4, Credits: 1500, Label: "Pro (1500)"},
}

// PackageByID returns the bundle for id.
func PackageByID(id int) (Package, bool) {
	for _, p := range Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}
