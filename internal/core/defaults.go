package core

// CatalogEntry is one row of the fixed default category catalog.
type CatalogEntry struct {
	Name  string
	Icon  string
	Color string
}

// DefaultCatalog is the catalog bulk-inserted for users with zero
// categories. Names double as the selection fallback so pickers are
// never empty on first load.
var DefaultCatalog = []CatalogEntry{
	{Name: "Alimentari", Icon: "ShoppingCart", Color: "#10B981"},
	{Name: "Trasporti", Icon: "Car", Color: "#3B82F6"},
	{Name: "Intrattenimento", Icon: "Gamepad2", Color: "#8B5CF6"},
	{Name: "Bollette", Icon: "Zap", Color: "#F59E0B"},
	{Name: "Salute", Icon: "Heart", Color: "#EF4444"},
	{Name: "Shopping", Icon: "CreditCard", Color: "#EC4899"},
	{Name: "Ristoranti", Icon: "Utensils", Color: "#F97316"},
	{Name: "Casa", Icon: "Home", Color: "#06B6D4"},
	{Name: "Viaggi", Icon: "Plane", Color: "#84CC16"},
	{Name: "Altro", Icon: "Tag", Color: "#6B7280"},
}

// FallbackGoalCategories backs goal forms when the user registry is empty.
var FallbackGoalCategories = []string{
	"Risparmio",
	"Emergenza",
	"Vacanze",
	"Casa",
	"Auto",
	"Investimenti",
	"Educazione",
	"Pensione",
	"Altro",
}

// DefaultCategoryNames returns the catalog names in catalog order.
func DefaultCategoryNames() []string {
	names := make([]string, len(DefaultCatalog))
	for i, c := range DefaultCatalog {
		names[i] = c.Name
	}
	return names
}
