package entity

import "time"

// Catalog event actions.
const (
	ActionLoad     = "load"
	ActionRegister = "register"
	ActionSave     = "save"
	ActionImport   = "import_spreadsheet"
	ActionExport   = "export_spreadsheet"
)

// CatalogEvent is one entry of the catalog journal
type CatalogEvent struct {
	ID        string
	Action    string
	Details   string
	Timestamp time.Time
}

// CatalogInfo summarizes the catalog contents at a point in time.
type CatalogInfo struct {
	Total         int
	NonPerishable int
	Perishable    int
	Discounted    int // perishables inside the near-expiry window
	Expired       int
	Source        string
	LoadedAt      time.Time
}
