package model

import (
	"errors"
	"time"
)

// Sentinel errors for sheet-level import failures. Row-level problems are
// collected into summaries instead of aborting the batch.
var (
	ErrMissingPriceColumn = errors.New("required column missing: price")
	ErrNoValidRows        = errors.New("no valid rows found in the spreadsheet after validation")
)

// Role is a semantic column role inferred from sheet headers.
type Role string

const (
	RoleSKU       Role = "sku"
	RoleName      Role = "name"
	RoleUnit      Role = "unit"
	RolePrice     Role = "price"
	RoleVAT       Role = "vat"
	RoleDiscounts Role = "discounts"
	RoleNotes     Role = "notes"
	RoleCategory  Role = "category"
	RolePack      Role = "pack"
)

// ColumnRoles maps semantic roles to header names of the detected table.
// Built once per sheet; empty string means the role is unassigned.
type ColumnRoles map[Role]string

// Column returns the header mapped to role, or "" when unassigned.
func (cr ColumnRoles) Column(r Role) string { return cr[r] }

// CatalogItem is one normalized price-list row. Every item has a non-empty
// Name and SKU (synthesized when the sheet omitted one of them).
type CatalogItem struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`

	VAT       *float64 `json:"vat,omitempty"`
	Discounts string   `json:"discounts_json,omitempty"` // opaque raw-text payload, JSON-encoded
	Notes     string   `json:"notes,omitempty"`
	Category  string   `json:"category,omitempty"`

	PackSize         *float64 `json:"pack_size,omitempty"`
	PackUnit         string   `json:"pack_unit,omitempty"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`

	// OriginalColumns keeps every original header→raw cell value of the row,
	// independent of role inference, so downstream consumers can recover data
	// the heuristics missed or mis-assigned.
	OriginalColumns map[string]string `json:"original,omitempty"`
	Extras          map[string]any    `json:"extra,omitempty"`
}

// SynonymDefinition is a resolved customer-specific alias for a catalog item.
type SynonymDefinition struct {
	Customer      string    `json:"customer"`
	CanonicalSKU  string    `json:"canonical_sku"`
	CanonicalName string    `json:"canonical_name"`
	Alias         string    `json:"alias"`
	MatchScore    float64   `json:"match_score"` // 0..100
	CreatedAt     time.Time `json:"created_at"`
}

// Sheet metadata persisted alongside imported items.
type Sheet struct {
	ID         int64             `json:"-"`
	ClientName string            `json:"client_name"`
	SheetName  string            `json:"sheet_name"`
	Currency   string            `json:"currency,omitempty"`
	ValidFrom  string            `json:"valid_from,omitempty"`
	ValidTo    string            `json:"valid_to,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"-"`
	UpdatedAt  time.Time         `json:"-"`
}

// ImportedSheet is the per-sheet success entry of an import summary.
type ImportedSheet struct {
	Client string `json:"client"`
	Items  int    `json:"items"`
}

// FailedSheet is the per-sheet failure entry of an import summary.
type FailedSheet struct {
	Sheet string `json:"sheet"`
	Error string `json:"error"`
}

// ImportSummary aggregates a multi-sheet upload: partial success, one entry
// per worksheet, never aborting the whole file on a single bad sheet.
type ImportSummary struct {
	Imported []ImportedSheet `json:"imported"`
	Failed   []FailedSheet   `json:"failed"`
}

// SynonymEntry reports one alias row of a synonym import.
type SynonymEntry struct {
	Alias   string  `json:"alias"`
	Matched bool    `json:"matched"`
	SKU     string  `json:"sku,omitempty"`
	Name    string  `json:"name,omitempty"`
	Score   float64 `json:"score"`
	Pass    int     `json:"pass,omitempty"` // 1 = anchored, 2 = relaxed
}

// SynonymSummary aggregates a synonym-sheet import for one customer.
type SynonymSummary struct {
	Client    string         `json:"client"`
	Total     int            `json:"total"`
	Matched   int            `json:"matched"`
	Unmatched int            `json:"unmatched"`
	Entries   []SynonymEntry `json:"entries"`
}
