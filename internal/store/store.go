package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pricelist-service/internal/pricelist/model"
)

// ErrClientNotFound: no price sheet imported for that client name.
var ErrClientNotFound = errors.New("client not found or no price sheet uploaded")

// Store persists price sheets, their items and resolved synonyms in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_sheets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_name TEXT NOT NULL UNIQUE,
			sheet_name TEXT NOT NULL,
			currency TEXT,
			valid_from TEXT,
			valid_to TEXT,
			metadata_json TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_sheet_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sheet_id INTEGER NOT NULL,
			sku TEXT NOT NULL,
			name TEXT NOT NULL,
			unit TEXT NOT NULL,
			price REAL NOT NULL,
			vat REAL,
			discounts_json TEXT,
			notes TEXT,
			extra_json TEXT,
			FOREIGN KEY(sheet_id) REFERENCES price_sheets(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS synonyms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_name TEXT NOT NULL,
			canonical_sku TEXT NOT NULL,
			canonical_name TEXT NOT NULL,
			alias TEXT NOT NULL,
			match_score REAL NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(client_name, alias)
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// extraPayload is the extra_json blob of one item row.
type extraPayload struct {
	Category         string            `json:"category,omitempty"`
	PackSize         *float64          `json:"pack_size,omitempty"`
	PackUnit         string            `json:"pack_unit,omitempty"`
	ConversionFactor *float64          `json:"conversion_factor,omitempty"`
	Original         map[string]string `json:"original,omitempty"`
	Extra            map[string]any    `json:"extra,omitempty"`
}

// ReplaceSheet imports a sheet with strict-overwrite semantics: an existing
// sheet for the same client is deleted (cascading to its items) in the same
// transaction. Returns the new sheet id.
func (s *Store) ReplaceSheet(ctx context.Context, sheet model.Sheet, items []model.CatalogItem) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_sheets WHERE client_name = ?`, sheet.ClientName); err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	meta, err := json.Marshal(sheet.Metadata)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO price_sheets (client_name, sheet_name, currency, valid_from, valid_to, metadata_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sheet.ClientName, sheet.SheetName, nullable(sheet.Currency), nullable(sheet.ValidFrom),
		nullable(sheet.ValidTo), string(meta), now, now)
	if err != nil {
		return 0, err
	}
	sheetID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	ins, err := tx.PrepareContext(ctx,
		`INSERT INTO price_sheet_items (sheet_id, sku, name, unit, price, vat, discounts_json, notes, extra_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer ins.Close()

	for _, it := range items {
		extra, err := json.Marshal(extraPayload{
			Category:         it.Category,
			PackSize:         it.PackSize,
			PackUnit:         it.PackUnit,
			ConversionFactor: it.ConversionFactor,
			Original:         it.OriginalColumns,
			Extra:            it.Extras,
		})
		if err != nil {
			return 0, err
		}
		if _, err := ins.ExecContext(ctx, sheetID, it.SKU, it.Name, it.Unit, it.Price,
			it.VAT, nullable(it.Discounts), nullable(it.Notes), string(extra)); err != nil {
			return 0, err
		}
	}
	return sheetID, tx.Commit()
}

// Clients lists all client names with an imported sheet, sorted.
func (s *Store) Clients(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT client_name FROM price_sheets ORDER BY client_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SheetByClient loads sheet metadata for one client.
func (s *Store) SheetByClient(ctx context.Context, client string) (*model.Sheet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client_name, sheet_name, COALESCE(currency,''), COALESCE(valid_from,''), COALESCE(valid_to,''), COALESCE(metadata_json,'')
		 FROM price_sheets WHERE client_name = ?`, client)
	var sh model.Sheet
	var meta string
	if err := row.Scan(&sh.ID, &sh.ClientName, &sh.SheetName, &sh.Currency, &sh.ValidFrom, &sh.ValidTo, &meta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if meta != "" {
		_ = json.Unmarshal([]byte(meta), &sh.Metadata)
	}
	return &sh, nil
}

// ItemsBySheet loads all items of one sheet in insertion order.
func (s *Store) ItemsBySheet(ctx context.Context, sheetID int64) ([]model.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sku, name, unit, price, vat, COALESCE(discounts_json,''), COALESCE(notes,''), COALESCE(extra_json,'')
		 FROM price_sheet_items WHERE sheet_id = ? ORDER BY id ASC`, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		var it model.CatalogItem
		var vat sql.NullFloat64
		var extra string
		if err := rows.Scan(&it.SKU, &it.Name, &it.Unit, &it.Price, &vat, &it.Discounts, &it.Notes, &extra); err != nil {
			return nil, err
		}
		if vat.Valid {
			v := vat.Float64
			it.VAT = &v
		}
		if extra != "" {
			var p extraPayload
			if err := json.Unmarshal([]byte(extra), &p); err == nil {
				it.Category = p.Category
				it.PackSize = p.PackSize
				it.PackUnit = p.PackUnit
				it.ConversionFactor = p.ConversionFactor
				it.OriginalColumns = p.Original
				it.Extras = p.Extra
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ItemsByClient is the blocking step for synonym matching: only this
// customer's catalog rows form the candidate pool.
func (s *Store) ItemsByClient(ctx context.Context, client string) ([]model.CatalogItem, error) {
	sh, err := s.SheetByClient(ctx, client)
	if err != nil {
		return nil, err
	}
	return s.ItemsBySheet(ctx, sh.ID)
}

// SaveSynonyms upserts resolved aliases; re-importing a synonym sheet
// refreshes scores instead of duplicating rows.
func (s *Store) SaveSynonyms(ctx context.Context, defs []model.SynonymDefinition) error {
	if len(defs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	ins, err := tx.PrepareContext(ctx,
		`INSERT INTO synonyms (client_name, canonical_sku, canonical_name, alias, match_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(client_name, alias) DO UPDATE SET
		   canonical_sku = excluded.canonical_sku,
		   canonical_name = excluded.canonical_name,
		   match_score = excluded.match_score`)
	if err != nil {
		return err
	}
	defer ins.Close()
	for _, d := range defs {
		created := d.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		if _, err := ins.ExecContext(ctx, d.Customer, d.CanonicalSKU, d.CanonicalName,
			d.Alias, d.MatchScore, created.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SynonymsByClient lists resolved aliases for one client, newest first.
func (s *Store) SynonymsByClient(ctx context.Context, client string) ([]model.SynonymDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT client_name, canonical_sku, canonical_name, alias, match_score, created_at
		 FROM synonyms WHERE client_name = ? ORDER BY id DESC`, client)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SynonymDefinition
	for rows.Next() {
		var d model.SynonymDefinition
		var created string
		if err := rows.Scan(&d.Customer, &d.CanonicalSKU, &d.CanonicalName, &d.Alias, &d.MatchScore, &created); err != nil {
			return nil, err
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteClient removes a client's sheet, items (cascade) and synonyms.
func (s *Store) DeleteClient(ctx context.Context, client string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM price_sheets WHERE client_name = ?`, client)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClientNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM synonyms WHERE client_name = ?`, client); err != nil {
		return err
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
