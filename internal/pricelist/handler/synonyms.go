package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pricelist-service/internal/fileio"
	"pricelist-service/internal/pricelist/match"
	"pricelist-service/internal/pricelist/model"
	"pricelist-service/internal/pricelist/sheet"
	"pricelist-service/internal/store"
)

// ImportSynonyms handles POST /clients/{client}/synonyms: resolve a batch of
// customer-supplied product names against that client's catalog and persist
// the confident matches as aliases. Unmatched rows are counted, not fatal.
// Accepts either an uploaded sheet ("file") or a JSON body {"aliases": [...]}.
func (h *Handler) ImportSynonyms(w http.ResponseWriter, r *http.Request) {
	client := chi.URLParam(r, "client")
	defer r.Body.Close()

	aliases, err := h.readAliases(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(aliases) == 0 {
		writeError(w, http.StatusBadRequest, "no aliases supplied")
		return
	}

	// blocking: only this customer's catalog forms the candidate pool
	items, err := h.store.ItemsByClient(r.Context(), client)
	if err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	threshold := toFloat(r.URL.Query().Get("threshold"), h.cfg.MatchThreshold)
	relaxedDelta := toFloat(r.URL.Query().Get("relaxed_delta"), h.cfg.MatchRelaxedDelta)
	m := match.NewMatcher(threshold, relaxedDelta)
	pool := match.NewPool(items, m.Scorer)

	now := time.Now().UTC()
	summary := model.SynonymSummary{Client: client, Entries: []model.SynonymEntry{}}
	var defs []model.SynonymDefinition
	for _, alias := range aliases {
		res := m.Resolve(alias, pool)
		entry := model.SynonymEntry{Alias: alias, Score: res.Score}
		if res.Item != nil {
			entry.Matched = true
			entry.SKU = res.Item.SKU
			entry.Name = res.Item.Name
			entry.Pass = res.Pass
			summary.Matched++
			defs = append(defs, model.SynonymDefinition{
				Customer:      client,
				CanonicalSKU:  res.Item.SKU,
				CanonicalName: res.Item.Name,
				Alias:         alias,
				MatchScore:    res.Score,
				CreatedAt:     now,
			})
		} else {
			summary.Unmatched++
		}
		summary.Entries = append(summary.Entries, entry)
	}
	summary.Total = len(aliases)

	if err := h.store.SaveSynonyms(r.Context(), defs); err != nil {
		writeError(w, http.StatusInternalServerError, "persist synonyms: "+err.Error())
		return
	}

	h.log.Info().
		Str("client", client).
		Int("total", summary.Total).
		Int("matched", summary.Matched).
		Int("unmatched", summary.Unmatched).
		Float64("threshold", threshold).
		Msg("synonyms imported")

	writeJSON(w, http.StatusOK, summary)
}

// ListSynonyms handles GET /clients/{client}/synonyms.
func (h *Handler) ListSynonyms(w http.ResponseWriter, r *http.Request) {
	client := chi.URLParam(r, "client")
	defs, err := h.store.SynonymsByClient(r.Context(), client)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if defs == nil {
		defs = []model.SynonymDefinition{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"client": client, "synonyms": defs})
}

func (h *Handler) readAliases(r *http.Request) ([]string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Aliases []string `json:"aliases"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, errors.New("bad json body: " + err.Error())
		}
		return cleanAliases(body.Aliases), nil
	}

	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		return nil, errors.New("bad multipart form: " + err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing file: " + err.Error())
	}
	defer file.Close()
	grids, err := fileio.ReadWorkbook(file, header.Filename)
	if err != nil {
		return nil, errors.New("failed to read workbook: " + err.Error())
	}
	if len(grids) == 0 {
		return nil, nil
	}
	// synonym sheets carry one alias per row, first worksheet only
	return aliasesFromGrid(grids[0].Rows), nil
}

// aliasesFromGrid extracts alias names from a sheet. With a recognizable
// header the name column is used; a bare one-column list has no header, so
// the detected "header" cell is an alias too.
func aliasesFromGrid(grid [][]string) []string {
	tbl := sheet.BuildTable(grid)
	if tbl == nil || len(tbl.Headers) == 0 {
		return nil
	}
	roles := sheet.InferColumns(tbl)
	col := roles.Column(model.RoleName)

	var out []string
	if col == "" {
		col = tbl.Headers[0]
		if !strings.HasPrefix(col, "col_") {
			out = append(out, col)
		}
	}
	for _, row := range tbl.Rows {
		if v := strings.TrimSpace(tbl.Cell(row, col)); v != "" {
			out = append(out, v)
		}
	}
	return cleanAliases(out)
}

func cleanAliases(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
