package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pricelist-service/internal/config"
	"pricelist-service/internal/fileio"
	"pricelist-service/internal/pricelist/model"
	"pricelist-service/internal/pricelist/sheet"
	"pricelist-service/internal/store"
	"pricelist-service/internal/webhook"
)

// Handler wires the import/matching core to the store and the webhook.
type Handler struct {
	cfg   config.Config
	log   zerolog.Logger
	store *store.Store
	hook  *webhook.Client
}

func New(cfg config.Config, logger zerolog.Logger, st *store.Store, hook *webhook.Client) *Handler {
	return &Handler{cfg: cfg, log: logger, store: st, hook: hook}
}

// ImportPriceList handles POST /feeddata: a multi-sheet workbook upload where
// every worksheet becomes one client's price list. Sheets fail independently,
// the response is a partial-success summary.
func (h *Handler) ImportPriceList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer r.Body.Close()

	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	if !fileio.Supported(header.Filename) {
		writeError(w, http.StatusBadRequest, "only .xlsx/.xlsm/.xls/.csv files are supported")
		return
	}

	sheets, err := fileio.ReadWorkbook(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read workbook: "+err.Error())
		return
	}

	currency := strings.TrimSpace(r.FormValue("currency"))
	validFrom := strings.TrimSpace(r.FormValue("valid_from"))
	validTo := strings.TrimSpace(r.FormValue("valid_to"))

	summary := model.ImportSummary{Imported: []model.ImportedSheet{}, Failed: []model.FailedSheet{}}
	for _, sg := range sheets {
		count, err := h.importSheet(r.Context(), sg, header.Filename, currency, validFrom, validTo)
		if err != nil {
			summary.Failed = append(summary.Failed, model.FailedSheet{Sheet: sg.Name, Error: err.Error()})
			continue
		}
		summary.Imported = append(summary.Imported, model.ImportedSheet{Client: strings.TrimSpace(sg.Name), Items: count})
	}

	h.log.Info().
		Str("file", header.Filename).
		Int("sheets_ok", len(summary.Imported)).
		Int("sheets_failed", len(summary.Failed)).
		Dur("elapsed", time.Since(start)).
		Msg("import done")

	writeJSON(w, http.StatusOK, summary)
}

// importSheet runs the pipeline for one worksheet: header detection, role
// inference, row mapping, strict-overwrite persistence.
func (h *Handler) importSheet(ctx context.Context, sg fileio.SheetGrid, filename, currency, validFrom, validTo string) (int, error) {
	tbl := sheet.BuildTable(sg.Rows)
	if tbl == nil {
		return 0, model.ErrNoValidRows
	}
	roles := sheet.InferColumns(tbl)
	items, err := sheet.MapRows(tbl, roles)
	if err != nil {
		return 0, err
	}

	client := strings.TrimSpace(sg.Name)
	if client == "" {
		return 0, fmt.Errorf("worksheet has no name")
	}
	_, err = h.store.ReplaceSheet(ctx, model.Sheet{
		ClientName: client,
		SheetName:  sg.Name,
		Currency:   currency,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		Metadata: map[string]string{
			"source_file": filename,
			"imported_at": time.Now().UTC().Format(time.RFC3339),
			"sheet_name":  sg.Name,
		},
	}, items)
	if err != nil {
		return 0, fmt.Errorf("persist sheet: %w", err)
	}
	return len(items), nil
}

// ListClients handles GET /clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.Clients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if clients == nil {
		clients = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"clients": clients})
}
