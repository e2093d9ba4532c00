package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pricelist-service/internal/store"
	"pricelist-service/internal/webhook"
)

// CreateInvoice handles POST /invoicecreation: look up the client's pricing
// schema, attach the uploaded delivery notes and forward everything to the
// workflow engine.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if !h.hook.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "webhook url is not configured")
		return
	}
	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}

	client := strings.TrimSpace(r.FormValue("client_name"))
	if client == "" {
		writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}

	payload, err := h.buildPricingPayload(r.Context(), client)
	if err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var notes []webhook.DeliveryNote
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["delivery_notes"] {
			if !isPDF(fh.Filename) {
				continue
			}
			f, err := fh.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "open "+fh.Filename+": "+err.Error())
				return
			}
			defer f.Close()
			notes = append(notes, webhook.DeliveryNote{Filename: fh.Filename, Content: f})
		}
	}

	if err := h.hook.SendInvoiceRequest(r.Context(), payload, notes); err != nil {
		h.log.Error().Err(err).Str("client", client).Msg("webhook send failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.log.Info().Str("client", client).Int("delivery_notes", len(notes)).Msg("invoice request sent")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "sent",
		"client":         client,
		"delivery_notes": len(notes),
	})
}

// DeleteClient handles DELETE /clients/{client}.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	client := chi.URLParam(r, "client")
	if err := h.store.DeleteClient(r.Context(), client); err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "client": client})
}
