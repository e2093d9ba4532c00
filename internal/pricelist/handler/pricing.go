package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pricelist-service/internal/pricelist/model"
	"pricelist-service/internal/store"
)

// PricingPayload is the invoice schema sent to the workflow engine. Items
// keep the original sheet columns at top level so the engine sees what the
// customer's price list actually said.
type PricingPayload struct {
	ClientName string            `json:"client_name"`
	SheetName  string            `json:"sheet_name"`
	Currency   string            `json:"currency,omitempty"`
	ValidFrom  string            `json:"valid_from,omitempty"`
	ValidTo    string            `json:"valid_to,omitempty"`
	Items      []map[string]any  `json:"items"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// GetPricing handles GET /clients/{client}/pricing.
func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	client := chi.URLParam(r, "client")
	payload, err := h.buildPricingPayload(r.Context(), client)
	if err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) buildPricingPayload(ctx context.Context, client string) (*PricingPayload, error) {
	sh, err := h.store.SheetByClient(ctx, client)
	if err != nil {
		return nil, err
	}
	items, err := h.store.ItemsBySheet(ctx, sh.ID)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, itemObject(it))
	}
	return &PricingPayload{
		ClientName: sh.ClientName,
		SheetName:  sh.SheetName,
		Currency:   sh.Currency,
		ValidFrom:  sh.ValidFrom,
		ValidTo:    sh.ValidTo,
		Items:      out,
		Metadata:   sh.Metadata,
	}, nil
}

// itemObject prefers the preserved original columns; normalized fields are
// the fallback for rows where nothing original survived. Enrichments merge
// in without overwriting what the sheet said.
func itemObject(it model.CatalogItem) map[string]any {
	obj := map[string]any{}
	if len(it.OriginalColumns) > 0 {
		for k, v := range it.OriginalColumns {
			obj[k] = v
		}
	} else {
		obj["sku"] = it.SKU
		obj["name"] = it.Name
		obj["unit"] = it.Unit
		obj["price"] = it.Price
		if it.VAT != nil {
			obj["vat"] = *it.VAT
		}
		if it.Discounts != "" {
			obj["discounts"] = it.Discounts
		}
		if it.Notes != "" {
			obj["notes"] = it.Notes
		}
	}

	merge := func(key string, v any) {
		if _, exists := obj[key]; !exists {
			obj[key] = v
		}
	}
	if it.Category != "" {
		merge("category", it.Category)
	}
	if it.PackSize != nil {
		merge("pack_size", *it.PackSize)
	}
	if it.PackUnit != "" {
		merge("pack_unit", it.PackUnit)
	}
	if it.ConversionFactor != nil {
		merge("conversion_factor", *it.ConversionFactor)
	}
	if len(it.Extras) > 0 {
		merge("extra", it.Extras)
	}
	return obj
}
