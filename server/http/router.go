package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pricelist-service/internal/config"
	"pricelist-service/internal/middleware"
	plHnd "pricelist-service/internal/pricelist/handler"
	"pricelist-service/internal/store"
	"pricelist-service/internal/webhook"
	"pricelist-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, st *store.Store) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	h := plHnd.New(cfg, logger, st, webhook.New(cfg.WebhookURL))

	r.Get("/health", handlers.Health)

	r.Post("/feeddata", h.ImportPriceList)
	r.Post("/invoicecreation", h.CreateInvoice)

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.ListClients)
		r.Delete("/{client}", h.DeleteClient)
		r.Get("/{client}/pricing", h.GetPricing)
		r.Get("/{client}/synonyms", h.ListSynonyms)
		r.Post("/{client}/synonyms", h.ImportSynonyms)
	})

	return r
}
