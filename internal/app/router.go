package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/verdant-shop/verdant/internal/cart"
	"github.com/verdant-shop/verdant/internal/catalog"
	"github.com/verdant-shop/verdant/internal/importer"
	"github.com/verdant-shop/verdant/internal/orders"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	CatalogHandler *catalog.Handler
	ImportHandler  *importer.Handler
	CartHandler    *cart.Handler
	OrdersHandler  *orders.Handler
}

// NewRouter constructs the chi.Router with Verdant defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", params.CatalogHandler.MountRoutes)
		r.Route("/cart", params.CartHandler.MountRoutes)
		r.Route("/checkout", params.OrdersHandler.MountCheckout)
		r.Route("/orders", params.OrdersHandler.MountOrders)
		r.Route("/admin/import", func(r chi.Router) {
			r.Use(AdminOnly(params.Config, params.Logger))
			params.ImportHandler.MountRoutes(r)
		})
	})

	return r
}
