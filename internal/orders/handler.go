package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/verdant-shop/verdant/internal/cart"
	"github.com/verdant-shop/verdant/internal/platform/httpx"
)

// userHeader carries the opaque authenticated-user id supplied by the
// external identity provider; the service stores it without validating it.
const userHeader = "X-User-ID"

// Handler serves checkout and order history.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountCheckout registers the checkout route.
func (h *Handler) MountCheckout(r chi.Router) {
	r.Post("/", h.checkout)
}

// MountOrders registers order history routes.
func (h *Handler) MountOrders(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	cartKey, ok := cart.CartKey(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "no cart for this session")
		return
	}

	order, err := h.service.Checkout(r.Context(), cartKey, r.Header.Get(userHeader))
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Empty Cart", "cannot check out an empty cart")
			return
		}
		h.logger.Error("checkout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "order not found")
			return
		}
		h.logger.Error("get order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing "+userHeader+" header")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.service.ListByUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result == nil {
		result = []Order{}
	}
	httpx.JSON(w, http.StatusOK, result)
}
