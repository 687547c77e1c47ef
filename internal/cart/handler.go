package cart

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/verdant-shop/verdant/internal/platform/httpx"
)

const cartCookie = "cart_id"

// Handler serves the cart JSON API. Each request owns a Store for the cart
// identified by the cart_id cookie, minted on first contact.
type Handler struct {
	logger    *slog.Logger
	snapshots Snapshotter
	validator *validator.Validate
	secure    bool
}

// NewHandler builds Handler. secure controls the cookie's Secure flag.
func NewHandler(logger *slog.Logger, snapshots Snapshotter, secure bool) *Handler {
	return &Handler{
		logger:    logger,
		snapshots: snapshots,
		validator: validator.New(),
		secure:    secure,
	}
}

// MountRoutes registers cart routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Delete("/", h.clear)
	r.Post("/items", h.addItem)
	r.Delete("/items", h.removeItem)
	r.Put("/items/quantity", h.updateQuantity)
}

type cartResponse struct {
	Items  Cart   `json:"items"`
	Totals Totals `json:"totals"`
}

type addItemForm struct {
	ProductID    string         `json:"productId" validate:"required"`
	SelectedSize string         `json:"selectedSize"`
	Price        float64        `json:"price" validate:"gte=0"`
	Attributes   map[string]any `json:"attributes"`
}

type itemKeyForm struct {
	ProductID    string `json:"productId" validate:"required"`
	SelectedSize string `json:"selectedSize"`
}

type quantityForm struct {
	ProductID    string `json:"productId" validate:"required"`
	SelectedSize string `json:"selectedSize"`
	Quantity     int    `json:"quantity" validate:"min=1"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	h.respond(w, store.Cart())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var form addItemForm
	if !h.decode(w, r, &form) {
		return
	}
	store := h.store(w, r)
	next := store.Dispatch(AddItem{Item: LineItem{
		ProductID:    form.ProductID,
		SelectedSize: form.SelectedSize,
		Price:        form.Price,
		Attributes:   form.Attributes,
	}})
	h.respond(w, next)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	var form itemKeyForm
	if !h.decode(w, r, &form) {
		return
	}
	store := h.store(w, r)
	next := store.Dispatch(RemoveItem{ProductID: form.ProductID, SelectedSize: form.SelectedSize})
	h.respond(w, next)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var form quantityForm
	if !h.decode(w, r, &form) {
		return
	}
	store := h.store(w, r)
	next := store.Dispatch(UpdateQuantity{
		ProductID:    form.ProductID,
		SelectedSize: form.SelectedSize,
		Quantity:     form.Quantity,
	})
	h.respond(w, next)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	store := h.store(w, r)
	h.respond(w, store.Dispatch(Clear{}))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := httpx.DecodeJSON(r, form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, c Cart) {
	if c == nil {
		c = Cart{}
	}
	httpx.JSON(w, http.StatusOK, cartResponse{Items: c, Totals: c.Totals()})
}

// store loads the request's cart, minting the cart cookie when absent.
func (h *Handler) store(w http.ResponseWriter, r *http.Request) *Store {
	key := h.cartKey(w, r)
	return NewStore(r.Context(), key, h.snapshots, h.logger)
}

// CartKey exposes the request's cart id for collaborators (checkout).
func CartKey(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cartCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (h *Handler) cartKey(w http.ResponseWriter, r *http.Request) string {
	if key, ok := CartKey(r); ok {
		return key
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    key,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}
