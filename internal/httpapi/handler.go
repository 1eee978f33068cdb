package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"storefront-be/internal/apperr"
	"storefront-be/internal/catalog"
	"storefront-be/internal/order"

	"github.com/go-chi/chi/v5"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
)

type Handler struct {
	Catalog catalog.Service
	Orders  order.Service
}

func NewHandler(catalogSvc catalog.Service, orderSvc order.Service) *Handler {
	return &Handler{Catalog: catalogSvc, Orders: orderSvc}
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/products/{category}", h.listByCategory)
	r.Get("/product/{id}", h.getProduct)
	r.Get("/related/{category}/{excludeId}", h.getRelated)
	r.Get("/search", h.search)
	r.Get("/all-product", h.listAll)
	r.Post("/place-order", h.placeOrder)
}

type placeOrderRequest struct {
	UserDetails    order.Customer   `json:"userDetails"`
	Products       []order.CartItem `json:"products"`
	DeliveryCharge float64          `json:"deliveryCharge"`
	TotalPrice     float64          `json:"totalPrice"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		code = http.StatusBadRequest
	case apperr.KindNotFound:
		code = http.StatusNotFound
	}
	writeJSON(w, code, map[string]string{"error": apperr.Message(err)})
}

func (h *Handler) listByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	products, err := h.Catalog.GetByCategory(ctx, chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	p, err := h.Catalog.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// Absent product is 200 with a null body, not a 404.
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) getRelated(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	products, err := h.Catalog.GetRelated(ctx,
		chi.URLParam(r, "category"),
		chi.URLParam(r, "excludeId"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	products, err := h.Catalog.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	q := r.URL.Query()
	opts := catalog.ListOptions{Filter: q.Get("filter")}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = v
	}

	products, err := h.Catalog.GetList(ctx, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	conf, err := h.Orders.PlaceOrder(ctx, req.UserDetails, req.Products, req.DeliveryCharge, req.TotalPrice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}
