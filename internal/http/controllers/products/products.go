// Package products contains the product CRUD controller.
package products

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Jawadabbaskhan/socialauth/internal/http/dto"
	httperrors "github.com/Jawadabbaskhan/socialauth/internal/http/errors"
	"github.com/Jawadabbaskhan/socialauth/internal/http/helpers"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
)

// Controller handles /products endpoints.
// La política de quién puede borrar vive en el gate, no acá.
type Controller struct {
	store core.ProductStore
}

func New(store core.ProductStore) *Controller {
	return &Controller{store: store}
}

// productID extrae y valida el path param {id}.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("id de producto inválido"))
		return 0, false
	}
	return id, true
}

// Create handles POST /api/v1/products
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ProductRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("name es requerido"))
		return
	}

	p := &core.Product{Name: req.Name, Description: req.Description, Price: req.Price}
	if err := c.store.CreateProduct(ctx, p); err != nil {
		logger.From(ctx).Error("create product failed", logger.Op("products.create"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, toResponse(p))
}

// Get handles GET /api/v1/products/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := c.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		logger.From(r.Context()).Error("get product failed", logger.ProductID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, toResponse(p))
}

// List handles GET /api/v1/products?offset=&limit=
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	items, err := c.store.ListProducts(r.Context(), offset, limit)
	if err != nil {
		logger.From(r.Context()).Error("list products failed", logger.Op("products.list"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	out := make([]dto.ProductResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Update handles PUT /api/v1/products/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("name es requerido"))
		return
	}

	p, err := c.store.UpdateProduct(r.Context(), id, core.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		logger.From(r.Context()).Error("update product failed", logger.ProductID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, toResponse(p))
}

// Delete handles DELETE /api/v1/products/{id}
// El gate ya garantizó rol admin antes de llegar acá.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := c.store.DeleteProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		logger.From(r.Context()).Error("delete product failed", logger.ProductID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	logger.From(r.Context()).Info("product deleted", logger.ProductID(id))
	helpers.WriteJSON(w, http.StatusOK, toResponse(p))
}

func toResponse(p *core.Product) dto.ProductResponse {
	return dto.ProductResponse{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price}
}
