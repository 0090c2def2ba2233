package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/storefront/internal/domain"
)

type CatalogService interface {
	ListCollections(ctx context.Context) ([]domain.Collection, error)
	GetCollection(ctx context.Context, id int64) (*domain.Collection, error)
	CreateCollection(ctx context.Context, c *domain.Collection) error
	UpdateCollection(ctx context.Context, c *domain.Collection) error
	DeleteCollection(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, collectionID *int64) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
	CreatePromotion(ctx context.Context, p *domain.Promotion) error

	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, r *domain.Review) error

	ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error)
	GetProductImage(ctx context.Context, productID, id int64) (*domain.ProductImage, error)
	CreateProductImage(ctx context.Context, img *domain.ProductImage) error
	UpdateProductImage(ctx context.Context, img *domain.ProductImage) error
	DeleteProductImage(ctx context.Context, productID, id int64) error
}

type CatalogHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewCatalogHandler(catalog CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// GET /store/collections
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	collections, err := h.catalog.ListCollections(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	out := make([]CollectionDTO, len(collections))
	for i, c := range collections {
		out[i] = toCollectionDTO(c)
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /store/collections/{id}
func (h *CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	c, err := h.catalog.GetCollection(ctx, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCollectionDTO(*c))
}

// POST /store/collections
func (h *CatalogHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CollectionRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	c := &domain.Collection{Title: req.Title, FeaturedProductID: req.FeaturedProduct}
	if err := h.catalog.CreateCollection(ctx, c); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCollectionDTO(*c))
}

// PUT /store/collections/{id}
func (h *CatalogHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req CollectionRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	c := &domain.Collection{ID: id, Title: req.Title, FeaturedProductID: req.FeaturedProduct}
	if err := h.catalog.UpdateCollection(ctx, c); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCollectionDTO(*c))
}

// DELETE /store/collections/{id}
func (h *CatalogHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteCollection(ctx, id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /store/products?collection_id=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var collectionID *int64
	if raw := r.URL.Query().Get("collection_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondFieldError(w, http.StatusBadRequest, "validation_error", "collection_id", "collection_id must be a positive integer")
			return
		}
		collectionID = &id
	}

	products, err := h.catalog.ListProducts(ctx, collectionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	out := make([]ProductDTO, len(products))
	for i, p := range products {
		out[i] = toProductDTO(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /store/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductDTO(*p))
}

// POST /store/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	p := req.toDomain(0)
	if err := h.catalog.CreateProduct(ctx, p); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProductDTO(*p))
}

// PUT /store/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req ProductRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	p := req.toDomain(id)
	if err := h.catalog.UpdateProduct(ctx, p); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductDTO(*p))
}

// DELETE /store/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /store/promotions
func (h *CatalogHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	promotions, err := h.catalog.ListPromotions(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	out := make([]PromotionDTO, len(promotions))
	for i, p := range promotions {
		out[i] = PromotionDTO{ID: p.ID, Description: p.Description, Discount: p.Discount}
	}
	respondJSON(w, http.StatusOK, out)
}

// POST /store/promotions
func (h *CatalogHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PromotionDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	p := &domain.Promotion{Description: req.Description, Discount: req.Discount}
	if err := h.catalog.CreatePromotion(ctx, p); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, PromotionDTO{ID: p.ID, Description: p.Description, Discount: p.Discount})
}

// GET /store/products/{id}/reviews
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.catalog.ListReviews(ctx, productID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	out := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		out[i] = toReviewDTO(rv)
	}
	respondJSON(w, http.StatusOK, out)
}

// POST /store/products/{id}/reviews
func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req ReviewRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	rv := &domain.Review{ProductID: productID, Name: req.Name, Description: req.Description}
	if err := h.catalog.CreateReview(ctx, rv); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReviewDTO(*rv))
}

// GET /store/products/{id}/images
func (h *CatalogHandler) ListProductImages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	images, err := h.catalog.ListProductImages(ctx, productID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	out := make([]ProductImageDTO, len(images))
	for i, img := range images {
		out[i] = toProductImageDTO(img)
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /store/products/{id}/images/{image_id}
func (h *CatalogHandler) GetProductImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, imageID, ok := imageParams(w, r)
	if !ok {
		return
	}

	img, err := h.catalog.GetProductImage(ctx, productID, imageID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductImageDTO(*img))
}

// POST /store/products/{id}/images
func (h *CatalogHandler) CreateProductImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req ProductImageRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	img := &domain.ProductImage{ProductID: productID, Image: req.Image}
	if err := h.catalog.CreateProductImage(ctx, img); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProductImageDTO(*img))
}

// PUT /store/products/{id}/images/{image_id}
func (h *CatalogHandler) UpdateProductImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, imageID, ok := imageParams(w, r)
	if !ok {
		return
	}

	var req ProductImageRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	img := &domain.ProductImage{ID: imageID, ProductID: productID, Image: req.Image}
	if err := h.catalog.UpdateProductImage(ctx, img); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductImageDTO(*img))
}

// DELETE /store/products/{id}/images/{image_id}
func (h *CatalogHandler) DeleteProductImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, imageID, ok := imageParams(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProductImage(ctx, productID, imageID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func imageParams(w http.ResponseWriter, r *http.Request) (productID, imageID int64, ok bool) {
	if productID, ok = int64Param(w, r, "id"); !ok {
		return 0, 0, false
	}
	if imageID, ok = int64Param(w, r, "image_id"); !ok {
		return 0, 0, false
	}
	return productID, imageID, true
}
