package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
)

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.repo.ListCollections(ctx)
}

func (s *CatalogService) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	return s.repo.GetCollection(ctx, id)
}

func (s *CatalogService) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return featuredProductError(s.repo.CreateCollection(ctx, c))
}

func (s *CatalogService) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := featuredProductError(s.repo.UpdateCollection(ctx, c)); err != nil {
		return err
	}
	updated, err := s.repo.GetCollection(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// DeleteCollection fails with repository.ErrCollectionInUse while products still belong to it.
func (s *CatalogService) DeleteCollection(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCollection(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "collection deleted", "collection_id", id)
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, collectionID *int64) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, collectionID)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return collectionRefError(s.repo.CreateProduct(ctx, p))
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return collectionRefError(s.repo.UpdateProduct(ctx, p))
}

// DeleteProduct fails with repository.ErrProductInUse once the product has been ordered.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *CatalogService) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	return s.repo.ListPromotions(ctx)
}

func (s *CatalogService) CreatePromotion(ctx context.Context, p *domain.Promotion) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.CreatePromotion(ctx, p)
}

func (s *CatalogService) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListReviews(ctx, productID)
}

func (s *CatalogService) CreateReview(ctx context.Context, r *domain.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return s.repo.CreateReview(ctx, r)
}

func (s *CatalogService) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListProductImages(ctx, productID)
}

func (s *CatalogService) GetProductImage(ctx context.Context, productID, id int64) (*domain.ProductImage, error) {
	return s.repo.GetProductImage(ctx, productID, id)
}

func (s *CatalogService) CreateProductImage(ctx context.Context, img *domain.ProductImage) error {
	if err := img.Validate(); err != nil {
		return err
	}
	return s.repo.CreateProductImage(ctx, img)
}

func (s *CatalogService) UpdateProductImage(ctx context.Context, img *domain.ProductImage) error {
	if err := img.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateProductImage(ctx, img)
}

func (s *CatalogService) DeleteProductImage(ctx context.Context, productID, id int64) error {
	if err := s.repo.DeleteProductImage(ctx, productID, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "product image deleted", "product_id", productID, "image_id", id)
	return nil
}

func collectionRefError(err error) error {
	if errors.Is(err, repository.ErrCollectionNotFound) {
		return &domain.ValidationError{Field: "collection", Message: "invalid pk, collection does not exist"}
	}
	return err
}

func featuredProductError(err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return &domain.ValidationError{Field: "featured_product", Message: "invalid pk, product does not exist"}
	}
	return err
}
