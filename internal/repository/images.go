package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
)

func (r *Repository) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, image FROM product_images WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product images: %w", err)
	}
	defer rows.Close()

	images := make([]domain.ProductImage, 0)
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return images, nil
}

// GetProductImage only finds an image through the product it belongs to.
func (r *Repository) GetProductImage(ctx context.Context, productID, id int64) (*domain.ProductImage, error) {
	var img domain.ProductImage
	err := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, image FROM product_images WHERE id = $1 AND product_id = $2`, id, productID).
		Scan(&img.ID, &img.ProductID, &img.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product image: %w", err)
	}
	return &img, nil
}

func (r *Repository) CreateProductImage(ctx context.Context, img *domain.ProductImage) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO product_images (product_id, image) VALUES ($1, $2) RETURNING id`,
		img.ProductID, img.Image).Scan(&img.ID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrProductNotFound
		}
		return fmt.Errorf("insert product image: %w", err)
	}
	return nil
}

func (r *Repository) UpdateProductImage(ctx context.Context, img *domain.ProductImage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE product_images SET image = $3 WHERE id = $1 AND product_id = $2`,
		img.ID, img.ProductID, img.Image)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	return expectOne(res, ErrImageNotFound)
}

func (r *Repository) DeleteProductImage(ctx context.Context, productID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM product_images WHERE id = $1 AND product_id = $2`, id, productID)
	if err != nil {
		return fmt.Errorf("delete product image: %w", err)
	}
	return expectOne(res, ErrImageNotFound)
}
