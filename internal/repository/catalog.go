package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"github.com/lib/pq"
)

// Collections

const collectionSelect = `SELECT c.id, c.title, c.featured_product_id, COUNT(p.id)
	FROM collections c
	LEFT JOIN products p ON p.collection_id = c.id`

func scanCollection(row interface{ Scan(...any) error }) (domain.Collection, error) {
	var c domain.Collection
	var featured sql.NullInt64
	if err := row.Scan(&c.ID, &c.Title, &featured, &c.ProductsCount); err != nil {
		return c, err
	}
	if featured.Valid {
		c.FeaturedProductID = &featured.Int64
	}
	return c, nil
}

func (r *Repository) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	rows, err := r.db.QueryContext(ctx, collectionSelect+` GROUP BY c.id ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	collections := make([]domain.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return collections, nil
}

func (r *Repository) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	c, err := scanCollection(r.db.QueryRowContext(ctx,
		collectionSelect+` WHERE c.id = $1 GROUP BY c.id`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	return &c, nil
}

func (r *Repository) CreateCollection(ctx context.Context, c *domain.Collection) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO collections (title, featured_product_id) VALUES ($1, $2) RETURNING id`,
		c.Title, c.FeaturedProductID).Scan(&c.ID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrProductNotFound
		}
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

func (r *Repository) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE collections SET title = $2, featured_product_id = $3 WHERE id = $1`,
		c.ID, c.Title, c.FeaturedProductID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrProductNotFound
		}
		return fmt.Errorf("update collection: %w", err)
	}
	return expectOne(res, ErrCollectionNotFound)
}

func (r *Repository) DeleteCollection(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrCollectionInUse
		}
		return fmt.Errorf("delete collection: %w", err)
	}
	return expectOne(res, ErrCollectionNotFound)
}

// Products

const productSelect = `SELECT p.id, p.title, p.slug, p.description, p.inventory, p.unit_price,
	p.last_update, p.collection_id,
	COALESCE(array_agg(pp.promotion_id ORDER BY pp.promotion_id) FILTER (WHERE pp.promotion_id IS NOT NULL), '{}')
	FROM products p
	LEFT JOIN product_promotions pp ON pp.product_id = p.id`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var p domain.Product
	var promotionIDs pq.Int64Array
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Description,
		&p.Inventory,
		&p.Price,
		&p.LastUpdate,
		&p.CollectionID,
		&promotionIDs,
	)
	p.PromotionIDs = []int64(promotionIDs)
	return p, err
}

// ListProducts returns all products, or only those of one collection when collectionID is set.
func (r *Repository) ListProducts(ctx context.Context, collectionID *int64) ([]domain.Product, error) {
	query := productSelect + ` WHERE ($1::bigint IS NULL OR p.collection_id = $1) GROUP BY p.id ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1 GROUP BY p.id`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO products (title, slug, description, inventory, unit_price, collection_id)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, last_update`
	err = tx.QueryRowContext(ctx, query,
		p.Title, p.Slug, p.Description, p.Inventory, p.Price, p.CollectionID).
		Scan(&p.ID, &p.LastUpdate)
	if err != nil {
		return productWriteError("insert product", err)
	}

	if err := setProductPromotions(ctx, tx, p.ID, p.PromotionIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `UPDATE products
	          SET title = $2, slug = $3, description = $4, inventory = $5, unit_price = $6,
	              collection_id = $7, last_update = NOW()
	          WHERE id = $1
	          RETURNING last_update`
	err = tx.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.Inventory, p.Price, p.CollectionID).
		Scan(&p.LastUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return productWriteError("update product", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_promotions WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear product promotions: %w", err)
	}
	if err := setProductPromotions(ctx, tx, p.ID, p.PromotionIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteProduct refuses to remove a product that has been ordered.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOne(res, ErrProductNotFound)
}

func setProductPromotions(ctx context.Context, tx *sql.Tx, productID int64, promotionIDs []int64) error {
	if len(promotionIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO product_promotions (product_id, promotion_id)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT DO NOTHING`,
		productID, pq.Array(promotionIDs))
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return &domain.ValidationError{Field: "promotions", Message: "unknown promotion"}
		}
		return fmt.Errorf("insert product promotions: %w", err)
	}
	return nil
}

func productWriteError(op string, err error) error {
	if pqCode(err) == pqForeignKeyViolation {
		return ErrCollectionNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Promotions

func (r *Repository) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description, discount FROM promotions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	promotions := make([]domain.Promotion, 0)
	for rows.Next() {
		var p domain.Promotion
		if err := rows.Scan(&p.ID, &p.Description, &p.Discount); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return promotions, nil
}

func (r *Repository) CreatePromotion(ctx context.Context, p *domain.Promotion) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO promotions (description, discount) VALUES ($1, $2) RETURNING id`,
		p.Description, p.Discount).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

// Reviews

func (r *Repository) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, name, description, reviewed_at
		 FROM reviews WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Name, &rv.Description, &rv.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reviews, nil
}

func (r *Repository) CreateReview(ctx context.Context, rv *domain.Review) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reviews (product_id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, reviewed_at`,
		rv.ProductID, rv.Name, rv.Description).Scan(&rv.ID, &rv.ReviewedAt)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrProductNotFound
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
