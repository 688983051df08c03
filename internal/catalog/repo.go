package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidProduct = errors.New("invalid product")
)

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `id, supplier, name, COALESCE(description, ''), price_cents, COALESCE(image, ''),
	COALESCE(brand, ''), COALESCE(weight, ''), COALESCE(ingredients, ''), COALESCE(allergens, ''),
	COALESCE(nutritional_info, ''), stock, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Supplier, &p.Name, &p.Description, &p.PriceCents, &p.Image,
		&p.Brand, &p.Weight, &p.Ingredients, &p.Allergens, &p.NutritionalInfo, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY supplier, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// Validate is applied before any insert.
func Validate(p Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case strings.TrimSpace(p.Supplier) == "":
		return fmt.Errorf("%w: supplier is required", ErrInvalidProduct)
	case p.PriceCents < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, p Product) (Product, error) {
	if err := Validate(p); err != nil {
		return Product{}, err
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(supplier, name, description, price_cents, image, brand, weight,
		                     ingredients, allergens, nutritional_info, stock)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
		        NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11)
		RETURNING `+productColumns,
		p.Supplier, p.Name, p.Description, p.PriceCents, p.Image, p.Brand, p.Weight,
		p.Ingredients, p.Allergens, p.NutritionalInfo, p.Stock,
	)
	return scanProduct(row)
}

// Count dipakai seed untuk tidak mengisi ulang katalog yang sudah ada.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
