package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-catalog/internal/catalog"
)

const productColumns = `id, name, description, price, image_url, stock_quantity, specifications, category, created_at, updated_at`

type Store struct{ DB *pgxpool.Pool }

var _ catalog.Store = (*Store)(nil)

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var p catalog.Product
	var category string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.StockQuantity, &p.Specifications, &category, &p.CreatedAt, &p.UpdatedAt)
	p.Category = catalog.Category(category)
	return p, err
}

func (s *Store) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (catalog.Product, bool, error) {
	p, err := scanProduct(s.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, true, nil
}

func (s *Store) Create(ctx context.Context, in catalog.NewProduct) (catalog.Product, error) {
	p := in.Build(uuid.NewString(), time.Now().UTC())
	created, err := scanProduct(s.DB.QueryRow(ctx, `
		INSERT INTO products(`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL,
		p.StockQuantity, p.Specifications, string(p.Category), p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return catalog.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

func (s *Store) Update(ctx context.Context, id string, patch catalog.ProductPatch) (catalog.Product, bool, error) {
	if patch.Empty() {
		return s.Get(ctx, id)
	}
	set, args := buildUpdate(patch, time.Now().UTC())
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id=$%d RETURNING %s`, set, len(args), productColumns)

	p, err := scanProduct(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, true, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// buildUpdate renders the SET list for the fields present in patch, always
// bumping updated_at. Placeholders start at $1.
func buildUpdate(patch catalog.ProductPatch, now time.Time) (string, []any) {
	var cols []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		cols = append(cols, fmt.Sprintf("%s=$%d", col, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.StockQuantity != nil {
		add("stock_quantity", int(*patch.StockQuantity))
	}
	if patch.Specifications != nil {
		add("specifications", *patch.Specifications)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	add("updated_at", now)
	return strings.Join(cols, ", "), args
}
