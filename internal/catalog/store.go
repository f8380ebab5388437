package catalog

import "context"

// Store is the persistence contract every backend implements. A missing id
// is reported through the bool result, never as an error.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Create(ctx context.Context, in NewProduct) (Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (Product, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// FilterByCategory keeps the products in c, preserving order.
func FilterByCategory(products []Product, c Category) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}
