package redisx

import "time"

const (
	// Cached product list: products:all -> JSON array
	KeyProductsAll = "products:all"

	// Cached single product: product:{id} -> JSON object
	KeyProduct = "product:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Set of product ids at or below the low-stock threshold
	KeyLowStock = "catalog:low_stock"
)

var (
	TTLProductCache = time.Hour
	TTLDedup        = 48 * time.Hour
)
