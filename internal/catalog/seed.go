package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SampleProducts is the demo catalog inserted into an empty store.
func SampleProducts() []NewProduct {
	return []NewProduct{
		{
			Name:           "Gaming Laptop",
			Description:    "High-performance gaming laptop featuring the latest Intel i9 processor, RTX 4080 graphics card, and 32GB of DDR5 RAM. Perfect for gaming, content creation, and professional work.",
			Price:          decimal.RequireFromString("2499.00"),
			ImageURL:       "https://tse4.mm.bing.net/th/id/OIP.x6nTz4XiTSZRGnt-gkcPvgHaE7?r=0&rs=1&pid=ImgDetMain&o=7&rm=3",
			StockQuantity:  25,
			Specifications: `Intel Core i9-13900H, NVIDIA RTX 4080, 32GB DDR5, 1TB NVMe SSD, 15.6" 165Hz QHD Display`,
			Category:       CategoryLaptops,
		},
		{
			Name:           "iPhone 15 Pro",
			Description:    "Latest iPhone with A17 Pro chip and advanced camera system",
			Price:          decimal.RequireFromString("999.00"),
			ImageURL:       "https://static1.pocketnowimages.com/wordpress/wp-content/uploads/2023/09/pbi-iphone-15-pro-max.png",
			StockQuantity:  50,
			Specifications: `A17 Pro chip, 6.1" Super Retina XDR, Pro camera system, USB-C`,
			Category:       CategorySmartphones,
		},
		{
			Name:           "4K Gaming Monitor",
			Description:    "Professional 27-inch 4K monitor with HDR support",
			Price:          decimal.RequireFromString("699.00"),
			ImageURL:       "https://tse3.mm.bing.net/th/id/OIP.JWAd7uCvanrU28RgzzZvIwHaE8?r=0&rs=1&pid=ImgDetMain&o=7&rm=3",
			StockQuantity:  30,
			Specifications: `27" 4K UHD, 144Hz, 1ms GTG, HDR600, G-SYNC Compatible`,
			Category:       CategoryAccessories,
		},
		{
			Name:           "MacBook Air M2",
			Description:    "Apple MacBook Air with M2 chip, delivering blazing-fast performance in an ultra-thin design.",
			Price:          decimal.RequireFromString("1199.00"),
			ImageURL:       "https://store.storeimages.cdn-apple.com/4982/as-images.apple.com/is/macbook-air-midnight-config-20220606?wid=820&hei=498&fmt=jpeg&qlt=90&.v=1654122880566",
			StockQuantity:  40,
			Specifications: `Apple M2 chip, 8-core CPU, 8-core GPU, 13.6" Liquid Retina Display, 8GB RAM, 256GB SSD`,
			Category:       CategoryLaptops,
		},
		{
			Name:           "Mechanical Keyboard",
			Description:    "Durable mechanical keyboard with customizable RGB lighting and tactile switches.",
			Price:          decimal.RequireFromString("129.00"),
			ImageURL:       "https://images.unsplash.com/photo-1541140532154-b024d705b90a?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=400",
			StockQuantity:  80,
			Specifications: "RGB Backlit, Tactile Mechanical Switches, Full-size, USB-C connectivity",
			Category:       CategoryAccessories,
		},
	}
}

// Seed inserts SampleProducts when the store is empty and reports how many
// records were written.
func Seed(ctx context.Context, s Store) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: list: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	for _, p := range SampleProducts() {
		if _, err := s.Create(ctx, p); err != nil {
			return n, fmt.Errorf("seed: create %q: %w", p.Name, err)
		}
		n++
	}
	return n, nil
}
