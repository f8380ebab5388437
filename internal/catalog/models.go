package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       string          `json:"imageUrl"`
	StockQuantity  int             `json:"stockQuantity"`
	Specifications string          `json:"specifications,omitempty"`
	Category       Category        `json:"category"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewProduct is the insert payload. The store assigns the id.
type NewProduct struct {
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description" validate:"required"`
	Price          decimal.Decimal `json:"price" validate:"gt=0,price"`
	ImageURL       string          `json:"imageUrl" validate:"required,url"`
	StockQuantity  Quantity        `json:"stockQuantity" validate:"gte=0"`
	Specifications string          `json:"specifications,omitempty"`
	Category       Category        `json:"category" validate:"omitempty,oneof=electronics laptops smartphones accessories tablets"`
}

// WithDefaults fills the optional fields the payload left empty.
func (n NewProduct) WithDefaults() NewProduct {
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	return n
}

// ProductPatch is the partial update payload; nil fields are left unchanged.
type ProductPatch struct {
	Name           *string          `json:"name,omitempty" validate:"omitnil,min=1"`
	Description    *string          `json:"description,omitempty" validate:"omitnil,min=1"`
	Price          *decimal.Decimal `json:"price,omitempty" validate:"omitnil,gt=0,price"`
	ImageURL       *string          `json:"imageUrl,omitempty" validate:"omitnil,min=1,url"`
	StockQuantity  *Quantity        `json:"stockQuantity,omitempty" validate:"omitnil,gte=0"`
	Specifications *string          `json:"specifications,omitempty"`
	Category       *Category        `json:"category,omitempty" validate:"omitnil,oneof=electronics laptops smartphones accessories tablets"`
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.ImageURL == nil &&
		p.StockQuantity == nil && p.Specifications == nil && p.Category == nil
}

// Apply merges the present fields onto prod and returns the result.
func (p ProductPatch) Apply(prod Product) Product {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
	if p.StockQuantity != nil {
		prod.StockQuantity = int(*p.StockQuantity)
	}
	if p.Specifications != nil {
		prod.Specifications = *p.Specifications
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	return prod
}

// Build turns a validated insert payload into a record with the given id and time.
func (n NewProduct) Build(id string, now time.Time) Product {
	n = n.WithDefaults()
	return Product{
		ID:             id,
		Name:           n.Name,
		Description:    n.Description,
		Price:          n.Price,
		ImageURL:       n.ImageURL,
		StockQuantity:  int(n.StockQuantity),
		Specifications: n.Specifications,
		Category:       n.Category,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Quantity is an integer that also accepts a quoted numeric string on input,
// as form-driven clients send "5" rather than 5.
type Quantity int

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 1 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	if err != nil || f != math.Trunc(f) {
		return fmt.Errorf("quantity %q is not an integer", string(b))
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("quantity %q is out of range", string(b))
	}
	*q = Quantity(f)
	return nil
}
