package catalog

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryLaptops     Category = "laptops"
	CategorySmartphones Category = "smartphones"
	CategoryAccessories Category = "accessories"
	CategoryTablets     Category = "tablets"
)

// DefaultCategory is applied when an insert payload omits the category.
const DefaultCategory = CategoryElectronics

// Categories lists the enum in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryLaptops,
	CategorySmartphones,
	CategoryAccessories,
	CategoryTablets,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}
