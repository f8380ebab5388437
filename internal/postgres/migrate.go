package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// productRecord is the table definition only; reads and writes go through pgx.
type productRecord struct {
	ID             string          `gorm:"primaryKey;type:text"`
	Name           string          `gorm:"type:text;not null"`
	Description    string          `gorm:"type:text;not null"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ImageURL       string          `gorm:"column:image_url;type:text;not null"`
	StockQuantity  int             `gorm:"not null;default:0"`
	Specifications string          `gorm:"type:text;not null;default:''"`
	Category       string          `gorm:"type:text;not null;default:electronics;index;check:chk_products_category,category IN ('electronics','laptops','smartphones','accessories','tablets')"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

func (productRecord) TableName() string { return "products" }

// Migrate creates or extends the products table using the pool's connections.
func Migrate(pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	db, err := gorm.Open(gormpg.New(gormpg.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return fmt.Errorf("automigrate products: %w", err)
	}
	return nil
}
