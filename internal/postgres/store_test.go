package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	"github.com/ariefcatur/go-catalog/internal/catalog/catalogtest"
)

func TestBuildUpdate(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	stock := catalog.Quantity(3)
	price := decimal.RequireFromString("10.50")
	cat := catalog.CategoryTablets

	set, args := buildUpdate(catalog.ProductPatch{StockQuantity: &stock, Price: &price, Category: &cat}, now)

	assert.Equal(t, "price=$1, stock_quantity=$2, category=$3, updated_at=$4", set)
	require.Len(t, args, 4)
	assert.Equal(t, price, args[0])
	assert.Equal(t, 3, args[1])
	assert.Equal(t, "tablets", args[2])
	assert.Equal(t, now, args[3])
}

func TestBuildUpdateOnlyTimestamp(t *testing.T) {
	set, args := buildUpdate(catalog.ProductPatch{}, time.Time{})
	assert.Equal(t, "updated_at=$1", set)
	assert.Len(t, args, 1)
}

// Runs against a real database only when POSTGRES_TEST_DSN is set.
func TestStoreContract(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(pool))

	suite.Run(t, &catalogtest.StoreSuite{
		NewStore: func() catalog.Store {
			_, err := pool.Exec(ctx, `TRUNCATE products`)
			require.NoError(t, err)
			return &Store{DB: pool}
		},
	})
}

func TestCategoryCheckConstraint(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(pool))

	_, err = pool.Exec(ctx, `INSERT INTO products(id, name, description, price, image_url, category, created_at, updated_at)
		VALUES ('chk', 'a', 'b', 1, 'https://x/y.png', 'toys', now(), now())`)
	assert.Error(t, err)
}
