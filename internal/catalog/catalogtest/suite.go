// Package catalogtest holds the behaviour every catalog.Store backend must
// share. Backend packages run it from their own tests.
package catalogtest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ariefcatur/go-catalog/internal/catalog"
)

type StoreSuite struct {
	suite.Suite

	// NewStore returns an empty store. It is called before every test.
	NewStore func() catalog.Store

	Store catalog.Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Store = s.NewStore()
}

func mouse() catalog.NewProduct {
	return catalog.NewProduct{
		Name:           "Mouse",
		Description:    "x",
		Price:          decimal.RequireFromString("29.99"),
		ImageURL:       "https://x/y.png",
		StockQuantity:  5,
		Specifications: "DPI: 1600, Buttons: 3",
		Category:       catalog.CategoryAccessories,
	}
}

// requireSameProduct compares every field; timestamps tolerate backend precision.
func (s *StoreSuite) requireSameProduct(want, got catalog.Product) {
	t := s.T()
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Description, got.Description)
	require.True(t, want.Price.Equal(got.Price), "price %s != %s", want.Price, got.Price)
	require.Equal(t, want.ImageURL, got.ImageURL)
	require.Equal(t, want.StockQuantity, got.StockQuantity)
	require.Equal(t, want.Specifications, got.Specifications)
	require.Equal(t, want.Category, got.Category)
	require.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Millisecond)
	require.WithinDuration(t, want.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

func (s *StoreSuite) TestCreateThenGet() {
	in := mouse()
	created, err := s.Store.Create(s.ctx, in)
	s.Require().NoError(err)

	s.NotEmpty(created.ID)
	_, err = uuid.Parse(created.ID)
	s.NoError(err)
	s.Equal(in.Name, created.Name)
	s.True(in.Price.Equal(created.Price))
	s.Equal(int(in.StockQuantity), created.StockQuantity)
	s.Equal(in.Category, created.Category)
	s.False(created.CreatedAt.IsZero())

	got, ok, err := s.Store.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.requireSameProduct(created, got)
}

func (s *StoreSuite) TestCreateAppliesDefaults() {
	in := mouse()
	in.Category = ""
	in.StockQuantity = 0
	in.Specifications = ""

	created, err := s.Store.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(catalog.DefaultCategory, created.Category)
	s.Zero(created.StockQuantity)
	s.Empty(created.Specifications)
}

func (s *StoreSuite) TestCreateAssignsDistinctIDs() {
	a, err := s.Store.Create(s.ctx, mouse())
	s.Require().NoError(err)
	b, err := s.Store.Create(s.ctx, mouse())
	s.Require().NoError(err)
	s.NotEqual(a.ID, b.ID)
}

func (s *StoreSuite) TestListReturnsEveryRecord() {
	list, err := s.Store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)

	ids := map[string]bool{}
	for _, p := range catalog.SampleProducts() {
		created, err := s.Store.Create(s.ctx, p)
		s.Require().NoError(err)
		ids[created.ID] = true
	}

	list, err = s.Store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(list, len(ids))
	for _, p := range list {
		s.True(ids[p.ID], "unexpected id %s", p.ID)
	}
}

func (s *StoreSuite) TestGetMissing() {
	_, ok, err := s.Store.Get(s.ctx, uuid.NewString())
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestUpdateChangesOnlyGivenField() {
	created, err := s.Store.Create(s.ctx, mouse())
	s.Require().NoError(err)

	stock := catalog.Quantity(0)
	updated, ok, err := s.Store.Update(s.ctx, created.ID, catalog.ProductPatch{StockQuantity: &stock})
	s.Require().NoError(err)
	s.Require().True(ok)

	want := created
	want.StockQuantity = 0
	want.UpdatedAt = updated.UpdatedAt
	s.requireSameProduct(want, updated)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))

	got, ok, err := s.Store.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.requireSameProduct(updated, got)
}

func (s *StoreSuite) TestUpdateEveryField() {
	created, err := s.Store.Create(s.ctx, mouse())
	s.Require().NoError(err)

	name, desc, img, specs := "Trackball", "y", "https://x/t.png", ""
	price := decimal.RequireFromString("59.50")
	stock := catalog.Quantity(9)
	cat := catalog.CategoryElectronics
	updated, ok, err := s.Store.Update(s.ctx, created.ID, catalog.ProductPatch{
		Name: &name, Description: &desc, Price: &price, ImageURL: &img,
		StockQuantity: &stock, Specifications: &specs, Category: &cat,
	})
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(created.ID, updated.ID)
	s.Equal(name, updated.Name)
	s.Equal(desc, updated.Description)
	s.True(price.Equal(updated.Price))
	s.Equal(img, updated.ImageURL)
	s.Equal(9, updated.StockQuantity)
	s.Empty(updated.Specifications)
	s.Equal(cat, updated.Category)
}

func (s *StoreSuite) TestUpdateEmptyPatchReturnsRecord() {
	created, err := s.Store.Create(s.ctx, mouse())
	s.Require().NoError(err)

	got, ok, err := s.Store.Update(s.ctx, created.ID, catalog.ProductPatch{})
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(created.ID, got.ID)
	s.Equal(created.Name, got.Name)
}

func (s *StoreSuite) TestUpdateMissing() {
	name := "ghost"
	_, ok, err := s.Store.Update(s.ctx, uuid.NewString(), catalog.ProductPatch{Name: &name})
	s.NoError(err)
	s.False(ok)

	_, ok, err = s.Store.Update(s.ctx, uuid.NewString(), catalog.ProductPatch{})
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestDelete() {
	created, err := s.Store.Create(s.ctx, mouse())
	s.Require().NoError(err)

	ok, err := s.Store.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(ok)

	_, found, err := s.Store.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(found)

	for i := 0; i < 2; i++ {
		ok, err = s.Store.Delete(s.ctx, created.ID)
		s.NoError(err)
		s.False(ok)
	}
}

func (s *StoreSuite) TestConcurrentCreates() {
	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Store.Create(s.ctx, mouse())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	list, err := s.Store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(list, n)
}
