package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	"github.com/ariefcatur/go-catalog/internal/catalog/catalogtest"
)

func TestStoreContract(t *testing.T) {
	suite.Run(t, &catalogtest.StoreSuite{
		NewStore: func() catalog.Store { return New() },
	})
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	var want []string
	for _, p := range catalog.SampleProducts() {
		created, err := s.Create(ctx, p)
		require.NoError(t, err)
		want = append(want, created.ID)
	}
	ok, err := s.Delete(ctx, want[1])
	require.NoError(t, err)
	require.True(t, ok)
	want = append(want[:1], want[2:]...)

	list, err := s.List(ctx)
	require.NoError(t, err)
	got := make([]string, 0, len(list))
	for _, p := range list {
		got = append(got, p.ID)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 4, s.Len())
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, err := s.Create(ctx, catalog.SampleProducts()[0])
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	list[0].Name = "mutated"

	got, _, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
}

func TestSeedFreshStore(t *testing.T) {
	n, err := catalog.Seed(context.Background(), New())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
