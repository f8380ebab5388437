package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpecifications(t *testing.T) {
	got := ParseSpecifications("CPU: Apple M2, RAM: 8GB,  , USB-C, Ratio: 16:10")
	assert.Equal(t, []Spec{
		{Key: "CPU", Value: "Apple M2"},
		{Key: "RAM", Value: "8GB"},
		{Key: "USB-C", Value: ""},
		{Key: "Ratio", Value: "16:10"},
	}, got)

	assert.Empty(t, ParseSpecifications(""))
	assert.NotNil(t, ParseSpecifications(""))
}

func TestSampleProductsAreValid(t *testing.T) {
	for _, p := range SampleProducts() {
		assert.NoError(t, p.Validate(), p.Name)
	}
}

type countingStore struct {
	Store
	existing []Product
	created  []NewProduct
}

func (s *countingStore) List(context.Context) ([]Product, error) { return s.existing, nil }

func (s *countingStore) Create(_ context.Context, in NewProduct) (Product, error) {
	s.created = append(s.created, in)
	return in.Build("x", time.Time{}), nil
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	empty := &countingStore{}
	n, err := Seed(ctx, empty)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Len(t, empty.created, 5)

	full := &countingStore{existing: []Product{{ID: "1"}}}
	n, err = Seed(ctx, full)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, full.created)
}
