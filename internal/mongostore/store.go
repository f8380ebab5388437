// Package mongostore persists products in a MongoDB collection. Documents use
// the product's UUID string as _id and store price as Decimal128.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ariefcatur/go-catalog/internal/catalog"
)

const Collection = "products"

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

type productDoc struct {
	ID             string               `bson:"_id"`
	Name           string               `bson:"name"`
	Description    string               `bson:"description"`
	Price          primitive.Decimal128 `bson:"price"`
	ImageURL       string               `bson:"imageUrl"`
	StockQuantity  int                  `bson:"stockQuantity"`
	Specifications string               `bson:"specifications,omitempty"`
	Category       string               `bson:"category"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func toDoc(p catalog.Product) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          price,
		ImageURL:       p.ImageURL,
		StockQuantity:  p.StockQuantity,
		Specifications: p.Specifications,
		Category:       string(p.Category),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

func (d productDoc) product() (catalog.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return catalog.Product{}, fmt.Errorf("product %s: price %q: %w", d.ID, d.Price.String(), err)
	}
	return catalog.Product{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		Price:          price,
		ImageURL:       d.ImageURL,
		StockQuantity:  d.StockQuantity,
		Specifications: d.Specifications,
		Category:       catalog.Category(d.Category),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("price %s: %w", d, err)
	}
	return v, nil
}

type Store struct {
	coll *mongo.Collection
}

var _ catalog.Store = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(Collection)}
}

// EnsureIndexes backs the category filter.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}})
	return err
}

// mongo keeps milliseconds only
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func (s *Store) List(ctx context.Context) ([]catalog.Product, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	out := []catalog.Product{}
	for cur.Next(ctx) {
		var d productDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		p, err := d.product()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

func (s *Store) Get(ctx context.Context, id string) (catalog.Product, bool, error) {
	var d productDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, fmt.Errorf("get product %s: %w", id, err)
	}
	p, err := d.product()
	return p, err == nil, err
}

func (s *Store) Create(ctx context.Context, in catalog.NewProduct) (catalog.Product, error) {
	p := in.Build(uuid.NewString(), now())
	d, err := toDoc(p)
	if err != nil {
		return catalog.Product{}, err
	}
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		return catalog.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, id string, patch catalog.ProductPatch) (catalog.Product, bool, error) {
	if patch.Empty() {
		return s.Get(ctx, id)
	}
	set, err := setDoc(patch, now())
	if err != nil {
		return catalog.Product{}, false, err
	}

	var d productDoc
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, fmt.Errorf("update product %s: %w", id, err)
	}
	p, err := d.product()
	return p, err == nil, err
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// setDoc holds only the fields present in patch plus updatedAt.
func setDoc(patch catalog.ProductPatch, ts time.Time) (bson.D, error) {
	var set bson.D
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Price != nil {
		price, err := toDecimal128(*patch.Price)
		if err != nil {
			return nil, err
		}
		set = append(set, bson.E{Key: "price", Value: price})
	}
	if patch.ImageURL != nil {
		set = append(set, bson.E{Key: "imageUrl", Value: *patch.ImageURL})
	}
	if patch.StockQuantity != nil {
		set = append(set, bson.E{Key: "stockQuantity", Value: int(*patch.StockQuantity)})
	}
	if patch.Specifications != nil {
		set = append(set, bson.E{Key: "specifications", Value: *patch.Specifications})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: string(*patch.Category)})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: ts})
	return set, nil
}
