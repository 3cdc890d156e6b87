package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// ProductRepository stores products keyed by an integer _id drawn from the
// counters collection, so ascending _id is insertion order.
type ProductRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		col:      db.Collection(collectionProducts),
		counters: db.Collection(collectionCounters),
	}
}

type mongoProduct struct {
	ID        int64                `bson:"_id"`
	Name      string               `bson:"name"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	doc, err := fromProduct(p)
	if err != nil {
		return err
	}
	doc.ID = id

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain()
}

// Update never upserts: a missing _id leaves the collection unchanged.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	price, err := toDecimal128(p.Price)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":       p.Name,
		"quantity":   p.Quantity,
		"price":      price,
		"updated_at": p.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.FindWhere(ctx, domain.ProductFilter{})
}

func (r *ProductRepository) FindWhere(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.MaxQuantity != nil {
		query["quantity"] = bson.M{"$lte": *filter.MaxQuantity}
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	out := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// nextID atomically increments the product sequence.
func (r *ProductRepository) nextID(ctx context.Context) (int64, error) {
	var c counter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionProducts},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next product id: %w", err)
	}
	return c.Seq, nil
}

func fromProduct(p *domain.Product) (mongoProduct, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return mongoProduct{}, err
	}
	return mongoProduct{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (mp mongoProduct) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(mp.Price.String())
	if err != nil {
		return nil, fmt.Errorf("decode price of product %d: %w", mp.ID, err)
	}
	return &domain.Product{
		ID:        mp.ID,
		Name:      mp.Name,
		Quantity:  mp.Quantity,
		Price:     price,
		CreatedAt: mp.CreatedAt,
		UpdatedAt: mp.UpdatedAt,
	}, nil
}
