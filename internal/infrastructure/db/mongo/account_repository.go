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

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

// mongoAccount stores the balance as Decimal128 so no precision is lost.
type mongoAccount struct {
	Number    int64                `bson:"account_number"`
	PINHash   string               `bson:"pin_hash"`
	Balance   primitive.Decimal128 `bson:"balance"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	balance, err := toDecimal128(a.Balance)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, mongoAccount{
		Number:    a.Number,
		PINHash:   a.PINHash,
		Balance:   balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAccount
	if err := r.col.FindOne(ctx, bson.M{"account_number": number}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain()
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	value, err := toDecimal128(balance)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"account_number": number},
		bson.M{"$set": bson.M{"balance": value, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "account_number", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		a, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (ma mongoAccount) toDomain() (*domain.Account, error) {
	balance, err := decimal.NewFromString(ma.Balance.String())
	if err != nil {
		return nil, fmt.Errorf("decode balance of account %d: %w", ma.Number, err)
	}
	return &domain.Account{
		Number:    ma.Number,
		PINHash:   ma.PINHash,
		Balance:   balance,
		CreatedAt: ma.CreatedAt,
		UpdatedAt: ma.UpdatedAt,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return v, nil
}
