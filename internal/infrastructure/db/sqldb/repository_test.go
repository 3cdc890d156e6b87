package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recordkeep/records-system/internal/core/domain"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
	require.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: DriverSQLite})
	require.Error(t, err)
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(initTestDB(t))
	now := time.Now().UTC()

	acc := &domain.Account{Number: 1001, PINHash: "hash", Balance: decimal.RequireFromString("100.00"), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, acc))
	require.ErrorIs(t, repo.Create(ctx, acc), domain.ErrAccountExists)

	got, err := repo.FindByNumber(ctx, 1001)
	require.NoError(t, err)
	require.Equal(t, "hash", got.PINHash)
	require.True(t, got.Balance.Equal(decimal.RequireFromString("100")), "balance = %s", got.Balance)

	require.NoError(t, repo.UpdateBalance(ctx, 1001, decimal.RequireFromString("75.50")))
	got, err = repo.FindByNumber(ctx, 1001)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.RequireFromString("75.5")), "balance = %s", got.Balance)

	require.ErrorIs(t, repo.UpdateBalance(ctx, 9999, decimal.Zero), domain.ErrAccountNotFound)
	_, err = repo.FindByNumber(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Create(ctx, &domain.Account{Number: 7, PINHash: "h", Balance: decimal.Zero}))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, int64(7), all[0].Number)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(initTestDB(t))

	created, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h1"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h2"})
	require.ErrorIs(t, err, domain.ErrUserExists)

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "h1", got.PasswordHash)
	require.Equal(t, created.ID, got.ID)

	_, err = repo.FindByUsername(ctx, "bob")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(initTestDB(t))

	p := &domain.Product{Name: "Widget", Quantity: 4, Price: decimal.RequireFromString("2.50")}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	p.Quantity = 0
	p.Name = "Widget v2"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget v2", got.Name)
	require.Equal(t, 0, got.Quantity)
	require.True(t, got.Price.Equal(decimal.RequireFromString("2.5")))

	missing := &domain.Product{ID: p.ID + 100, Name: "ghost"}
	require.ErrorIs(t, repo.Update(ctx, missing), domain.ErrProductNotFound)
	_, err = repo.FindByID(ctx, missing.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID))
	require.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrProductNotFound)
}

func TestProductRepository_FindWhere(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(initTestDB(t))

	for _, p := range []*domain.Product{
		{Name: "A", Quantity: 3, Price: decimal.NewFromInt(1)},
		{Name: "B", Quantity: 5, Price: decimal.NewFromInt(1)},
		{Name: "C", Quantity: 10, Price: decimal.NewFromInt(1)},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	limit := 5
	low, err := repo.FindWhere(ctx, domain.ProductFilter{MaxQuantity: &limit})
	require.NoError(t, err)
	require.Len(t, low, 2)
	require.Equal(t, "A", low[0].Name)
	require.Equal(t, "B", low[1].Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Less(t, all[0].ID, all[2].ID)
}
