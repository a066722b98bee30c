package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:catalog_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Restaurant{}))
	return db
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurant := &models.Restaurant{
		ID:          uuid.New(),
		Name:        "The Gourmet Haven",
		Capacity:    100,
		OpeningTime: "10:00",
		ClosingTime: "23:00",
	}
	require.NoError(t, repo.Create(ctx, restaurant))

	found, err := repo.FindByID(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, found.ID)
	assert.Equal(t, "The Gourmet Haven", found.Name)
	assert.Equal(t, 100, found.Capacity)
}

func TestRepositoryFindMissingReturnsRecordNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListKeepsCreationOrder(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	names := []string{"Zest", "Amber Room", "Mezzo"}
	for _, name := range names {
		require.NoError(t, repo.Create(ctx, &models.Restaurant{
			ID:          uuid.New(),
			Name:        name,
			Capacity:    20,
			OpeningTime: "09:00",
			ClosingTime: "22:00",
		}))
	}

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i, name := range names {
		assert.Equal(t, name, listed[i].Name)
	}
}

func TestRepositoryWithTxUsesTransactionHandle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id := uuid.New()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(ctx, &models.Restaurant{
			ID:          id,
			Name:        "Rolled Back",
			Capacity:    10,
			OpeningTime: "10:00",
			ClosingTime: "20:00",
		}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
