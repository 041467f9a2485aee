package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/db"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	wishlistService := NewWishlistService(
		repository.NewWishlistRepository(testDB),
		repository.NewProductRepository(testDB),
	)

	user := &model.User{Email: "shopper@example.com", PasswordHash: "hash", Name: "Shopper"}
	testDB.Create(user)

	product := &model.Product{Name: "Chuck 70", Brand: "Converse", Price: 84.99, Category: model.CategoryLifestyle}
	testDB.Create(product)

	return wishlistService, user, product
}

func TestWishlistService_AddAndGet(t *testing.T) {
	wishlistService, user, product := setupWishlistServiceTest(t)

	item, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, item.ProductID)

	items, err := wishlistService.GetWishlist(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chuck 70", items[0].Product.Name)
}

func TestWishlistService_Add_Duplicate(t *testing.T) {
	wishlistService, user, product := setupWishlistServiceTest(t)

	_, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)

	_, err = wishlistService.AddToWishlist(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemExists)
}

func TestWishlistService_Add_ProductNotFound(t *testing.T) {
	wishlistService, user, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.AddToWishlist(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_Remove(t *testing.T) {
	wishlistService, user, product := setupWishlistServiceTest(t)

	_, err := wishlistService.AddToWishlist(user.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, wishlistService.RemoveFromWishlist(user.ID, product.ID))

	items, err := wishlistService.GetWishlist(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)

	err = wishlistService.RemoveFromWishlist(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}
