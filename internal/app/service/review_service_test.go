package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/db"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewService := NewReviewService(
		repository.NewReviewRepository(testDB),
		repository.NewProductRepository(testDB),
	)

	user := &model.User{Email: "shopper@example.com", PasswordHash: "hash", Name: "Shopper"}
	testDB.Create(user)

	product := &model.Product{Name: "Suede Classic", Brand: "Puma", Price: 79.99, Category: model.CategoryLifestyle}
	testDB.Create(product)

	return reviewService, user, product, testDB
}

func TestReviewService_CreateAndSummary(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other"}
	testDB.Create(other)

	_, err := reviewService.CreateReview(user.ID, product.ID, 5, "Great fit")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(other.ID, product.ID, 3, "Runs narrow")
	require.NoError(t, err)

	summary, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Reviews, 2)
	assert.Equal(t, int64(2), summary.ReviewCount)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
}

func TestReviewService_GetProductReviews_NoReviews(t *testing.T) {
	reviewService, _, product, _ := setupReviewServiceTest(t)

	summary, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Reviews)
	assert.Equal(t, int64(0), summary.ReviewCount)
	assert.Equal(t, 0.0, summary.AverageRating)
}

func TestReviewService_CreateReview_Invalid(t *testing.T) {
	reviewService, user, product, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, product.ID, 6, "Too good")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = reviewService.CreateReview(user.ID, product.ID, 4, "")
	assert.ErrorIs(t, err, ErrEmptyReviewContent)

	_, err = reviewService.CreateReview(user.ID, 9999, 4, "Ghost product")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_UpdateReview_AuthorOnly(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other"}
	testDB.Create(other)

	review, err := reviewService.CreateReview(user.ID, product.ID, 4, "Decent")
	require.NoError(t, err)

	updated, err := reviewService.UpdateReview(user.ID, review.ID, 5, "Grew on me")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	_, err = reviewService.UpdateReview(other.ID, review.ID, 1, "Hijack")
	assert.ErrorIs(t, err, ErrNotReviewAuthor)
}

func TestReviewService_DeleteReview_AdminOverride(t *testing.T) {
	reviewService, user, product, testDB := setupReviewServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other"}
	testDB.Create(other)

	review, err := reviewService.CreateReview(user.ID, product.ID, 4, "Decent")
	require.NoError(t, err)

	err = reviewService.DeleteReview(other.ID, review.ID, false)
	assert.ErrorIs(t, err, ErrNotReviewAuthor)

	require.NoError(t, reviewService.DeleteReview(other.ID, review.ID, true))

	err = reviewService.DeleteReview(user.ID, review.ID, false)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
