package service

import (
	"errors"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrNotReviewAuthor     = errors.New("review belongs to another user")
	ErrReviewAlreadyExists = errors.New("product already reviewed by this user")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrEmptyReviewContent  = errors.New("review content must not be empty")
)

// ProductReviews bundles a product's reviews with its rating summary.
type ProductReviews struct {
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
	ReviewCount   int64          `json:"review_count"`
}

type ReviewService interface {
	GetProductReviews(productID uint) (*ProductReviews, error)
	CreateReview(userID, productID uint, rating int, content string) (*model.Review, error)
	UpdateReview(userID, reviewID uint, rating int, content string) (*model.Review, error)
	DeleteReview(userID, reviewID uint, isAdmin bool) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) GetProductReviews(productID uint) (*ProductReviews, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProductID(productID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.reviewRepo.AverageRating(productID)
	if err != nil {
		return nil, err
	}

	return &ProductReviews{
		Reviews:       reviews,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

func (s *reviewService) CreateReview(userID, productID uint, rating int, content string) (*model.Review, error) {
	if err := checkReviewInput(rating, content); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Content:   content,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) UpdateReview(userID, reviewID uint, rating int, content string) (*model.Review, error) {
	if err := checkReviewInput(rating, content); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotReviewAuthor
	}

	review.Rating = rating
	review.Content = content
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(userID, reviewID uint, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if !isAdmin && review.UserID != userID {
		return ErrNotReviewAuthor
	}
	return s.reviewRepo.Delete(review.ID)
}

func checkReviewInput(rating int, content string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if content == "" {
		return ErrEmptyReviewContent
	}
	return nil
}
