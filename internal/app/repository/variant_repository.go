package repository

import (
	"context"
	"errors"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
	"gorm.io/gorm"
)

// VariantRepository manages the per-size inventory rows. It also backs
// the stock reconciler's inventory lookups.
type VariantRepository interface {
	Create(variant *model.ProductVariant) error
	FindByID(id uint) (*model.ProductVariant, error)
	FindByProductID(productID uint) ([]model.ProductVariant, error)
	FindByProductAndSize(productID uint, size string) (*model.ProductVariant, error)
	AvailableQuantity(ctx context.Context, productID uint, size string) (int, error)
	UpdateStock(id uint, quantity int) error
	Delete(id uint) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) Create(variant *model.ProductVariant) error {
	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create product variant in database", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"size":       variant.Size,
		})
		return err
	}
	return nil
}

func (r *variantRepository) FindByID(id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByProductID(productID uint) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := r.db.Where("product_id = ?", productID).
		Order("size ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) FindByProductAndSize(productID uint, size string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.Where("product_id = ? AND size = ?", productID, size).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// AvailableQuantity reports the live stock level for a product+size.
// A missing inventory row reports zero, never an error.
func (r *variantRepository) AvailableQuantity(ctx context.Context, productID uint, size string) (int, error) {
	var variant model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND size = ?", productID, size).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return variant.StockQuantity, nil
}

func (r *variantRepository) UpdateStock(id uint, quantity int) error {
	err := r.db.Model(&model.ProductVariant{}).
		Where("id = ?", id).
		Update("stock_quantity", quantity).Error
	if err != nil {
		logger.Error("Failed to update variant stock in database", err, map[string]interface{}{
			"variant_id": id,
			"quantity":   quantity,
		})
		return err
	}
	return nil
}

func (r *variantRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ProductVariant{}, id).Error; err != nil {
		logger.Error("Failed to delete variant from database", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}
	return nil
}
