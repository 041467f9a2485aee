package service

import (
	"errors"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("size not available for this product")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock quantity must not be negative")
)

type ProductService interface {
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetBrands() ([]string, error)
	GetVariants(productID uint) ([]model.ProductVariant, error)

	// Admin operations
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
	AddVariant(productID uint, size string, stockQuantity int) (*model.ProductVariant, error)
	SetVariantStock(variantID uint, quantity int) error
	DeleteVariant(variantID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func NewProductService(productRepo repository.ProductRepository, variantRepo repository.VariantRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetBrands() ([]string, error) {
	return s.productRepo.ListBrands()
}

func (s *productService) GetVariants(productID uint) ([]model.ProductVariant, error) {
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}
	return s.variantRepo.FindByProductID(productID)
}

func (s *productService) CreateProduct(product *model.Product) error {
	if product.Price < 0 {
		return ErrInvalidPrice
	}

	logger.Info("Creating product", map[string]interface{}{
		"name":  product.Name,
		"brand": product.Brand,
	})
	return s.productRepo.Create(product)
}

func (s *productService) UpdateProduct(product *model.Product) error {
	if product.Price < 0 {
		return ErrInvalidPrice
	}

	existing, err := s.GetProductByID(product.ID)
	if err != nil {
		return err
	}

	existing.Name = product.Name
	existing.Brand = product.Brand
	existing.Description = product.Description
	existing.Price = product.Price
	existing.Category = product.Category
	existing.ImageURL = product.ImageURL

	return s.productRepo.Update(existing)
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProductByID(id); err != nil {
		return err
	}

	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})
	return s.productRepo.Delete(id)
}

func (s *productService) AddVariant(productID uint, size string, stockQuantity int) (*model.ProductVariant, error) {
	if stockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}

	variant := &model.ProductVariant{
		ProductID:     productID,
		Size:          size,
		StockQuantity: stockQuantity,
	}
	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}

	logger.Info("Variant added", map[string]interface{}{
		"product_id": productID,
		"size":       size,
		"stock":      stockQuantity,
	})
	return variant, nil
}

func (s *productService) SetVariantStock(variantID uint, quantity int) error {
	if quantity < 0 {
		return ErrInvalidStock
	}

	if _, err := s.variantRepo.FindByID(variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return err
	}

	return s.variantRepo.UpdateStock(variantID, quantity)
}

func (s *productService) DeleteVariant(variantID uint) error {
	if _, err := s.variantRepo.FindByID(variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return err
	}
	return s.variantRepo.Delete(variantID)
}
