package service

import (
	"errors"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrNotCartItemOwner  = errors.New("cart item belongs to another user")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrSizeNotStocked    = errors.New("requested size is not stocked for this product")
	ErrInsufficientStock = errors.New("not enough stock for requested quantity")
)

type CartService interface {
	GetCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint, size, color string, quantity int) (*model.CartItem, error)
	UpdateQuantity(userID, cartItemID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

func (s *cartService) GetCart(userID uint) ([]model.CartItem, error) {
	return s.cartRepo.FindByUserID(userID)
}

// AddToCart adds a product+size+color line to the cart. Adding the same
// combination again merges into the existing line instead of duplicating
// it. The unit price is captured from the catalog at add time.
func (s *cartService) AddToCart(userID, productID uint, size, color string, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if color == "" {
		color = model.DefaultColor
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	variant, err := s.variantRepo.FindByProductAndSize(productID, size)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSizeNotStocked
		}
		return nil, err
	}

	existing, err := s.cartRepo.FindByUserProductSizeColor(userID, productID, size, color)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Color-only lines draw from the same inventory row, so the stock
	// check covers every line the user holds for this product+size.
	held, err := s.heldQuantity(userID, productID, size, 0)
	if err != nil {
		return nil, err
	}
	requested := quantity + held
	if variant.StockQuantity < requested {
		logger.Warn("Add to cart rejected: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"size":       size,
			"requested":  requested,
			"available":  variant.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return s.cartRepo.FindByID(existing.ID)
	}

	cartItem := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Size:      size,
		Color:     color,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}
	if err := s.cartRepo.Create(cartItem); err != nil {
		return nil, err
	}
	return s.cartRepo.FindByID(cartItem.ID)
}

// UpdateQuantity sets a line's quantity. Setting it to zero removes the
// line; the returned item is nil in that case.
func (s *cartService) UpdateQuantity(userID, cartItemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	cartItem, err := s.ownedCartItem(userID, cartItemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.cartRepo.Delete(cartItem.ID); err != nil {
			return nil, err
		}
		logger.Debug("Cart line removed via zero quantity", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
		})
		return nil, nil
	}

	variant, err := s.variantRepo.FindByProductAndSize(cartItem.ProductID, cartItem.Size)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSizeNotStocked
		}
		return nil, err
	}
	held, err := s.heldQuantity(userID, cartItem.ProductID, cartItem.Size, cartItem.ID)
	if err != nil {
		return nil, err
	}
	if variant.StockQuantity < quantity+held {
		return nil, ErrInsufficientStock
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		return nil, err
	}
	return cartItem, nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	cartItem, err := s.ownedCartItem(userID, cartItemID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(cartItem.ID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.DeleteByUserID(userID)
}

// heldQuantity sums the quantity the user already holds in cart lines for
// a product+size, across colors. excludeID skips one line (the one being
// updated); zero skips none.
func (s *cartService) heldQuantity(userID, productID uint, size string, excludeID uint) (int, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return 0, err
	}
	held := 0
	for _, line := range cartItems {
		if line.ID == excludeID {
			continue
		}
		if line.ProductID == productID && line.Size == size {
			held += line.Quantity
		}
	}
	return held, nil
}

func (s *cartService) ownedCartItem(userID, cartItemID uint) (*model.CartItem, error) {
	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if cartItem.UserID != userID {
		return nil, ErrNotCartItemOwner
	}
	return cartItem, nil
}
