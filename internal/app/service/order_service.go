package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotOrderOwner      = errors.New("order belongs to another user")
	ErrInvalidOrderStatus = errors.New("unknown order status")
)

type OrderService interface {
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)

	// Admin operations
	ListOrders(limit, offset int) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
	ExportOrders(limit, offset int) ([]byte, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

func (s *orderService) ListOrders(limit, offset int) ([]model.Order, error) {
	return s.orderRepo.FindAll(limit, offset)
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	switch status {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusShipping,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	order.Status = status
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	switch status {
	case model.PaymentStatusPending, model.PaymentStatusCompleted,
		model.PaymentStatusFailed, model.PaymentStatusRefunded:
	default:
		return ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	order.PaymentStatus = status
	return s.orderRepo.Update(order)
}

// ExportOrders renders recent orders to an xlsx workbook for back-office
// reporting. One row per order; item details stay in the API.
func (s *orderService) ExportOrders(limit, offset int) ([]byte, error) {
	orders, err := s.orderRepo.FindAll(limit, offset)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Order Number", "User ID", "Placed At", "Items",
		"Subtotal", "Shipping", "Discount", "Coupon", "Total",
		"Shipping Method", "Status", "Payment Status",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, order := range orders {
		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Quantity
		}

		values := []interface{}{
			order.OrderNumber,
			order.UserID,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
			itemCount,
			order.Subtotal,
			order.ShippingCost,
			order.DiscountAmount,
			order.DiscountCode,
			order.TotalAmount,
			string(order.ShippingMethod),
			string(order.Status),
			string(order.PaymentStatus),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write orders workbook: %w", err)
	}

	logger.Info("Orders exported", map[string]interface{}{
		"order_count": len(orders),
	})
	return buf.Bytes(), nil
}
