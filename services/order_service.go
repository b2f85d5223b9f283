package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/printforge/print-shop-api/config"
	"github.com/printforge/print-shop-api/models"
	"gorm.io/gorm"
)

// ShippingAddress is the delivery address captured at quote acceptance
type ShippingAddress struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
}

// OrderResponse is returned to the caller after a successful acceptance
type OrderResponse struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	QuoteID       string    `json:"quote_id"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderService converts accepted quotes into orders and answers order lookups
type OrderService struct {
	email EmailService
}

var orderServiceInstance *OrderService

// InitOrderService initializes the order service with the given email service
func InitOrderService(email EmailService) *OrderService {
	orderServiceInstance = &OrderService{email: email}
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// SetOrderService sets the order service instance (primarily for testing)
func SetOrderService(service *OrderService) {
	orderServiceInstance = service
}

// AcceptQuote converts a pending, unexpired quote into an order.
//
// Validation inside the transaction, in order: the quote must exist, must not
// be expired, must not already be accepted, and must not be claimed by a
// different user. The status check precedes the ownership check, so an
// already-accepted quote always reports "already used" regardless of who asks.
//
// The transition is atomic: the quote status flips with a conditional update
// (WHERE status = 'pending') before the order row is inserted, so when two
// acceptance calls race, exactly one succeeds and the other fails with
// ErrQuoteAlreadyUsed after rollback. The locked-in total_price from the
// quote is copied, never recomputed. An unclaimed quote is bound to the
// accepting user (COALESCE keeps an existing owner).
func (s *OrderService) AcceptQuote(userID uint, quoteID string, shipping ShippingAddress) (*OrderResponse, error) {
	db := config.GetDB()

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var quote models.Quote
		if err := tx.First(&quote, "id = ?", quoteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuoteNotFound
			}
			return fmt.Errorf("failed to load quote: %w", err)
		}

		now := time.Now()
		if quote.IsExpired(now) {
			return ErrQuoteExpired
		}
		if quote.Status != models.QuoteStatusPending {
			return ErrQuoteAlreadyUsed
		}
		if quote.UserID != nil && *quote.UserID != userID {
			return ErrQuoteUnauthorized
		}

		// Single-use guard: only one transaction can move the quote out of
		// pending. Zero rows affected means a concurrent acceptance won.
		result := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", quote.ID, models.QuoteStatusPending).
			Updates(map[string]interface{}{
				"status":  models.QuoteStatusAccepted,
				"user_id": gorm.Expr("COALESCE(user_id, ?)", userID),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update quote: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrQuoteAlreadyUsed
		}

		order = models.Order{
			ID:                 uuid.NewString(),
			OrderNumber:        generateOrderNumber(now),
			QuoteID:            quote.ID,
			UserID:             userID,
			TotalAmount:        quote.TotalPrice,
			Status:             models.OrderStatusPending,
			PaymentStatus:      models.PaymentStatusPending,
			ShippingName:       shipping.Name,
			ShippingAddress:    shipping.Address,
			ShippingCity:       shipping.City,
			ShippingPostalCode: shipping.PostalCode,
			ShippingCountry:    shipping.Country,
			ShippingPhone:      shipping.Phone,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, best-effort: the order exists whether or not the
	// confirmation email goes out.
	var user models.User
	if err := db.First(&user, order.UserID).Error; err != nil {
		log.Printf("Failed to load user %d for order confirmation: %v", order.UserID, err)
	} else if err := s.email.SendOrderConfirmation(user.Email, order.OrderNumber, order.TotalAmount); err != nil {
		log.Printf("Failed to send order confirmation email: %v", err)
	}

	log.Printf("Order created: %s for user %d", order.OrderNumber, order.UserID)

	return &OrderResponse{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		QuoteID:       order.QuoteID,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
	}, nil
}

// generateOrderNumber builds a display order number: ORD-YYYYMMDD-NNNN with a
// random 4-digit suffix. Collisions are possible and accepted; Order.ID is
// the identity, the order number is for humans.
func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%d", now.Format("20060102"), 1000+rand.Intn(9000))
}

// GetOrder returns one of the user's orders with its quote, material and
// print configuration. Lookups across users report not found, never another
// user's order.
func (s *OrderService) GetOrder(userID uint, orderID string) (*models.Order, error) {
	db := config.GetDB()

	var order models.Order
	err := db.Preload("Quote").Preload("Quote.Material").Preload("Quote.PrintConfig").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	return &order, nil
}

// GetUserOrders returns all of the user's orders, newest first
func (s *OrderService) GetUserOrders(userID uint) ([]models.Order, error) {
	db := config.GetDB()

	var orders []models.Order
	err := db.Preload("Quote").Preload("Quote.Material").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus updates the fulfillment status of an order. Called by
// fulfillment collaborators, not by the acceptance flow itself.
func (s *OrderService) UpdateOrderStatus(orderID, status string) error {
	db := config.GetDB()

	result := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	log.Printf("Order %s status updated to: %s", orderID, status)
	return nil
}

// UpdatePaymentStatus updates the payment status of an order, optionally
// recording the payment provider's id. Called by payment collaborators.
func (s *OrderService) UpdatePaymentStatus(orderID, paymentStatus string, paymentID *string) error {
	db := config.GetDB()

	result := db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"payment_status": paymentStatus,
		"payment_id":     paymentID,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	log.Printf("Order %s payment status updated to: %s", orderID, paymentStatus)
	return nil
}
