package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printforge/print-shop-api/config"
	"github.com/printforge/print-shop-api/middleware"
	"github.com/printforge/print-shop-api/models"
	"github.com/printforge/print-shop-api/services"
)

// AcceptQuoteRequest represents the request body for accepting a quote
type AcceptQuoteRequest struct {
	QuoteID         string                   `json:"quote_id" binding:"required"`
	ShippingAddress services.ShippingAddress `json:"shipping_address" binding:"required"`
}

// currentUser resolves the authenticated caller to a database user.
// Writes the error response and returns nil when resolution fails.
func currentUser(c *gin.Context) *models.User {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil
	}

	return &user
}

// AcceptQuote handles POST /api/v1/orders - converts a quote into an order
func AcceptQuote(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := services.GetOrderService().AcceptQuote(user.ID, req.QuoteID, req.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "QUOTE_NOT_FOUND",
					"message": "Quote not found",
				},
			})
		case errors.Is(err, services.ErrQuoteExpired):
			c.JSON(http.StatusGone, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "QUOTE_EXPIRED",
					"message": "Quote has expired",
				},
			})
		case errors.Is(err, services.ErrQuoteAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "QUOTE_ALREADY_USED",
					"message": "Quote has already been used for an order",
				},
			})
		case errors.Is(err, services.ErrQuoteUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Not authorized to accept this quote",
				},
			})
		default:
			log.Printf("Failed to accept quote %s: %v", req.QuoteID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to accept quote",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists the caller's orders, newest first
func ListOrders(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	orders, err := services.GetOrderService().GetUserOrders(user.ID)
	if err != nil {
		log.Printf("Failed to list orders for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:orderId - returns one of the caller's
// orders. Orders belonging to other users report not found.
func GetOrder(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	orderID := c.Param("orderId")
	order, err := services.GetOrderService().GetOrder(user.ID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		log.Printf("Failed to fetch order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
