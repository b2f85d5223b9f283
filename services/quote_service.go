package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printforge/print-shop-api/config"
	"github.com/printforge/print-shop-api/models"
	"gorm.io/gorm"
)

// CreateQuoteRequest carries everything needed to price and persist a quote
type CreateQuoteRequest struct {
	SessionID     string
	StlFilename   string
	S3Key         string
	MaterialID    uint
	PrintConfigID uint
	Geometry      *GeometryResult
}

// QuoteService prices uploaded meshes and persists the resulting quotes
type QuoteService struct {
	pricing *PricingService
}

var quoteServiceInstance *QuoteService

// InitQuoteService initializes the quote service with the given pricing service
func InitQuoteService(pricing *PricingService) *QuoteService {
	quoteServiceInstance = &QuoteService{pricing: pricing}
	return quoteServiceInstance
}

// GetQuoteService returns the initialized quote service instance
func GetQuoteService() *QuoteService {
	return quoteServiceInstance
}

// SetQuoteService sets the quote service instance (primarily for testing)
func SetQuoteService(service *QuoteService) {
	quoteServiceInstance = service
}

// CreateQuote looks up the referenced material and print configuration,
// computes the price breakdown, and persists a pending quote valid for
// seven days. The geometry snapshot and breakdown are frozen at this point.
func (s *QuoteService) CreateQuote(req CreateQuoteRequest) (*models.Quote, error) {
	db := config.GetDB()

	var material models.Material
	if err := db.First(&material, req.MaterialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to load material: %w", err)
	}

	var printConfig models.PrintConfig
	if err := db.First(&printConfig, req.PrintConfigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrintConfigNotFound
		}
		return nil, fmt.Errorf("failed to load print config: %w", err)
	}

	pricing := s.pricing.CalculatePrice(&material, &printConfig, req.Geometry)

	now := time.Now()
	quote := models.Quote{
		ID:                        uuid.NewString(),
		SessionID:                 req.SessionID,
		StlFilename:               req.StlFilename,
		S3Key:                     req.S3Key,
		VolumeCm3:                 req.Geometry.VolumeCm3,
		SurfaceAreaCm2:            req.Geometry.SurfaceAreaCm2,
		BoundingBoxX:              req.Geometry.BoundingBox.X,
		BoundingBoxY:              req.Geometry.BoundingBox.Y,
		BoundingBoxZ:              req.Geometry.BoundingBox.Z,
		MaterialID:                material.ID,
		PrintConfigID:             printConfig.ID,
		MaterialCost:              pricing.MaterialCost,
		MachineCost:               pricing.MachineCost,
		LaborCost:                 pricing.LaborCost,
		TotalPrice:                pricing.TotalPrice,
		MaterialWeightGrams:       pricing.MaterialWeightGrams,
		EstimatedPrintTimeMinutes: pricing.EstimatedPrintTimeMinutes,
		Status:                    models.QuoteStatusPending,
		CreatedAt:                 now,
		ExpiresAt:                 now.Add(models.QuoteValidity),
	}

	if err := db.Create(&quote).Error; err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	return &quote, nil
}

// GetQuote returns a stored quote with its material and print configuration.
// A pending quote past its expiry is reported with status "expired" without
// being rewritten.
func (s *QuoteService) GetQuote(quoteID string) (*models.Quote, error) {
	db := config.GetDB()

	var quote models.Quote
	err := db.Preload("Material").Preload("PrintConfig").
		First(&quote, "id = ?", quoteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}

	quote.Status = quote.EffectiveStatus(time.Now())
	return &quote, nil
}
