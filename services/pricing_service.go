package services

import (
	"math"

	"github.com/printforge/print-shop-api/models"
)

const (
	// wallThicknessCm is the nominal shell thickness of a print; shells are
	// always fully solid regardless of infill
	wallThicknessCm = 0.12

	// minutesPerLayer is the fixed base print time per layer
	minutesPerLayer = 0.5

	// laborPercentage is the labor surcharge applied on material + machine cost
	laborPercentage = 0.15
)

// PricingConfig holds the externally configured pricing parameters. Injected
// at construction so repeated calculations for a quote are deterministic.
type PricingConfig struct {
	MachineHourlyRate float64 // currency units per machine hour
	MarkupPercentage  float64 // e.g. 30 for a 30% markup
}

// DefaultPricingConfig returns the built-in pricing defaults
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		MachineHourlyRate: 5.00,
		MarkupPercentage:  30,
	}
}

// PricingBreakdown is the cost breakdown for printing a mesh. Monetary values
// and weight are rounded to 2 decimals at the point of return.
type PricingBreakdown struct {
	MaterialCost              float64 `json:"material_cost"`
	MachineCost               float64 `json:"machine_cost"`
	LaborCost                 float64 `json:"labor_cost"`
	TotalPrice                float64 `json:"total_price"`
	MaterialWeightGrams       float64 `json:"material_weight_grams"`
	EstimatedPrintTimeMinutes int     `json:"estimated_print_time_minutes"`
}

// PricingService computes price quotes from mesh geometry. Pure computation:
// no I/O, deterministic for identical inputs and configuration.
type PricingService struct {
	config PricingConfig
}

var pricingServiceInstance *PricingService

// InitPricingService initializes the pricing service with the given configuration
func InitPricingService(config PricingConfig) *PricingService {
	pricingServiceInstance = NewPricingService(config)
	return pricingServiceInstance
}

// GetPricingService returns the initialized pricing service instance
func GetPricingService() *PricingService {
	return pricingServiceInstance
}

// SetPricingService sets the pricing service instance (primarily for testing)
func SetPricingService(service *PricingService) {
	pricingServiceInstance = service
}

// NewPricingService creates a pricing service with the given configuration
func NewPricingService(config PricingConfig) *PricingService {
	return &PricingService{config: config}
}

// CalculatePrice computes the full cost breakdown for printing the given
// geometry with the given material and print configuration.
//
// The shell (outer wall) is always printed solid; only the interior volume
// respects the infill percentage. Bounding box dimensions arrive in cm and
// the height is converted to mm to count layers.
func (s *PricingService) CalculatePrice(material *models.Material, config *models.PrintConfig, geometry *GeometryResult) PricingBreakdown {
	shellVolume := geometry.SurfaceAreaCm2 * wallThicknessCm
	interiorVolume := math.Max(0, geometry.VolumeCm3-shellVolume)
	infillFraction := float64(config.InfillPercentage) / 100
	materialVolume := shellVolume + interiorVolume*infillFraction

	materialWeightGrams := materialVolume * material.Density
	materialCost := materialWeightGrams * material.CostPerGram

	boundingBoxZMm := geometry.BoundingBox.Z * 10
	numberOfLayers := boundingBoxZMm / config.LayerHeight
	estimatedPrintTimeMinutes := int(math.Round(numberOfLayers * minutesPerLayer * config.TimeMultiplier))

	machineCost := float64(estimatedPrintTimeMinutes) / 60 * s.config.MachineHourlyRate
	laborCost := (materialCost + machineCost) * laborPercentage

	subtotal := materialCost + machineCost + laborCost
	totalPrice := subtotal * (1 + s.config.MarkupPercentage/100)

	return PricingBreakdown{
		MaterialCost:              roundToCents(materialCost),
		MachineCost:               roundToCents(machineCost),
		LaborCost:                 roundToCents(laborCost),
		TotalPrice:                roundToCents(totalPrice),
		MaterialWeightGrams:       roundToCents(materialWeightGrams),
		EstimatedPrintTimeMinutes: estimatedPrintTimeMinutes,
	}
}

// roundToCents rounds to 2 decimal places, half away from zero
func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
