package models

import (
	"fmt"

	"gorm.io/gorm"
)

// SeedReferenceData inserts the default materials and print configurations
// if the tables are empty. Safe to call on every startup.
func SeedReferenceData(db *gorm.DB) error {
	var materialCount int64
	if err := db.Model(&Material{}).Count(&materialCount).Error; err != nil {
		return fmt.Errorf("failed to count materials: %w", err)
	}

	if materialCount == 0 {
		materials := []Material{
			{Name: "Standard PLA", Type: "PLA", Density: 1.24, CostPerGram: 0.05},
			{Name: "PETG", Type: "PETG", Density: 1.27, CostPerGram: 0.06},
			{Name: "ABS", Type: "ABS", Density: 1.04, CostPerGram: 0.055},
			{Name: "Flexible TPU", Type: "TPU", Density: 1.21, CostPerGram: 0.09},
		}
		if err := db.Create(&materials).Error; err != nil {
			return fmt.Errorf("failed to seed materials: %w", err)
		}
	}

	var configCount int64
	if err := db.Model(&PrintConfig{}).Count(&configCount).Error; err != nil {
		return fmt.Errorf("failed to count print configs: %w", err)
	}

	if configCount == 0 {
		configs := []PrintConfig{
			{Name: "Draft", LayerHeight: 0.3, InfillPercentage: 15, TimeMultiplier: 0.7},
			{Name: "Standard", LayerHeight: 0.2, InfillPercentage: 20, TimeMultiplier: 1.0},
			{Name: "Fine", LayerHeight: 0.1, InfillPercentage: 25, TimeMultiplier: 1.8},
		}
		if err := db.Create(&configs).Error; err != nil {
			return fmt.Errorf("failed to seed print configs: %w", err)
		}
	}

	return nil
}
