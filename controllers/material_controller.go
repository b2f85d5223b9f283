package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printforge/print-shop-api/config"
	"github.com/printforge/print-shop-api/models"
)

// ListMaterials handles GET /api/v1/materials - lists available print materials
func ListMaterials(c *gin.Context) {
	db := config.GetDB()

	var materials []models.Material
	if err := db.Order("id").Find(&materials).Error; err != nil {
		log.Printf("Failed to list materials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch materials",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
	})
}

// ListPrintConfigs handles GET /api/v1/print-configs - lists quality presets
func ListPrintConfigs(c *gin.Context) {
	db := config.GetDB()

	var configs []models.PrintConfig
	if err := db.Order("id").Find(&configs).Error; err != nil {
		log.Printf("Failed to list print configs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch print configurations",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    configs,
	})
}
