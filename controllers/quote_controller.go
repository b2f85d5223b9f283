package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printforge/print-shop-api/services"
	"github.com/printforge/print-shop-api/utils"
)

// CreateQuote handles POST /api/v1/quotes - uploads a mesh file and returns a
// priced quote. No authentication required: anonymous quotes are tagged with
// a session id and claimed by whichever user accepts them first.
func CreateQuote(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "No mesh file uploaded",
			},
		})
		return
	}

	if err := utils.ValidateMeshFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	materialID, err1 := strconv.ParseUint(c.PostForm("material_id"), 10, 32)
	printConfigID, err2 := strconv.ParseUint(c.PostForm("print_config_id"), 10, 32)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "material_id and print_config_id are required",
			},
		})
		return
	}

	// Analyze the mesh before touching storage: a broken file should fail
	// without leaving anything behind
	geometry, err := services.GetMeshAnalyzer().Analyze(fileHeader)
	if err != nil {
		log.Printf("Mesh analysis failed for %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": "Failed to analyze mesh file",
			},
		})
		return
	}

	s3Key, err := services.GetS3Service().UploadFile(fileHeader)
	if err != nil {
		log.Printf("Mesh upload failed for %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store mesh file",
			},
		})
		return
	}

	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	quote, err := services.GetQuoteService().CreateQuote(services.CreateQuoteRequest{
		SessionID:     sessionID,
		StlFilename:   fileHeader.Filename,
		S3Key:         s3Key,
		MaterialID:    uint(materialID),
		PrintConfigID: uint(printConfigID),
		Geometry:      geometry,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMaterialNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MATERIAL_NOT_FOUND",
					"message": "Material not found",
				},
			})
		case errors.Is(err, services.ErrPrintConfigNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRINT_CONFIG_NOT_FOUND",
					"message": "Print configuration not found",
				},
			})
		default:
			log.Printf("Failed to create quote: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to create quote",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    quote,
	})
}

// GetQuote handles GET /api/v1/quotes/:quoteId - returns a stored quote with
// its breakdown and a download link for the uploaded mesh
func GetQuote(c *gin.Context) {
	quoteID := c.Param("quoteId")

	quote, err := services.GetQuoteService().GetQuote(quoteID)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "QUOTE_NOT_FOUND",
					"message": "Quote not found",
				},
			})
			return
		}
		log.Printf("Failed to fetch quote %s: %v", quoteID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch quote",
			},
		})
		return
	}

	// Best-effort mesh download link; the quote itself is the payload
	meshURL, err := services.GetS3Service().GetPresignedURL(quote.S3Key)
	if err != nil {
		log.Printf("Failed to presign mesh URL for quote %s: %v", quoteID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     quote,
		"mesh_url": meshURL,
	})
}
