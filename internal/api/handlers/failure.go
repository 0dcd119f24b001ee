package handlers

import (
	"net/http"
	"strconv"
	"time"

	"migrator/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FailureHandler exposes the import failure log so operators can review what
// the pipeline skipped.
type FailureHandler struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewFailureHandler(db *gorm.DB, log *logrus.Logger) *FailureHandler {
	return &FailureHandler{
		db:  db,
		log: log,
	}
}

func (h *FailureHandler) List(c *gin.Context) {
	var failures []models.ImportFailure

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	// Filters
	entity := c.Query("entity")
	code := c.Query("code")
	resolved := c.Query("resolved")

	query := h.db.Model(&models.ImportFailure{})

	if entity != "" {
		query = query.Where("entity = ?", entity)
	}

	if code != "" {
		query = query.Where("code = ?", code)
	}

	if resolved != "" {
		if resolved == "true" {
			query = query.Where("is_resolved = ?", true)
		} else if resolved == "false" {
			query = query.Where("is_resolved = ?", false)
		}
	}

	var total int64
	query.Count(&total)

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&failures).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch failures"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": failures,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *FailureHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var failure models.ImportFailure
	if err := h.db.First(&failure, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Failure not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch failure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": failure})
}

func (h *FailureHandler) Resolve(c *gin.Context) {
	id := c.Param("id")

	var failure models.ImportFailure
	if err := h.db.First(&failure, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Failure not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch failure"})
		return
	}

	now := time.Now()
	failure.IsResolved = true
	failure.ResolvedAt = &now
	if err := h.db.Save(&failure).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve failure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": failure})
}
