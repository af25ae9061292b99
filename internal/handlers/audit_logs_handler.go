package handlers

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/RepairShopServices/mechanic-shop-api/internal/httpresp"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

// AuditLogsHandler exposes the audit trail to admins.
type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	query := h.db.Model(&models.AuditLog{}).Order("id DESC")

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}

	httpresp.Paginate[models.AuditLog](c, query, "audit_logs")
}
