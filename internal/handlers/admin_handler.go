package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
	"github.com/RepairShopServices/mechanic-shop-api/internal/config"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httpresp"
	"github.com/RepairShopServices/mechanic-shop-api/internal/middleware"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

// AdminHandler manages admin accounts. Every route is behind an
// admin-only role gate.
type AdminHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAdminHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *AdminHandler {
	return &AdminHandler{db: db, config: cfg, audit: audit}
}

type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateAdminRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

func (h *AdminHandler) Create(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	admin := models.Admin{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
	}

	if err := h.db.Create(&admin).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "admin_created", admin.ID)
	httpresp.Created(c, admin)
}

func (h *AdminHandler) List(c *gin.Context) {
	httpresp.Paginate[models.Admin](c, h.db.Model(&models.Admin{}).Order("id ASC"), "admins")
}

func (h *AdminHandler) Get(c *gin.Context) {
	admin, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, admin)
}

func (h *AdminHandler) Update(c *gin.Context) {
	admin, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Password != nil && h.config.IsProtectedEmail(admin.Email) {
		httperr.Forbidden(c, "This account is protected and cannot be modified")
		return
	}

	if req.Name != nil {
		admin.Name = *req.Name
	}
	if req.Email != nil {
		admin.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.Internal(c, err)
			return
		}
		admin.PasswordHash = hashed
	}

	if err := h.db.Save(admin).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "admin_updated", admin.ID)
	httpresp.OK(c, admin)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	admin, ok := h.find(c)
	if !ok {
		return
	}

	if h.config.IsProtectedEmail(admin.Email) {
		httperr.Forbidden(c, "This account is protected and cannot be deleted")
		return
	}

	if err := h.db.Delete(&models.Admin{}, admin.ID).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "admin_deleted", admin.ID)
	httpresp.Message(c, http.StatusOK, "Admin deleted successfully")
}

func (h *AdminHandler) find(c *gin.Context) (*models.Admin, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "Admin not found")
		return nil, false
	}

	var admin models.Admin
	if err := h.db.First(&admin, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Admin not found")
		} else {
			httperr.Internal(c, err)
		}
		return nil, false
	}
	return &admin, true
}

func (h *AdminHandler) dispatch(c *gin.Context, action string, entityID uint) {
	actorID := middleware.PrincipalID(c)
	h.audit.Dispatch(audit.Event{
		Actor:    audit.Actor{Role: auth.RoleAdmin, ID: &actorID},
		Action:   action,
		Entity:   "admin",
		EntityID: &entityID,
	})
}
