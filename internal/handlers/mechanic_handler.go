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

type MechanicHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewMechanicHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *MechanicHandler {
	return &MechanicHandler{db: db, config: cfg, audit: audit}
}

// --------- Requests ---------

type CreateMechanicRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Salary   int    `json:"salary" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateMechanicRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Salary   *int    `json:"salary,omitempty"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

// --------- Handlers ---------

func (h *MechanicHandler) Create(c *gin.Context) {
	var req CreateMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	mechanic := models.Mechanic{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Salary:       req.Salary,
		PasswordHash: hashed,
	}

	if err := h.db.Create(&mechanic).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "mechanic_created", mechanic.ID)
	httpresp.Created(c, mechanic)
}

func (h *MechanicHandler) List(c *gin.Context) {
	httpresp.Paginate[models.Mechanic](c, h.db.Model(&models.Mechanic{}).Order("id ASC"), "mechanics")
}

func (h *MechanicHandler) Get(c *gin.Context) {
	mechanic, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, mechanic)
}

func (h *MechanicHandler) Update(c *gin.Context) {
	mechanic, ok := h.find(c)
	if !ok {
		return
	}

	if !canActOn(c, auth.RoleMechanic, mechanic.ID) {
		httperr.Forbidden(c, "forbidden")
		return
	}

	var req UpdateMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Password != nil && h.config.IsProtectedEmail(mechanic.Email) {
		httperr.Forbidden(c, "This account is protected and cannot be modified")
		return
	}

	if req.Name != nil {
		mechanic.Name = *req.Name
	}
	if req.Phone != nil {
		mechanic.Phone = *req.Phone
	}
	if req.Email != nil {
		mechanic.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Salary != nil {
		mechanic.Salary = *req.Salary
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.Internal(c, err)
			return
		}
		mechanic.PasswordHash = hashed
	}

	if err := h.db.Save(mechanic).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "mechanic_updated", mechanic.ID)
	httpresp.OK(c, mechanic)
}

// Delete is a hard delete. Assignment links are left in place, so rows in
// service_mechanics may dangle afterwards; tickets are not touched.
func (h *MechanicHandler) Delete(c *gin.Context) {
	mechanic, ok := h.find(c)
	if !ok {
		return
	}

	if !canActOn(c, auth.RoleMechanic, mechanic.ID) {
		httperr.Forbidden(c, "forbidden")
		return
	}

	if h.config.IsProtectedEmail(mechanic.Email) {
		httperr.Forbidden(c, "This account is protected and cannot be deleted")
		return
	}

	if err := h.db.Delete(&models.Mechanic{}, mechanic.ID).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "mechanic_deleted", mechanic.ID)
	httpresp.Message(c, http.StatusOK, "Mechanic deleted successfully")
}

func (h *MechanicHandler) find(c *gin.Context) (*models.Mechanic, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "Mechanic not found")
		return nil, false
	}

	var mechanic models.Mechanic
	if err := h.db.First(&mechanic, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Mechanic not found")
		} else {
			httperr.Internal(c, err)
		}
		return nil, false
	}
	return &mechanic, true
}

func (h *MechanicHandler) dispatch(c *gin.Context, action string, entityID uint) {
	actorID := middleware.PrincipalID(c)
	h.audit.Dispatch(audit.Event{
		Actor:    audit.Actor{Role: middleware.PrincipalRole(c), ID: &actorID},
		Action:   action,
		Entity:   "mechanic",
		EntityID: &entityID,
	})
}
