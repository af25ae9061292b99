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

type CustomerHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewCustomerHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{db: db, config: cfg, audit: audit}
}

// --------- Requests ---------

type CreateCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

// --------- Handlers ---------

// Create is self-service: no token required.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	customer := models.Customer{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
	}

	if err := h.db.Create(&customer).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    audit.Actor{Role: auth.RoleCustomer, ID: &customer.ID},
		Action:   "customer_created",
		Entity:   "customer",
		EntityID: &customer.ID,
	})

	httpresp.Created(c, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	httpresp.Paginate[models.Customer](c, h.db.Model(&models.Customer{}).Order("id ASC"), "customers")
}

func (h *CustomerHandler) Get(c *gin.Context) {
	customer, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, customer)
}

// Update is allowed for the customer themself or an admin. Password
// changes on deny-listed accounts are refused outright.
func (h *CustomerHandler) Update(c *gin.Context) {
	customer, ok := h.find(c)
	if !ok {
		return
	}

	if !canActOn(c, auth.RoleCustomer, customer.ID) {
		httperr.Forbidden(c, "forbidden")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Password != nil && h.config.IsProtectedEmail(customer.Email) {
		httperr.Forbidden(c, "This account is protected and cannot be modified")
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.Internal(c, err)
			return
		}
		customer.PasswordHash = hashed
	}

	if err := h.db.Save(customer).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "customer_updated", customer.ID)
	httpresp.OK(c, customer)
}

// Delete nulls out customer_id on the customer's tickets instead of
// cascading; the tickets themselves survive.
func (h *CustomerHandler) Delete(c *gin.Context) {
	customer, ok := h.find(c)
	if !ok {
		return
	}

	if !canActOn(c, auth.RoleCustomer, customer.ID) {
		httperr.Forbidden(c, "forbidden")
		return
	}

	if h.config.IsProtectedEmail(customer.Email) {
		httperr.Forbidden(c, "This account is protected and cannot be deleted")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ServiceTicket{}).
			Where("customer_id = ?", customer.ID).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Customer{}, customer.ID).Error
	})
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "customer_deleted", customer.ID)
	httpresp.Message(c, http.StatusOK, "Customer deleted successfully")
}

func (h *CustomerHandler) find(c *gin.Context) (*models.Customer, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "Customer not found")
		return nil, false
	}

	var customer models.Customer
	if err := h.db.First(&customer, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Customer not found")
		} else {
			httperr.Internal(c, err)
		}
		return nil, false
	}
	return &customer, true
}

func (h *CustomerHandler) dispatch(c *gin.Context, action string, entityID uint) {
	actorID := middleware.PrincipalID(c)
	h.audit.Dispatch(audit.Event{
		Actor:    audit.Actor{Role: middleware.PrincipalRole(c), ID: &actorID},
		Action:   action,
		Entity:   "customer",
		EntityID: &entityID,
	})
}

// canActOn reports whether the authenticated principal may mutate the
// resource owned by (ownerRole, ownerID): the owner themself, or an admin.
func canActOn(c *gin.Context, ownerRole auth.Role, ownerID uint) bool {
	role := middleware.PrincipalRole(c)
	if role == auth.RoleAdmin {
		return true
	}
	return role == ownerRole && middleware.PrincipalID(c) == ownerID
}
