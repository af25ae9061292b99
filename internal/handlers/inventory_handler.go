package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httpresp"
	"github.com/RepairShopServices/mechanic-shop-api/internal/middleware"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

type InventoryHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewInventoryHandler(db *gorm.DB, audit *audit.Dispatcher) *InventoryHandler {
	return &InventoryHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

type UpdateProductRequest struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
}

// --------- Handlers ---------

func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	product := models.Product{
		Name:  req.Name,
		Price: req.Price,
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "product_created", product.ID)
	httpresp.Created(c, product)
}

func (h *InventoryHandler) List(c *gin.Context) {
	httpresp.Paginate[models.Product](c, h.db.Model(&models.Product{}).Order("id ASC"), "inventory")
}

func (h *InventoryHandler) Get(c *gin.Context) {
	product, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, product)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	product, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := h.db.Save(product).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "product_updated", product.ID)
	httpresp.OK(c, product)
}

// Delete is limited to admins and mechanics; the route carries the role
// gate, this handler only does the work.
func (h *InventoryHandler) Delete(c *gin.Context) {
	product, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.Delete(&models.Product{}, product.ID).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	h.dispatch(c, "product_deleted", product.ID)
	httpresp.Message(c, http.StatusOK, "Product deleted successfully")
}

func (h *InventoryHandler) find(c *gin.Context) (*models.Product, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "Product not found")
		return nil, false
	}

	var product models.Product
	if err := h.db.First(&product, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Product not found")
		} else {
			httperr.Internal(c, err)
		}
		return nil, false
	}
	return &product, true
}

func (h *InventoryHandler) dispatch(c *gin.Context, action string, entityID uint) {
	actorID := middleware.PrincipalID(c)
	h.audit.Dispatch(audit.Event{
		Actor:    audit.Actor{Role: middleware.PrincipalRole(c), ID: &actorID},
		Action:   action,
		Entity:   "product",
		EntityID: &entityID,
	})
}
