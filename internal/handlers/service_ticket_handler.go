package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	domain "github.com/RepairShopServices/mechanic-shop-api/internal/domain/ticket"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httpresp"
	"github.com/RepairShopServices/mechanic-shop-api/internal/middleware"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
	ucTicket "github.com/RepairShopServices/mechanic-shop-api/internal/usecase/ticket"
)

type ServiceTicketHandler struct {
	db   *gorm.DB
	repo domain.Repository

	createUC     *ucTicket.CreateTicket
	updateUC     *ucTicket.UpdateTicket
	deleteUC     *ucTicket.DeleteTicket
	addProductUC *ucTicket.AddProduct
	myTicketsUC  *ucTicket.MyTickets
}

func NewServiceTicketHandler(
	db *gorm.DB,
	repo domain.Repository,
	createUC *ucTicket.CreateTicket,
	updateUC *ucTicket.UpdateTicket,
	deleteUC *ucTicket.DeleteTicket,
	addProductUC *ucTicket.AddProduct,
	myTicketsUC *ucTicket.MyTickets,
) *ServiceTicketHandler {
	return &ServiceTicketHandler{
		db:           db,
		repo:         repo,
		createUC:     createUC,
		updateUC:     updateUC,
		deleteUC:     deleteUC,
		addProductUC: addProductUC,
		myTicketsUC:  myTicketsUC,
	}
}

// --------- Requests ---------

type CreateServiceTicketRequest struct {
	CustomerID  uint       `json:"customer_id" binding:"required"`
	VIN         string     `json:"vin" binding:"required,max=17"`
	ServiceDesc string     `json:"service_desc" binding:"required,max=200"`
	ServiceDate *time.Time `json:"service_date,omitempty"`
	MechanicIDs []uint     `json:"mechanic_ids,omitempty"`
}

type UpdateServiceTicketRequest struct {
	ServiceDesc       *string `json:"service_desc,omitempty" binding:"omitempty,max=200"`
	VIN               *string `json:"vin,omitempty" binding:"omitempty,max=17"`
	AddMechanicIDs    []uint  `json:"add_mechanic_ids,omitempty"`
	RemoveMechanicIDs []uint  `json:"remove_mechanic_ids,omitempty"`
}

type AddProductRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// --------- Handlers ---------

func (h *ServiceTicketHandler) Create(c *gin.Context) {
	var req CreateServiceTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	view, err := h.createUC.Execute(c.Request.Context(), actor(c), ucTicket.CreateTicketInput{
		CustomerID:  req.CustomerID,
		VIN:         req.VIN,
		ServiceDesc: req.ServiceDesc,
		ServiceDate: req.ServiceDate,
		MechanicIDs: req.MechanicIDs,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "customer_not_found"):
			httperr.NotFound(c, "Customer not found")
		case httperr.IsBusiness(err, "invalid_vin"):
			httperr.BadRequest(c, "VIN exceeds maximum length")
		default:
			httperr.Internal(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Service ticket created successfully",
		"service_ticket_id": view.ID,
		"service_ticket":    view,
	})
}

func (h *ServiceTicketHandler) List(c *gin.Context) {
	httpresp.Paginate[models.ServiceTicket](c, h.db.Model(&models.ServiceTicket{}).Order("id ASC"), "service_tickets")
}

func (h *ServiceTicketHandler) Get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	t, err := h.repo.GetTicket(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Service ticket not found")
		} else {
			httperr.Internal(c, err)
		}
		return
	}

	ids, err := h.repo.AssignedMechanicIDs(c.Request.Context(), id)
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Service ticket retrieved successfully",
		"service_ticket": ucTicket.NewView(t, ids),
	})
}

func (h *ServiceTicketHandler) Update(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req UpdateServiceTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	view, err := h.updateUC.Execute(c.Request.Context(), actor(c), id, ucTicket.UpdateTicketInput{
		ServiceDesc:       req.ServiceDesc,
		VIN:               req.VIN,
		AddMechanicIDs:    req.AddMechanicIDs,
		RemoveMechanicIDs: req.RemoveMechanicIDs,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "service_ticket_not_found"):
			httperr.NotFound(c, "Service ticket not found")
		case httperr.IsBusiness(err, "invalid_vin"):
			httperr.BadRequest(c, "VIN exceeds maximum length")
		default:
			httperr.Internal(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"service_ticket": view})
}

// Delete is admin-only; the route carries the role gate.
func (h *ServiceTicketHandler) Delete(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), actor(c), id); err != nil {
		if httperr.IsBusiness(err, "service_ticket_not_found") {
			httperr.NotFound(c, "Service ticket not found")
			return
		}
		httperr.Internal(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, fmt.Sprintf("Service ticket %d deleted successfully", id))
}

func (h *ServiceTicketHandler) AddProduct(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	link, err := h.addProductUC.Execute(c.Request.Context(), actor(c), id, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "service_ticket_not_found"):
			httperr.NotFound(c, "Service ticket not found")
		case httperr.IsBusiness(err, "product_not_found"):
			httperr.NotFound(c, "Product not found")
		case httperr.IsBusiness(err, "product_already_linked"):
			httperr.BadRequest(c, "Product already added to this service ticket")
		default:
			httperr.Internal(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":                "Product added successfully",
		"service_ticket_product": link,
	})
}

// MyTickets branches on the caller's role: customers get the tickets they
// own, mechanics the tickets they are assigned to.
func (h *ServiceTicketHandler) MyTickets(c *gin.Context) {
	views, err := h.myTicketsUC.Execute(
		c.Request.Context(),
		middleware.PrincipalRole(c),
		middleware.PrincipalID(c),
	)
	if err != nil {
		if httperr.IsBusiness(err, "role_not_supported") {
			httperr.Forbidden(c, "forbidden")
			return
		}
		httperr.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func ticketID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "Service ticket not found")
		return 0, false
	}
	return uint(id), true
}

func actor(c *gin.Context) audit.Actor {
	id := middleware.PrincipalID(c)
	return audit.Actor{Role: middleware.PrincipalRole(c), ID: &id}
}
