package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
	"github.com/RepairShopServices/mechanic-shop-api/internal/config"
	"github.com/RepairShopServices/mechanic-shop-api/internal/handlers"
	infraRepo "github.com/RepairShopServices/mechanic-shop-api/internal/infra/repository"
	"github.com/RepairShopServices/mechanic-shop-api/internal/middleware"
	ucTicket "github.com/RepairShopServices/mechanic-shop-api/internal/usecase/ticket"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, rdb *redis.Client) {

	// ======================================================
	// INFRA
	// ======================================================
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	ticketRepo := infraRepo.NewTicketGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	rateLimit := middleware.RateLimit(cfg.RateLimit, rdb)
	cached := middleware.CacheResponses(cfg.Cache, rdb)
	authRequired := middleware.AuthMiddleware(tokens, db)

	// ======================================================
	// USE CASES — TICKET ASSOCIATIONS
	// ======================================================
	createTicketUC := ucTicket.NewCreateTicket(ticketRepo, auditDispatcher)
	updateTicketUC := ucTicket.NewUpdateTicket(ticketRepo, auditDispatcher)
	deleteTicketUC := ucTicket.NewDeleteTicket(ticketRepo, auditDispatcher)
	addProductUC := ucTicket.NewAddProduct(ticketRepo, auditDispatcher)
	myTicketsUC := ucTicket.NewMyTickets(ticketRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, tokens, auditDispatcher)
	customerHandler := handlers.NewCustomerHandler(db, cfg, auditDispatcher)
	mechanicHandler := handlers.NewMechanicHandler(db, cfg, auditDispatcher)
	adminHandler := handlers.NewAdminHandler(db, cfg, auditDispatcher)
	inventoryHandler := handlers.NewInventoryHandler(db, auditDispatcher)
	ticketHandler := handlers.NewServiceTicketHandler(
		db,
		ticketRepo,
		createTicketUC,
		updateTicketUC,
		deleteTicketUC,
		addProductUC,
		myTicketsUC,
	)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// AUTH
	// ======================================================
	r.POST("/auth/login", rateLimit, authHandler.Login)

	// ======================================================
	// CUSTOMERS
	// ======================================================
	customers := r.Group("/customers")
	{
		customers.POST("/", rateLimit, customerHandler.Create)
		customers.GET("/", rateLimit, cached, customerHandler.List)
		customers.GET("/:id", customerHandler.Get)
		customers.PUT("/:id", authRequired, customerHandler.Update)
		customers.DELETE("/:id", authRequired, customerHandler.Delete)
	}

	// ======================================================
	// MECHANICS
	// ======================================================
	mechanics := r.Group("/mechanics")
	{
		mechanics.POST("/", authRequired, middleware.RequireRoles(auth.RoleAdmin), mechanicHandler.Create)
		mechanics.GET("/", rateLimit, cached, mechanicHandler.List)
		mechanics.GET("/:id", mechanicHandler.Get)
		mechanics.PUT("/:id", authRequired, mechanicHandler.Update)
		mechanics.DELETE("/:id", authRequired, mechanicHandler.Delete)
	}

	// ======================================================
	// ADMINS
	// ======================================================
	admins := r.Group("/admins")
	admins.Use(authRequired, middleware.RequireRoles(auth.RoleAdmin))
	{
		admins.POST("/", adminHandler.Create)
		admins.GET("/", adminHandler.List)
		admins.GET("/:id", adminHandler.Get)
		admins.PUT("/:id", adminHandler.Update)
		admins.DELETE("/:id", adminHandler.Delete)
	}

	// ======================================================
	// INVENTORY
	// ======================================================
	inventory := r.Group("/inventory")
	{
		inventory.POST("/", authRequired, inventoryHandler.Create)
		inventory.GET("/", rateLimit, cached, inventoryHandler.List)
		inventory.GET("/:id", inventoryHandler.Get)
		inventory.PUT("/:id", authRequired, inventoryHandler.Update)
		inventory.DELETE("/:id", authRequired,
			middleware.RequireRoles(auth.RoleAdmin, auth.RoleMechanic), inventoryHandler.Delete)
	}

	// ======================================================
	// SERVICE TICKETS
	// ======================================================
	tickets := r.Group("/service_tickets")
	{
		tickets.GET("/", rateLimit, cached, ticketHandler.List)
		tickets.GET("/my-tickets", authRequired, ticketHandler.MyTickets)
		tickets.GET("/:id", ticketHandler.Get)
		tickets.POST("/", authRequired, ticketHandler.Create)
		tickets.PUT("/:id", authRequired, ticketHandler.Update)
		tickets.PUT("/:id/add_product", authRequired, ticketHandler.AddProduct)
		tickets.DELETE("/:id", authRequired, middleware.RequireRoles(auth.RoleAdmin), ticketHandler.Delete)
	}

	// ======================================================
	// AUDIT LOGS
	// ======================================================
	r.GET("/audit-logs", authRequired, middleware.RequireRoles(auth.RoleAdmin), auditLogsHandler.List)
}
