package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.TokenService
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, tokens *auth.TokenService, audit *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, audit: audit}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login resolves credentials across the customer, mechanic and admin
// tables and issues a bearer token carrying the winning role.
func (h *AuthHandler) Login(c *gin.Context) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		httperr.BadRequest(c, "No input data provided")
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	principal, err := auth.VerifyCredentials(h.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httperr.Unauthorized(c, "Invalid email or password credentials")
			return
		}
		httperr.Internal(c, err)
		return
	}

	token, err := h.tokens.Issue(principal.ID, principal.Role)
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:  audit.Actor{Role: principal.Role, ID: &principal.ID},
		Action: "login",
		Entity: string(principal.Role),
	})

	body := gin.H{
		"status":     "success",
		"message":    "Successfully logged in",
		"auth_token": token,
	}
	who := gin.H{
		"id":    principal.ID,
		"name":  principal.Name,
		"email": principal.Email,
	}
	if principal.Role != auth.RoleAdmin {
		who["phone"] = principal.Phone
	}
	body[string(principal.Role)] = who

	c.JSON(http.StatusOK, body)
}
