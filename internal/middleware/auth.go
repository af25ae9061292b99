package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

const (
	ContextPrincipalID    = "principalID"
	ContextPrincipalRole  = "principalRole"
	ContextPrincipalEmail = "principalEmail"
)

// AuthMiddleware extracts the bearer token, verifies it and resolves the
// concrete principal row for the role the token claims. The role travels in
// the context from here on; handlers never re-derive it from the row.
func AuthMiddleware(tokens *auth.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		principalID, role, err := tokens.Verify(parts[1])
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, auth.ErrTokenExpired) {
				code = "token_expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		email, err := resolvePrincipalEmail(db, role, principalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalid or user not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextPrincipalID, principalID)
		c.Set(ContextPrincipalRole, role)
		c.Set(ContextPrincipalEmail, email)

		c.Next()
	}
}

// The token may outlive its principal; a deleted row must read as an
// unauthorized request, not a server error.
func resolvePrincipalEmail(db *gorm.DB, role auth.Role, id uint) (string, error) {
	switch role {
	case auth.RoleCustomer:
		var customer models.Customer
		if err := db.First(&customer, id).Error; err != nil {
			return "", err
		}
		return customer.Email, nil
	case auth.RoleMechanic:
		var mechanic models.Mechanic
		if err := db.First(&mechanic, id).Error; err != nil {
			return "", err
		}
		return mechanic.Email, nil
	case auth.RoleAdmin:
		var admin models.Admin
		if err := db.First(&admin, id).Error; err != nil {
			return "", err
		}
		return admin.Email, nil
	}
	return "", gorm.ErrRecordNotFound
}

func PrincipalID(c *gin.Context) uint {
	v, _ := c.Get(ContextPrincipalID)
	id, _ := v.(uint)
	return id
}

func PrincipalRole(c *gin.Context) auth.Role {
	v, _ := c.Get(ContextPrincipalRole)
	role, _ := v.(auth.Role)
	return role
}

func PrincipalEmail(c *gin.Context) string {
	v, _ := c.Get(ContextPrincipalEmail)
	email, _ := v.(string)
	return email
}
