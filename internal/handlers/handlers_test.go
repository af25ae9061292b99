package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
	"github.com/RepairShopServices/mechanic-shop-api/internal/config"
	dbpkg "github.com/RepairShopServices/mechanic-shop-api/internal/db"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
	"github.com/RepairShopServices/mechanic-shop-api/internal/routes"
)

const testSecret = "test-secret"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenService

	admin    models.Admin
	customer models.Customer
	mechanic models.Mechanic
}

func newEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	cfg := &config.Config{
		JWTSecret:       testSecret,
		TokenTTL:        time.Hour,
		ProtectedEmails: []string{"root@shop.com"},
	}

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, nil)

	env := &testEnv{
		router: r,
		db:     db,
		tokens: auth.NewTokenService(testSecret, time.Hour),
	}

	env.admin = models.Admin{Name: "Super Admin", Email: "admin@email.com", PasswordHash: hash(t, "adminpassword")}
	require.NoError(t, db.Create(&env.admin).Error)

	env.customer = models.Customer{Name: "John Doe", Phone: "555-555-5555", Email: "johndoe@email.com", PasswordHash: hash(t, "password123")}
	require.NoError(t, db.Create(&env.customer).Error)

	env.mechanic = models.Mechanic{Name: "Mech", Phone: "555-555-5556", Salary: 60000, Email: "mech@email.com", PasswordHash: hash(t, "wrench456")}
	require.NoError(t, db.Create(&env.mechanic).Error)

	return env
}

func hash(t *testing.T, plaintext string) string {
	h, err := auth.HashPassword(plaintext)
	require.NoError(t, err)
	return h
}

func (e *testEnv) token(t *testing.T, id uint, role auth.Role) string {
	token, err := e.tokens.Issue(id, role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// ---------------------- Authentication ----------------------

func TestLoginSuccess(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "POST", "/auth/login", gin.H{
		"email":    "johndoe@email.com",
		"password": "password123",
	}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["auth_token"])

	who, ok := body["customer"].(map[string]any)
	require.True(t, ok, "expected customer key in %v", body)
	assert.Equal(t, "John Doe", who["name"])

	id, role, err := env.tokens.Verify(body["auth_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, env.customer.ID, id)
	assert.Equal(t, auth.RoleCustomer, role)
}

func TestLoginAdminRole(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "POST", "/auth/login", gin.H{
		"email":    "admin@email.com",
		"password": "adminpassword",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	_, role, err := env.tokens.Verify(body["auth_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "POST", "/auth/login", gin.H{
		"email":    "johndoe@email.com",
		"password": "wrongpassword",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password credentials")
}

func TestLoginMissingBody(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "POST", "/auth/login", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No input data provided")
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newEnv(t)

	claims := auth.Claims{
		Role: string(auth.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(env.admin.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := env.do(t, "GET", "/service_tickets/my-tickets", nil, expired)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_expired")
}

// ---------------------- Customers ----------------------

func TestCreateCustomer(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "POST", "/customers/", gin.H{
		"name":     "Jane Roe",
		"phone":    "555-555-0000",
		"email":    "janeroe@email.com",
		"password": "password123",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Jane Roe", body["name"])
	assert.NotContains(t, w.Body.String(), "password123")
}

func TestCreateCustomerMissingPassword(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "POST", "/customers/", gin.H{
		"name":  "Jane Roe",
		"phone": "555-555-0000",
		"email": "janeroe@email.com",
	}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	msgs, ok := body["password"].([]any)
	require.True(t, ok, "expected password field errors in %v", body)
	assert.Equal(t, "Missing data for required field.", msgs[0])
}

func TestListCustomersNonNumericPage(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "GET", "/customers/?page=not_a_number", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Page not found or exceeds total pages", body["error"])
	assert.Empty(t, body["customers"])
}

func TestListCustomersPagination(t *testing.T) {
	env := newEnv(t)

	for i := 0; i < 15; i++ {
		require.NoError(t, env.db.Create(&models.Customer{
			Name: "Bulk", Phone: "1",
			Email:        fmt.Sprintf("bulk%d@email.com", i),
			PasswordHash: "x",
		}).Error)
	}

	w := env.do(t, "GET", "/customers/?page=2&per_page=10", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["current_page"])
	assert.Equal(t, false, body["has_next"])
	assert.Equal(t, true, body["has_prev"])
	assert.Equal(t, float64(16), body["total"])
	assert.Equal(t, float64(2), body["total_pages"])
}

func TestUpdateCustomerForbiddenForOthers(t *testing.T) {
	env := newEnv(t)

	other := models.Customer{Name: "Other", Phone: "1", Email: "other@email.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&other).Error)

	token := env.token(t, other.ID, auth.RoleCustomer)
	w := env.do(t, "PUT", fmt.Sprintf("/customers/%d", env.customer.ID), gin.H{"name": "Hacked"}, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateCustomerSelfAndAdmin(t *testing.T) {
	env := newEnv(t)

	selfToken := env.token(t, env.customer.ID, auth.RoleCustomer)
	w := env.do(t, "PUT", fmt.Sprintf("/customers/%d", env.customer.ID), gin.H{"name": "John Q. Doe"}, selfToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "John Q. Doe", decode(t, w)["name"])

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	w = env.do(t, "PUT", fmt.Sprintf("/customers/%d", env.customer.ID), gin.H{"phone": "555-000-1111"}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "555-000-1111", decode(t, w)["phone"])
}

// Deleting a customer keeps their tickets, with the owner reference
// nulled out.
func TestDeleteCustomerNullsTickets(t *testing.T) {
	env := newEnv(t)

	customerID := env.customer.ID
	ticket := models.ServiceTicket{CustomerID: &customerID, VIN: "1HGCM82633A123456", ServiceDesc: "Brakes", ServiceDate: time.Now()}
	require.NoError(t, env.db.Create(&ticket).Error)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	w := env.do(t, "DELETE", fmt.Sprintf("/customers/%d", customerID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Customer deleted successfully")

	w = env.do(t, "GET", fmt.Sprintf("/service_tickets/%d", ticket.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	st := body["service_ticket"].(map[string]any)
	assert.Nil(t, st["customer_id"])
}

func TestDeleteProtectedAccount(t *testing.T) {
	env := newEnv(t)

	protected := models.Customer{Name: "Root", Phone: "0", Email: "root@shop.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&protected).Error)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	w := env.do(t, "DELETE", fmt.Sprintf("/customers/%d", protected.ID), nil, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "PUT", fmt.Sprintf("/customers/%d", protected.ID), gin.H{"password": "newpassword"}, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// non-credential fields may still change
	w = env.do(t, "PUT", fmt.Sprintf("/customers/%d", protected.ID), gin.H{"name": "Still Root"}, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ---------------------- Inventory ----------------------

func TestProductRoundTrip(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	w := env.do(t, "POST", "/inventory/", gin.H{"name": "Widget", "price": 19.99}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)

	w = env.do(t, "GET", fmt.Sprintf("/inventory/%v", created["id"]), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	assert.Equal(t, created["id"], body["id"])
	assert.Equal(t, "Widget", body["name"])
	assert.Equal(t, 19.99, body["price"])
	assert.Len(t, body, 3)
}

func TestCreateProductValidation(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)

	w := env.do(t, "POST", "/inventory/", gin.H{"price": 5.0}, adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Contains(t, body, "name")

	w = env.do(t, "POST", "/inventory/", gin.H{"name": "Free", "price": -1.0}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProductRoles(t *testing.T) {
	env := newEnv(t)

	product := models.Product{Name: "Bolt", Price: 0.5}
	require.NoError(t, env.db.Create(&product).Error)

	customerToken := env.token(t, env.customer.ID, auth.RoleCustomer)
	w := env.do(t, "DELETE", fmt.Sprintf("/inventory/%d", product.ID), nil, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	mechanicToken := env.token(t, env.mechanic.ID, auth.RoleMechanic)
	w = env.do(t, "DELETE", fmt.Sprintf("/inventory/%d", product.ID), nil, mechanicToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ---------------------- Service tickets ----------------------

func (e *testEnv) createTicket(t *testing.T, token string) uint {
	w := e.do(t, "POST", "/service_tickets/", gin.H{
		"customer_id":  e.customer.ID,
		"vin":          "1HGCM82633A123456",
		"service_desc": "Test Service Ticket",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	return uint(body["service_ticket_id"].(float64))
}

func TestCreateServiceTicket(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	w := env.do(t, "POST", "/service_tickets/", gin.H{
		"customer_id":  env.customer.ID,
		"vin":          "1HGCM82633A123456",
		"service_desc": "Test Service Ticket",
	}, adminToken)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	st := body["service_ticket"].(map[string]any)
	assert.Equal(t, "Test Service Ticket", st["service_desc"])
	assert.Equal(t, "1HGCM82633A123456", st["vin"])
}

func TestCreateServiceTicketMissingCustomer(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	w := env.do(t, "POST", "/service_tickets/", gin.H{
		"vin":          "1HGCM82633A123456",
		"service_desc": "No owner",
	}, adminToken)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing data for required field.")
}

func TestUpdateServiceTicketMechanicLists(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	ticketID := env.createTicket(t, adminToken)

	w := env.do(t, "PUT", fmt.Sprintf("/service_tickets/%d", ticketID), gin.H{
		"add_mechanic_ids": []uint{env.mechanic.ID},
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decode(t, w)["service_ticket"].(map[string]any)
	assert.Equal(t, []any{float64(env.mechanic.ID)}, st["mechanic_ids"])

	// same id in both lists: remove wins
	w = env.do(t, "PUT", fmt.Sprintf("/service_tickets/%d", ticketID), gin.H{
		"add_mechanic_ids":    []uint{env.mechanic.ID},
		"remove_mechanic_ids": []uint{env.mechanic.ID},
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	st = decode(t, w)["service_ticket"].(map[string]any)
	assert.Empty(t, st["mechanic_ids"])
}

func TestMyTicketsScoping(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	ticketID := env.createTicket(t, adminToken)

	// unassigned mechanic sees nothing
	mechanicToken := env.token(t, env.mechanic.ID, auth.RoleMechanic)
	w := env.do(t, "GET", "/service_tickets/my-tickets", nil, mechanicToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	// the owning customer sees the ticket
	customerToken := env.token(t, env.customer.ID, auth.RoleCustomer)
	w = env.do(t, "GET", "/service_tickets/my-tickets", nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, float64(ticketID), tickets[0]["id"])

	// once assigned, the mechanic sees it too
	w = env.do(t, "PUT", fmt.Sprintf("/service_tickets/%d", ticketID), gin.H{
		"add_mechanic_ids": []uint{env.mechanic.ID},
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/service_tickets/my-tickets", nil, mechanicToken)
	require.Equal(t, http.StatusOK, w.Code)
	tickets = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	require.Len(t, tickets, 1)

	// admins have no ticket scope
	w = env.do(t, "GET", "/service_tickets/my-tickets", nil, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddProductToTicket(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	ticketID := env.createTicket(t, adminToken)

	product := models.Product{Name: "Test product", Price: 100.00}
	require.NoError(t, env.db.Create(&product).Error)

	w := env.do(t, "PUT", fmt.Sprintf("/service_tickets/%d/add_product", ticketID), gin.H{
		"product_id": product.ID,
		"quantity":   1,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Product added successfully", body["message"])

	link := body["service_ticket_product"].(map[string]any)
	assert.Equal(t, float64(1), link["quantity"])
	assert.Equal(t, "Test product", link["product"].(map[string]any)["name"])

	// duplicate link is a conflict, not a merge
	w = env.do(t, "PUT", fmt.Sprintf("/service_tickets/%d/add_product", ticketID), gin.H{
		"product_id": product.ID,
		"quantity":   5,
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Product already added to this service ticket")
}

func TestAddProductMissingTicket(t *testing.T) {
	env := newEnv(t)

	product := models.Product{Name: "Orphan part", Price: 1}
	require.NoError(t, env.db.Create(&product).Error)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	w := env.do(t, "PUT", "/service_tickets/99999999/add_product", gin.H{
		"product_id": product.ID,
		"quantity":   1,
	}, adminToken)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Service ticket not found")
}

func TestDeleteServiceTicketAdminOnly(t *testing.T) {
	env := newEnv(t)

	adminToken := env.token(t, env.admin.ID, auth.RoleAdmin)
	ticketID := env.createTicket(t, adminToken)

	mechanicToken := env.token(t, env.mechanic.ID, auth.RoleMechanic)
	w := env.do(t, "DELETE", fmt.Sprintf("/service_tickets/%d", ticketID), nil, mechanicToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "DELETE", fmt.Sprintf("/service_tickets/%d", ticketID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("Service ticket %d deleted successfully", ticketID))

	w = env.do(t, "GET", fmt.Sprintf("/service_tickets/%d", ticketID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetServiceTicketNotFound(t *testing.T) {
	env := newEnv(t)

	w := env.do(t, "GET", "/service_tickets/99999999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Service ticket not found")
}
