package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Principal is a verified login resolved to its row and role.
type Principal struct {
	ID    uint
	Role  Role
	Name  string
	Email string
	Phone string
}

func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyCredentials resolves a login attempt against the customer, mechanic
// and admin tables in that order; the first table where the email row exists
// and the password verifies wins. Emails are unique per table only, so a
// cross-table collision always resolves to the earliest-checked role.
func VerifyCredentials(db *gorm.DB, email, password string) (*Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var customer models.Customer
	err := db.Where("email = ?", email).First(&customer).Error
	if err == nil && CheckPassword(customer.PasswordHash, password) {
		return &Principal{
			ID:    customer.ID,
			Role:  RoleCustomer,
			Name:  customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		}, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var mechanic models.Mechanic
	err = db.Where("email = ?", email).First(&mechanic).Error
	if err == nil && CheckPassword(mechanic.PasswordHash, password) {
		return &Principal{
			ID:    mechanic.ID,
			Role:  RoleMechanic,
			Name:  mechanic.Name,
			Email: mechanic.Email,
			Phone: mechanic.Phone,
		}, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var admin models.Admin
	err = db.Where("email = ?", email).First(&admin).Error
	if err == nil && CheckPassword(admin.PasswordHash, password) {
		return &Principal{
			ID:    admin.ID,
			Role:  RoleAdmin,
			Name:  admin.Name,
			Email: admin.Email,
		}, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, ErrInvalidCredentials
}
