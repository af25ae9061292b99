package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/RepairShopServices/mechanic-shop-api/internal/domain/ticket"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

type TicketGormRepository struct {
	db *gorm.DB
}

func NewTicketGormRepository(db *gorm.DB) *TicketGormRepository {
	return &TicketGormRepository{db: db}
}

// --------------------------------------------------
// Ticket
// --------------------------------------------------

func (r *TicketGormRepository) GetTicket(
	ctx context.Context,
	id uint,
) (*models.ServiceTicket, error) {

	var t models.ServiceTicket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketGormRepository) SaveTicket(
	ctx context.Context,
	t *models.ServiceTicket,
) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TicketGormRepository) CreateTicket(
	ctx context.Context,
	t *models.ServiceTicket,
) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TicketGormRepository) DeleteTicket(
	ctx context.Context,
	id uint,
) error {

	if err := r.db.WithContext(ctx).
		Where("service_ticket_id = ?", id).
		Delete(&models.ServiceMechanic{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("service_ticket_id = ?", id).
		Delete(&models.TicketProduct{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.ServiceTicket{}, id).Error
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *TicketGormRepository) GetCustomer(
	ctx context.Context,
	id uint,
) (*models.Customer, error) {

	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *TicketGormRepository) GetMechanic(
	ctx context.Context,
	id uint,
) (*models.Mechanic, error) {

	var mechanic models.Mechanic
	if err := r.db.WithContext(ctx).First(&mechanic, id).Error; err != nil {
		return nil, err
	}
	return &mechanic, nil
}

func (r *TicketGormRepository) GetProduct(
	ctx context.Context,
	id uint,
) (*models.Product, error) {

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// --------------------------------------------------
// Mechanic assignment links
// --------------------------------------------------

func (r *TicketGormRepository) IsMechanicAssigned(
	ctx context.Context,
	ticketID uint,
	mechanicID uint,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceMechanic{}).
		Where("service_ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
		Count(&count).Error
	return count > 0, err
}

func (r *TicketGormRepository) AssignMechanic(
	ctx context.Context,
	ticketID uint,
	mechanicID uint,
) error {
	link := models.ServiceMechanic{
		ServiceTicketID: ticketID,
		MechanicID:      mechanicID,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *TicketGormRepository) UnassignMechanic(
	ctx context.Context,
	ticketID uint,
	mechanicID uint,
) error {
	return r.db.WithContext(ctx).
		Where("service_ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
		Delete(&models.ServiceMechanic{}).Error
}

func (r *TicketGormRepository) AssignedMechanicIDs(
	ctx context.Context,
	ticketID uint,
) ([]uint, error) {

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ServiceMechanic{}).
		Where("service_ticket_id = ?", ticketID).
		Order("mechanic_id ASC").
		Pluck("mechanic_id", &ids).Error
	return ids, err
}

// --------------------------------------------------
// Product usage links
// --------------------------------------------------

func (r *TicketGormRepository) GetProductLink(
	ctx context.Context,
	ticketID uint,
	productID uint,
) (*models.TicketProduct, error) {

	var link models.TicketProduct
	if err := r.db.WithContext(ctx).
		Where("service_ticket_id = ? AND product_id = ?", ticketID, productID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *TicketGormRepository) CreateProductLink(
	ctx context.Context,
	link *models.TicketProduct,
) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// --------------------------------------------------
// Scoped listings
// --------------------------------------------------

func (r *TicketGormRepository) ListTicketsForCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.ServiceTicket, error) {

	var tickets []models.ServiceTicket
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *TicketGormRepository) ListTicketsForMechanic(
	ctx context.Context,
	mechanicID uint,
) ([]models.ServiceTicket, error) {

	var tickets []models.ServiceTicket
	err := r.db.WithContext(ctx).
		Joins("JOIN service_mechanics sm ON sm.service_ticket_id = service_tickets.id").
		Where("sm.mechanic_id = ?", mechanicID).
		Order("service_tickets.id ASC").
		Find(&tickets).Error
	return tickets, err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *TicketGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TicketGormRepository{db: tx})
	})
}
