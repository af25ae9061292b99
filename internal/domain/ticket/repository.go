package ticket

import (
	"context"

	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

type Repository interface {
	// -------- Ticket --------
	GetTicket(
		ctx context.Context,
		id uint,
	) (*models.ServiceTicket, error)

	SaveTicket(
		ctx context.Context,
		t *models.ServiceTicket,
	) error

	CreateTicket(
		ctx context.Context,
		t *models.ServiceTicket,
	) error

	DeleteTicket(
		ctx context.Context,
		id uint,
	) error

	// -------- Customer / Mechanic / Product lookups --------
	GetCustomer(
		ctx context.Context,
		id uint,
	) (*models.Customer, error)

	GetMechanic(
		ctx context.Context,
		id uint,
	) (*models.Mechanic, error)

	GetProduct(
		ctx context.Context,
		id uint,
	) (*models.Product, error)

	// -------- Mechanic assignment links --------
	IsMechanicAssigned(
		ctx context.Context,
		ticketID uint,
		mechanicID uint,
	) (bool, error)

	AssignMechanic(
		ctx context.Context,
		ticketID uint,
		mechanicID uint,
	) error

	UnassignMechanic(
		ctx context.Context,
		ticketID uint,
		mechanicID uint,
	) error

	AssignedMechanicIDs(
		ctx context.Context,
		ticketID uint,
	) ([]uint, error)

	// -------- Product usage links --------
	GetProductLink(
		ctx context.Context,
		ticketID uint,
		productID uint,
	) (*models.TicketProduct, error)

	CreateProductLink(
		ctx context.Context,
		link *models.TicketProduct,
	) error

	// -------- Scoped listings --------
	ListTicketsForCustomer(
		ctx context.Context,
		customerID uint,
	) ([]models.ServiceTicket, error)

	ListTicketsForMechanic(
		ctx context.Context,
		mechanicID uint,
	) ([]models.ServiceTicket, error)

	// Transaction runs fn against a transactional view of the repository;
	// any error rolls the whole unit of work back.
	Transaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
