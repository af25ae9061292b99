package ticket

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	domain "github.com/RepairShopServices/mechanic-shop-api/internal/domain/ticket"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

type AddProduct struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddProduct(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddProduct {
	return &AddProduct{
		repo:  repo,
		audit: audit,
	}
}

// Execute links a product to a ticket with the given quantity. A second
// link for the same (product, ticket) pair is rejected, not merged; the
// existing link stays untouched.
func (uc *AddProduct) Execute(
	ctx context.Context,
	actor audit.Actor,
	ticketID uint,
	productID uint,
	quantity int,
) (*models.TicketProduct, error) {

	var link *models.TicketProduct

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetTicket(ctx, ticketID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("service_ticket_not_found")
			}
			return err
		}

		product, err := repo.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("product_not_found")
			}
			return err
		}

		_, err = repo.GetProductLink(ctx, ticketID, productID)
		if err == nil {
			return httperr.ErrBusiness("product_already_linked")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		link = &models.TicketProduct{
			ProductID:       productID,
			ServiceTicketID: ticketID,
			Quantity:        quantity,
		}
		if err := repo.CreateProductLink(ctx, link); err != nil {
			return err
		}
		link.Product = *product
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "product_added_to_ticket",
		Entity:   "service_ticket",
		EntityID: &link.ServiceTicketID,
		Metadata: map[string]any{"product_id": productID, "quantity": quantity},
	})

	return link, nil
}
