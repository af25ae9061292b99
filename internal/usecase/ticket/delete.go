package ticket

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	domain "github.com/RepairShopServices/mechanic-shop-api/internal/domain/ticket"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
)

type DeleteTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteTicket {
	return &DeleteTicket{
		repo:  repo,
		audit: audit,
	}
}

// Execute hard-deletes a ticket together with its assignment and product
// links. Role policy (admin only) is enforced by the caller.
func (uc *DeleteTicket) Execute(
	ctx context.Context,
	actor audit.Actor,
	ticketID uint,
) error {

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetTicket(ctx, ticketID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("service_ticket_not_found")
			}
			return err
		}
		return repo.DeleteTicket(ctx, ticketID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "service_ticket_deleted",
		Entity:   "service_ticket",
		EntityID: &ticketID,
	})

	return nil
}
