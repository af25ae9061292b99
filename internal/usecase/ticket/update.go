package ticket

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	domain "github.com/RepairShopServices/mechanic-shop-api/internal/domain/ticket"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
	"github.com/RepairShopServices/mechanic-shop-api/internal/validators"
)

type UpdateTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateTicket {
	return &UpdateTicket{
		repo:  repo,
		audit: audit,
	}
}

type UpdateTicketInput struct {
	ServiceDesc       *string
	VIN               *string
	AddMechanicIDs    []uint
	RemoveMechanicIDs []uint
}

// Execute applies a partial update: only supplied fields are overwritten.
// The add list is processed before the remove list, so an id present in
// both ends up unassigned. Unknown ids and redundant links are skipped.
// Everything commits in a single transaction.
func (uc *UpdateTicket) Execute(
	ctx context.Context,
	actor audit.Actor,
	ticketID uint,
	in UpdateTicketInput,
) (*View, error) {

	if in.VIN != nil && !validators.IsVINValid(*in.VIN) {
		return nil, httperr.ErrBusiness("invalid_vin")
	}

	var view *View

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		t, err := repo.GetTicket(ctx, ticketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("service_ticket_not_found")
			}
			return err
		}

		if in.ServiceDesc != nil {
			t.ServiceDesc = *in.ServiceDesc
		}
		if in.VIN != nil {
			t.VIN = *in.VIN
		}

		for _, id := range in.AddMechanicIDs {
			if _, err := repo.GetMechanic(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			linked, err := repo.IsMechanicAssigned(ctx, ticketID, id)
			if err != nil {
				return err
			}
			if linked {
				continue
			}
			if err := repo.AssignMechanic(ctx, ticketID, id); err != nil {
				return err
			}
		}

		for _, id := range in.RemoveMechanicIDs {
			linked, err := repo.IsMechanicAssigned(ctx, ticketID, id)
			if err != nil {
				return err
			}
			if !linked {
				continue
			}
			if err := repo.UnassignMechanic(ctx, ticketID, id); err != nil {
				return err
			}
		}

		if err := repo.SaveTicket(ctx, t); err != nil {
			return err
		}

		assigned, err := repo.AssignedMechanicIDs(ctx, ticketID)
		if err != nil {
			return err
		}
		v := NewView(t, assigned)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "service_ticket_updated",
		Entity:   "service_ticket",
		EntityID: &view.ID,
	})

	return view, nil
}
