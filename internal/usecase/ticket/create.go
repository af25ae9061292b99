package ticket

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/RepairShopServices/mechanic-shop-api/internal/audit"
	domain "github.com/RepairShopServices/mechanic-shop-api/internal/domain/ticket"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
	"github.com/RepairShopServices/mechanic-shop-api/internal/validators"
)

type CreateTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateTicket {
	return &CreateTicket{
		repo:  repo,
		audit: audit,
	}
}

type CreateTicketInput struct {
	CustomerID  uint
	VIN         string
	ServiceDesc string
	ServiceDate *time.Time
	MechanicIDs []uint
}

func (uc *CreateTicket) Execute(
	ctx context.Context,
	actor audit.Actor,
	in CreateTicketInput,
) (*View, error) {

	if !validators.IsVINValid(in.VIN) {
		return nil, httperr.ErrBusiness("invalid_vin")
	}

	var view *View

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetCustomer(ctx, in.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("customer_not_found")
			}
			return err
		}

		serviceDate := time.Now().UTC()
		if in.ServiceDate != nil {
			serviceDate = *in.ServiceDate
		}

		customerID := in.CustomerID
		t := models.ServiceTicket{
			CustomerID:  &customerID,
			VIN:         in.VIN,
			ServiceDate: serviceDate,
			ServiceDesc: in.ServiceDesc,
		}
		if err := repo.CreateTicket(ctx, &t); err != nil {
			return err
		}

		// Unknown mechanic ids are skipped, never an error.
		for _, id := range in.MechanicIDs {
			if _, err := repo.GetMechanic(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if err := repo.AssignMechanic(ctx, t.ID, id); err != nil {
				return err
			}
		}

		assigned, err := repo.AssignedMechanicIDs(ctx, t.ID)
		if err != nil {
			return err
		}
		v := NewView(&t, assigned)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "service_ticket_created",
		Entity:   "service_ticket",
		EntityID: &view.ID,
	})

	return view, nil
}
