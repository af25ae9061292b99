package ticket

import (
	"context"

	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
	domain "github.com/RepairShopServices/mechanic-shop-api/internal/domain/ticket"
	"github.com/RepairShopServices/mechanic-shop-api/internal/httperr"
	"github.com/RepairShopServices/mechanic-shop-api/internal/models"
)

type MyTickets struct {
	repo domain.Repository
}

func NewMyTickets(repo domain.Repository) *MyTickets {
	return &MyTickets{repo: repo}
}

// Execute branches on the caller's role: customers see tickets they own,
// mechanics see tickets they are assigned to. Other roles are rejected.
func (uc *MyTickets) Execute(
	ctx context.Context,
	role auth.Role,
	principalID uint,
) ([]View, error) {

	var tickets []models.ServiceTicket
	var err error

	switch role {
	case auth.RoleCustomer:
		tickets, err = uc.repo.ListTicketsForCustomer(ctx, principalID)
	case auth.RoleMechanic:
		tickets, err = uc.repo.ListTicketsForMechanic(ctx, principalID)
	default:
		return nil, httperr.ErrBusiness("role_not_supported")
	}
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(tickets))
	for i := range tickets {
		ids, err := uc.repo.AssignedMechanicIDs(ctx, tickets[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, NewView(&tickets[i], ids))
	}
	return views, nil
}
