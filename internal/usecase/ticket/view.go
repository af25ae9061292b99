package ticket

import "github.com/RepairShopServices/mechanic-shop-api/internal/models"

// View is the serialized ticket shape: the row plus the ids of its
// currently assigned mechanics.
type View struct {
	models.ServiceTicket
	MechanicIDs []uint `json:"mechanic_ids"`
}

func NewView(t *models.ServiceTicket, mechanicIDs []uint) View {
	if mechanicIDs == nil {
		mechanicIDs = []uint{}
	}
	return View{ServiceTicket: *t, MechanicIDs: mechanicIDs}
}
