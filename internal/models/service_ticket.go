package models

import "time"

type ServiceTicket struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Nullable so deleting a customer keeps their tickets around.
	CustomerID *uint     `json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	VIN         string    `gorm:"column:vin;size:17;not null" json:"vin"`
	ServiceDate time.Time `gorm:"not null" json:"service_date"`
	ServiceDesc string    `gorm:"size:200;not null" json:"service_desc"`

	Mechanics []Mechanic `gorm:"many2many:service_mechanics;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceMechanic is the assignment link between a ticket and a mechanic.
// Membership only; at most one row per pair.
type ServiceMechanic struct {
	ServiceTicketID uint `gorm:"primaryKey" json:"service_ticket_id"`
	MechanicID      uint `gorm:"primaryKey" json:"mechanic_id"`
}

func (ServiceMechanic) TableName() string {
	return "service_mechanics"
}
