package models

import "time"

type Product struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"size:100;not null" json:"name"`
	Price float64 `gorm:"not null" json:"price"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Product) TableName() string {
	return "inventory"
}

// TicketProduct records a part consumed by a service ticket. A product may
// be linked to a ticket at most once; quantity changes go through the
// existing row, never a second link.
type TicketProduct struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	ProductID       uint `gorm:"uniqueIndex:idx_product_ticket;not null" json:"product_id"`
	ServiceTicketID uint `gorm:"uniqueIndex:idx_product_ticket;not null" json:"service_ticket_id"`
	Quantity        int  `gorm:"not null" json:"quantity"`

	Product Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"product"`
}

func (TicketProduct) TableName() string {
	return "inventory_service_tickets"
}
