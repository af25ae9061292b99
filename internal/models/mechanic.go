package models

import "time"

type Mechanic struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:50;not null" json:"name"`
	Phone  string `gorm:"size:15;not null" json:"phone"`
	Email  string `gorm:"size:50;uniqueIndex;not null" json:"email"`
	Salary int    `gorm:"not null" json:"salary"`

	PasswordHash string `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
