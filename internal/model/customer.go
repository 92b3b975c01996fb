package model

import (
	"regexp"
	"time"
)

var phonePattern = regexp.MustCompile(`^(\+\d{10,15}|\d{3}-\d{3}-\d{4})$`)

// ValidPhone reports whether phone is +<10-15 digits> or NNN-NNN-NNNN.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Customer represents a customer with one-to-many Orders.
// Phone is nil when the customer has none so the unique index only covers real numbers.
type Customer struct {
	CreatedAt time.Time `gorm:"not null"                         json:"createdAt"`
	Phone     *string   `gorm:"size:20;uniqueIndex"              json:"phone"`
	Name      string    `gorm:"size:255;not null"                json:"name"`
	Email     string    `gorm:"size:254;uniqueIndex;not null"    json:"email"`
	Orders    []Order   `gorm:"constraint:OnDelete:NO ACTION"   json:"orders,omitempty"`
	ID        uint      `gorm:"primaryKey"                       json:"id"`
}

// PhoneNumber returns the phone or an empty string.
func (c *Customer) PhoneNumber() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}

// CustomerFilter narrows customer listings. Zero values are ignored.
type CustomerFilter struct {
	CreatedAtGte   *time.Time
	CreatedAtLte   *time.Time
	NameIcontains  string
	EmailIcontains string
	PhonePattern   string
}
