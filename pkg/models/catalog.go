package models

import (
	"time"
)

// Product mirrors the backend catalog entry the POS sells from. Identify is
// the backend's public identifier used in order payloads.
type Product struct {
	ID          string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Identify    string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"identify"`
	CategoryID  string      `gorm:"type:varchar(36);index" json:"category_id"`
	Name        string      `gorm:"type:varchar(150);not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Price       float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	Active      bool        `gorm:"default:true" json:"active"`
	Variations  []Variation `gorm:"foreignKey:ProductID" json:"variations,omitempty"`
	Optionals   []Optional  `gorm:"foreignKey:ProductID" json:"optionals,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// Variation adjusts the base price of a product (e.g. size).
type Variation struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProductID  string  `gorm:"type:varchar(36);index;not null" json:"product_id"`
	Name       string  `gorm:"type:varchar(100);not null" json:"name"`
	PriceDelta float64 `gorm:"type:decimal(10,2);default:0" json:"price_delta"`
}

func (Variation) TableName() string {
	return "product_variations"
}

// Optional is an add-on the operator can toggle per line (e.g. extra cheese).
type Optional struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProductID string `gorm:"type:varchar(36);index;not null" json:"product_id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
}

func (Optional) TableName() string {
	return "product_optionals"
}

type Category struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

type DiningTable struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Identify string `gorm:"type:varchar(64);uniqueIndex;not null" json:"identify"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Occupied bool   `gorm:"default:false" json:"occupied"`
}

func (DiningTable) TableName() string {
	return "dining_tables"
}

type PaymentMethod struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name   string `gorm:"type:varchar(100);not null" json:"name"`
	Active bool   `gorm:"default:true" json:"active"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}
