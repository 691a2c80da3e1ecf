package models

import (
	"time"
)

// Order service types accepted by the backend.
const (
	ServiceTable    = "table"
	ServiceCounter  = "counter"
	ServiceDelivery = "delivery"
	ServicePickup   = "pickup"
)

// OrderRecord is the local journal entry written when a POS order is
// finalized. The backend remains the source of truth; the journal exists so
// the operator can audit what this terminal submitted.
type OrderRecord struct {
	ID              string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderIdentify   string            `gorm:"type:varchar(64);index" json:"order_identify"`
	Tenant          string            `gorm:"type:varchar(64);index;not null" json:"tenant"`
	ServiceType     string            `gorm:"type:varchar(20);not null" json:"service_type"`
	PaymentMethodID string            `gorm:"type:varchar(36)" json:"payment_method_id"`
	TableID         string            `gorm:"type:varchar(36)" json:"table_id"`
	DeliveryAddress string            `gorm:"type:text" json:"delivery_address"`
	Subtotal        float64           `gorm:"type:decimal(10,2)" json:"subtotal"`
	Taxes           float64           `gorm:"type:decimal(10,2)" json:"taxes"`
	Discounts       float64           `gorm:"type:decimal(10,2)" json:"discounts"`
	Total           float64           `gorm:"type:decimal(10,2)" json:"total"`
	Items           []OrderRecordItem `gorm:"foreignKey:OrderRecordID" json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (OrderRecord) TableName() string {
	return "order_records"
}

type OrderRecordItem struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRecordID string  `gorm:"type:varchar(36);index;not null" json:"order_record_id"`
	Identify      string  `gorm:"type:varchar(64);not null" json:"identify"`
	VariationID   string  `gorm:"type:varchar(36)" json:"variation_id"`
	Optionals     string  `gorm:"type:text" json:"optionals"` // canonical signature
	Quantity      int     `gorm:"not null" json:"qty"`
	Price         float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (OrderRecordItem) TableName() string {
	return "order_record_items"
}
