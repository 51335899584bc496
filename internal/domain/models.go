package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// GetID returns the backend-assigned id.
func (m *BaseModel) GetID() uuid.UUID {
	return m.ID
}

// BeforeCreate assigns an id before insert. The column carries no
// schema-level default so the same model works on postgres and sqlite;
// rows inserted outside gorm still get gen_random_uuid() from the
// migration.
func (m *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Persisted reports whether the record has been assigned a backend id.
// Records built locally (for example an invoice echoed into the list
// before the remote round-trip confirms it) have a nil id.
func (m *BaseModel) Persisted() bool {
	return m.ID != uuid.Nil
}

// Table names used by the remote data gateway. The change channel for a
// table is derived from these, so they must match the migration schema.
const (
	TableCustomers = "customers"
	TableStreets   = "streets"
	TableItems     = "items"
	TableInvoices  = "invoices"
)

// Customer represents a retail customer. The mobile number is the
// business key: lookups, auto-fill and invoice attribution all go
// through it rather than the backend id.
type Customer struct {
	BaseModel
	Name   string `gorm:"type:varchar(200);not null;index" json:"name"`
	Mobile string `gorm:"type:varchar(10);not null;uniqueIndex" json:"mobile"`
	Street string `gorm:"type:varchar(200)" json:"street"`
}

// Street is a master-data street name. The working set of streets is the
// union of these rows and any street value present on a customer.
type Street struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
}

// Item is a sellable item. Read widely as a dropdown source; written
// only from the master-data forms.
type Item struct {
	BaseModel
	Name  string  `gorm:"type:varchar(200);not null;index" json:"name"`
	Price float64 `gorm:"not null;default:0" json:"price"`
}

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

// Toggled returns the opposite status.
func (s InvoiceStatus) Toggled() InvoiceStatus {
	if s == InvoiceStatusPaid {
		return InvoiceStatusUnpaid
	}
	return InvoiceStatusPaid
}

// LineItem is one row of an invoice. Price is copied from the matching
// item at submit time and is not independently editable; Total is always
// Quantity × Price.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// LineItems is the ordered line-item sequence of an invoice, stored on
// the invoice row as a JSON column.
type LineItems []LineItem

// Value implements driver.Valuer for storing line items as JSON.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for reading line items from a JSON column.
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into LineItems", value)
	}
	return json.Unmarshal(data, l)
}

// Sum returns the exact sum of line totals.
func (l LineItems) Sum() float64 {
	var total float64
	for _, item := range l {
		total += item.Total
	}
	return total
}

// Invoice is a persisted invoice row. InvoiceNumber and Items are
// immutable once created; only Status transitions afterwards.
type Invoice struct {
	BaseModel
	InvoiceNumber string        `gorm:"type:varchar(20);not null;uniqueIndex;column:invoice_number" json:"invoiceNumber"`
	CustomerID    uuid.UUID     `gorm:"type:uuid;not null;column:customer_id;index" json:"customerId"`
	Customer      *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	InvoiceDate   string        `gorm:"type:varchar(10);not null;column:invoice_date" json:"invoiceDate"`
	Items         LineItems     `gorm:"type:jsonb" json:"items"`
	Total         float64       `gorm:"not null;default:0" json:"total"`
	Status        InvoiceStatus `gorm:"type:varchar(10);not null;default:'unpaid';index" json:"status"`
}

// CustomerName returns the joined customer's name, or "" when the
// association was not loaded.
func (i *Invoice) CustomerName() string {
	if i.Customer == nil {
		return ""
	}
	return i.Customer.Name
}

// MobileNumber returns the joined customer's mobile, or "".
func (i *Invoice) MobileNumber() string {
	if i.Customer == nil {
		return ""
	}
	return i.Customer.Mobile
}

// StreetName returns the joined customer's street, or "".
func (i *Invoice) StreetName() string {
	if i.Customer == nil {
		return ""
	}
	return i.Customer.Street
}
