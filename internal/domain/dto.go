package domain

// CreateCustomerRequest is the payload for adding a customer from the
// master-data form. All three fields are required there.
type CreateCustomerRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Mobile string `json:"mobile" validate:"required,len=10,numeric"`
	Street string `json:"street" validate:"required,max=200"`
}

// UpdateCustomerRequest is the payload for editing a customer.
type UpdateCustomerRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Mobile string `json:"mobile" validate:"required,len=10,numeric"`
	Street string `json:"street" validate:"required,max=200"`
}

// CreateItemRequest is the payload for adding or editing an item.
type CreateItemRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
}

// AddStreetRequest is the payload for adding a street name.
type AddStreetRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// DraftLine is one line of an invoice draft as the form collects it.
// Price is display-only on the form; the authoritative price is copied
// from the matching item at submit time.
type DraftLine struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Empty reports whether the row has nothing filled in. Fully empty rows
// are skipped at submit; partially filled rows are a validation failure.
func (l DraftLine) Empty() bool {
	return l.Description == "" && l.Quantity == 0 && l.Price == 0
}

// InvoiceDraft is the drafting-state payload for invoice creation.
type InvoiceDraft struct {
	CustomerName string      `json:"customerName" validate:"required,max=200"`
	MobileNumber string      `json:"mobileNumber" validate:"required,len=10,numeric"`
	StreetName   string      `json:"streetName" validate:"required,max=200"`
	InvoiceDate  string      `json:"invoiceDate"`
	Lines        []DraftLine `json:"lines" validate:"required"`
}

// InvoiceDTO is the flat invoice view both UI variants render: joined
// customer fields inlined and the date in display form.
type InvoiceDTO struct {
	ID            string        `json:"id,omitempty"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Date          string        `json:"date"`
	CustomerName  string        `json:"customerName"`
	MobileNumber  string        `json:"mobileNumber"`
	StreetName    string        `json:"streetName"`
	Items         []LineItem    `json:"items"`
	Total         float64       `json:"total"`
	Status        InvoiceStatus `json:"status"`
}

// InvoiceFilter narrows the invoice listing. Zero values match all.
type InvoiceFilter struct {
	Status       InvoiceStatus `json:"status,omitempty"`
	Street       string        `json:"street,omitempty"`
	Date         string        `json:"date,omitempty"`
	MobileSearch string        `json:"mobileSearch,omitempty"`
}

// AutofillResult carries the customer fields the invoice form fills in
// when a mobile number matches, or clears when it does not.
type AutofillResult struct {
	Found        bool   `json:"found"`
	CustomerName string `json:"customerName"`
	StreetName   string `json:"streetName"`
}

// PrintView is the plain data the fixed print template renders.
type PrintView struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	Date          string     `json:"date"`
	CustomerName  string     `json:"customerName"`
	MobileNumber  string     `json:"mobileNumber"`
	StreetName    string     `json:"streetName"`
	Items         []LineItem `json:"items"`
	GrandTotal    float64    `json:"grandTotal"`
	Status        string     `json:"status"`
	PaidStamp     bool       `json:"paidStamp"`
}
