package domain_test

import (
	"testing"

	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItems_Sum(t *testing.T) {
	lines := domain.LineItems{
		{Description: "Rice Bag", Quantity: 2, Price: 10, Total: 20},
		{Description: "Oil Can", Quantity: 1, Price: 20, Total: 20},
	}
	assert.Equal(t, 40.0, lines.Sum())
}

func TestLineItems_Sum_DuplicateDescriptions(t *testing.T) {
	// The same item on two rows stays two rows; nothing merges.
	lines := domain.LineItems{
		{Description: "Soap", Quantity: 2, Price: 20, Total: 40},
		{Description: "Soap", Quantity: 2, Price: 20, Total: 40},
	}
	assert.Len(t, lines, 2)
	assert.Equal(t, 80.0, lines.Sum())
}

func TestLineItems_Sum_Empty(t *testing.T) {
	assert.Equal(t, 0.0, domain.LineItems{}.Sum())
	assert.Equal(t, 0.0, domain.LineItems(nil).Sum())
}

func TestLineItems_Scan(t *testing.T) {
	var lines domain.LineItems
	err := lines.Scan([]byte(`[{"description":"Soap","quantity":3,"price":20,"total":60}]`))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Soap", lines[0].Description)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 60.0, lines[0].Total)
}

func TestLineItems_Scan_Nil(t *testing.T) {
	var lines domain.LineItems
	require.NoError(t, lines.Scan(nil))
	assert.Empty(t, lines)
}

func TestLineItems_Value_NilEncodesAsEmptyArray(t *testing.T) {
	v, err := domain.LineItems(nil).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v.([]byte)))
}

func TestInvoiceStatus_Toggled(t *testing.T) {
	assert.Equal(t, domain.InvoiceStatusPaid, domain.InvoiceStatusUnpaid.Toggled())
	assert.Equal(t, domain.InvoiceStatusUnpaid, domain.InvoiceStatusPaid.Toggled())
}

func TestInvoice_CustomerAccessors_NilSafe(t *testing.T) {
	inv := &domain.Invoice{}
	assert.Equal(t, "", inv.CustomerName())
	assert.Equal(t, "", inv.MobileNumber())
	assert.Equal(t, "", inv.StreetName())

	inv.Customer = &domain.Customer{Name: "Lakshmi", Mobile: "9876543210", Street: "Gandhi Road"}
	assert.Equal(t, "Lakshmi", inv.CustomerName())
	assert.Equal(t, "9876543210", inv.MobileNumber())
	assert.Equal(t, "Gandhi Road", inv.StreetName())
}
