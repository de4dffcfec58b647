package export

import (
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/stretchr/testify/assert"
)

func sampleCustomers() []customerdomain.Customer {
	return []customerdomain.Customer{
		{
			ID:             snowflake.ID(1001),
			Name:           "Ramesh Kumar",
			Phone:          "9876543210",
			Address:        "12, MG Road",
			STBNumber:      "448812345",
			PackageName:    "Basic HD",
			MonthlyRate:    300,
			Status:         customerdomain.StatusActive,
			ConnectionDate: "2025-06-01",
		},
		{
			ID:             snowflake.ID(1002),
			Name:           "Sita Devi",
			Phone:          "9123456780",
			Address:        "4th Cross, Jayanagar",
			STBNumber:      "448812346",
			PackageName:    "Premium",
			MonthlyRate:    500,
			Status:         customerdomain.StatusDeactive,
			ConnectionDate: "2024-11-15",
		},
	}
}

func TestWriteCustomersHeaderAndQuoting(t *testing.T) {
	var buf strings.Builder
	err := WriteCustomers(&buf, sampleCustomers())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, CustomersHeader, lines[0])
	assert.Equal(t, `"1001","Ramesh Kumar","9876543210","12, MG Road","448812345","Basic HD",300,"Active","2025-06-01"`, lines[1])
}

func TestWriteCustomersEscapesEmbeddedQuotes(t *testing.T) {
	customers := sampleCustomers()[:1]
	customers[0].Address = `Flat "B", MG Road`

	var buf strings.Builder
	err := WriteCustomers(&buf, customers)
	assert.NoError(t, err)

	// Embedded quotes double per CSV convention so the row survives a
	// round trip through ParseCustomers.
	assert.Contains(t, buf.String(), `"Flat ""B"", MG Road"`)

	parsed, err := ParseCustomers(strings.NewReader(buf.String()))
	assert.NoError(t, err)
	if assert.Len(t, parsed, 1) {
		assert.Equal(t, `Flat "B", MG Road`, parsed[0].Address)
	}
}

func TestWriteCustomersRedactsDeleted(t *testing.T) {
	customers := sampleCustomers()
	customers[1].IsDeleted = true

	var buf strings.Builder
	err := WriteCustomers(&buf, customers)
	assert.NoError(t, err)

	assert.Contains(t, buf.String(), customerdomain.DeletedPlaceholder)
	assert.NotContains(t, buf.String(), "Sita Devi")
}

func TestCustomersRoundTrip(t *testing.T) {
	customers := sampleCustomers()

	var buf strings.Builder
	assert.NoError(t, WriteCustomers(&buf, customers))

	parsed, err := ParseCustomers(strings.NewReader(buf.String()))
	assert.NoError(t, err)
	assert.Len(t, parsed, len(customers))

	for i, customer := range customers {
		assert.Equal(t, customer.ID, parsed[i].ID)
		assert.Equal(t, customer.Name, parsed[i].Name)
		assert.Equal(t, customer.Phone, parsed[i].Phone)
		assert.Equal(t, customer.MonthlyRate, parsed[i].MonthlyRate)
		assert.Equal(t, customer.Status, parsed[i].Status)
	}
}

func TestParseCustomersAssignsZeroIDForBadColumn(t *testing.T) {
	raw := CustomersHeader + "\n" +
		`"not-a-number","New Subscriber","9000000000","Somewhere","448899","Basic HD",300,"Active","2026-01-01"` + "\n"

	parsed, err := ParseCustomers(strings.NewReader(raw))
	assert.NoError(t, err)
	assert.Len(t, parsed, 1)
	assert.Zero(t, parsed[0].ID)
	assert.Equal(t, "New Subscriber", parsed[0].Name)
}

func TestParseCustomersRejectsWrongHeader(t *testing.T) {
	_, err := ParseCustomers(strings.NewReader("Name,Phone\nfoo,bar\n"))
	assert.Error(t, err)
}

func TestWritePayments(t *testing.T) {
	payments := []paymentdomain.Payment{
		{
			CustomerName:  "Ramesh Kumar",
			Amount:        450,
			PaymentDate:   "2026-02-13",
			Method:        paymentdomain.MethodCash,
			BillingPeriod: "February 2026",
			Status:        paymentdomain.StatusConfirmed,
		},
	}

	var buf strings.Builder
	err := WritePayments(&buf, payments)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, PaymentsHeader, lines[0])
	assert.Equal(t, `"Ramesh Kumar",450,"2026-02-13","Cash","February 2026","Confirmed"`, lines[1])
}
