package billing

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/stretchr/testify/assert"
)

func testCustomer(id int64, rate int64, duration int, status customerdomain.Status) customerdomain.Customer {
	return customerdomain.Customer{
		ID:           snowflake.ID(id),
		Name:         "Test Subscriber",
		MonthlyRate:  rate,
		PlanDuration: duration,
		Status:       status,
	}
}

func confirmedPayment(customerID int64, date string) paymentdomain.Payment {
	return paymentdomain.Payment{
		CustomerID:  snowflake.ID(customerID),
		Amount:      450,
		PaymentDate: date,
		Status:      paymentdomain.StatusConfirmed,
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	assert.NoError(t, err)
	return d
}

func TestEvaluateNoPayments(t *testing.T) {
	customer := testCustomer(1, 300, 1, customerdomain.StatusActive)

	cov := Evaluate(customer, nil, mustDate(t, "2026-03-10"))

	assert.False(t, cov.Covered)
	assert.Equal(t, int64(300), cov.Outstanding)
}

func TestEvaluateDeactiveAlwaysCovered(t *testing.T) {
	customer := testCustomer(1, 450, 1, customerdomain.StatusDeactive)

	// No payment history at all, and yet nothing is owed.
	cov := Evaluate(customer, nil, mustDate(t, "2026-03-10"))

	assert.True(t, cov.Covered)
	assert.Zero(t, cov.Outstanding)

	// Any non-Active status behaves the same way.
	customer.Status = customerdomain.Status("Suspended")
	cov = Evaluate(customer, nil, mustDate(t, "2026-03-10"))

	assert.True(t, cov.Covered)
	assert.Zero(t, cov.Outstanding)
}

func TestEvaluatePaymentDatedToday(t *testing.T) {
	customer := testCustomer(1, 450, 1, customerdomain.StatusActive)
	payments := []paymentdomain.Payment{confirmedPayment(1, "2026-03-10")}

	cov := Evaluate(customer, payments, mustDate(t, "2026-03-10"))

	assert.True(t, cov.Covered)
	assert.Zero(t, cov.Outstanding)
}

func TestEvaluateThreeMonthPlanExpiredAfter100Days(t *testing.T) {
	customer := testCustomer(1, 900, 3, customerdomain.StatusActive)
	payments := []paymentdomain.Payment{confirmedPayment(1, "2025-11-30")}

	// 100 days after the payment, past the roughly 90-day window.
	now := mustDate(t, "2025-11-30").AddDate(0, 0, 100)
	cov := Evaluate(customer, payments, now)

	assert.False(t, cov.Covered)
	assert.Equal(t, int64(900), cov.Outstanding)
}

func TestEvaluateMidCycleAndExpiry(t *testing.T) {
	customer := testCustomer(7, 450, 1, customerdomain.StatusActive)
	payments := []paymentdomain.Payment{confirmedPayment(7, "2026-02-13")}

	mid := Evaluate(customer, payments, mustDate(t, "2026-03-10"))
	assert.True(t, mid.Covered)
	assert.Equal(t, mustDate(t, "2026-03-13"), mid.PaidUntil)

	after := Evaluate(customer, payments, mustDate(t, "2026-03-14"))
	assert.False(t, after.Covered)
	assert.Equal(t, int64(450), after.Outstanding)
}

func TestEvaluateIgnoresPendingAndCancelled(t *testing.T) {
	customer := testCustomer(7, 450, 1, customerdomain.StatusActive)
	payments := []paymentdomain.Payment{
		{CustomerID: 7, PaymentDate: "2026-03-09", Status: paymentdomain.StatusPending},
		{CustomerID: 7, PaymentDate: "2026-03-09", Status: paymentdomain.StatusCancelled},
		{CustomerID: 9, PaymentDate: "2026-03-09", Status: paymentdomain.StatusConfirmed},
	}

	cov := Evaluate(customer, payments, mustDate(t, "2026-03-10"))

	assert.False(t, cov.Covered)
	assert.Equal(t, int64(450), cov.Outstanding)
}

func TestEvaluateUsesLatestConfirmedDate(t *testing.T) {
	customer := testCustomer(7, 450, 1, customerdomain.StatusActive)
	payments := []paymentdomain.Payment{
		confirmedPayment(7, "2025-12-01"),
		confirmedPayment(7, "2026-02-13"),
		confirmedPayment(7, "2026-01-05"),
	}

	cov := Evaluate(customer, payments, mustDate(t, "2026-03-10"))

	assert.True(t, cov.Covered)
	assert.Equal(t, mustDate(t, "2026-03-13"), cov.PaidUntil)
}

// Jan 31 plus one month rolls through the short February to Mar 3 in a
// non-leap year. The overflow is the documented month arithmetic, so a
// payment dated Jan 31 covers the first days of March.
func TestEvaluateMonthOverflow(t *testing.T) {
	customer := testCustomer(7, 450, 1, customerdomain.StatusActive)
	payments := []paymentdomain.Payment{confirmedPayment(7, "2026-01-31")}

	cov := Evaluate(customer, payments, mustDate(t, "2026-03-02"))
	assert.True(t, cov.Covered)
	assert.Equal(t, mustDate(t, "2026-03-03"), cov.PaidUntil)

	expired := Evaluate(customer, payments, mustDate(t, "2026-03-03"))
	assert.False(t, expired.Covered)
}
