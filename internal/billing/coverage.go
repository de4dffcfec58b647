package billing

import (
	"time"

	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
)

// Coverage is the recomputed billing position of one customer at an instant.
type Coverage struct {
	// Covered is true when the customer owes nothing right now.
	Covered bool `json:"covered"`
	// Outstanding is the amount due, zero when covered. An uncovered
	// customer owes one monthly rate.
	Outstanding int64 `json:"outstanding"`
	// PaidUntil is the end of the paid window, zero when the customer has
	// no confirmed payment.
	PaidUntil time.Time `json:"paid_until,omitzero"`
}

// Evaluate computes coverage from the customer's confirmed payment history.
//
// The paid window runs from the latest confirmed payment date for one plan
// duration of calendar months. Pending and cancelled payments do not count.
// Non-Active customers are always covered: a disconnected box accrues
// nothing.
func Evaluate(customer customerdomain.Customer, payments []paymentdomain.Payment, now time.Time) Coverage {
	if customer.Status != customerdomain.StatusActive {
		return Coverage{Covered: true}
	}

	last := lastConfirmedDate(customer, payments)
	if last == "" {
		return Coverage{Outstanding: customer.MonthlyRate}
	}

	paidFrom, err := ParseDate(last)
	if err != nil {
		// A malformed stored date is treated as no payment at all.
		return Coverage{Outstanding: customer.MonthlyRate}
	}

	paidUntil := AddMonths(paidFrom, customer.PlanDuration)
	if now.Before(paidUntil) {
		return Coverage{Covered: true, PaidUntil: paidUntil}
	}
	return Coverage{Outstanding: customer.MonthlyRate, PaidUntil: paidUntil}
}

// lastConfirmedDate returns the latest confirmed payment date for the
// customer. Dates are YYYY-MM-DD strings, so the maximum as text is the
// maximum in time.
func lastConfirmedDate(customer customerdomain.Customer, payments []paymentdomain.Payment) string {
	var last string
	for _, p := range payments {
		if p.CustomerID != customer.ID || p.Status != paymentdomain.StatusConfirmed {
			continue
		}
		if p.PaymentDate > last {
			last = p.PaymentDate
		}
	}
	return last
}
