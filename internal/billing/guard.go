package billing

import (
	"fmt"
	"time"

	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
)

const (
	ReasonCustomerNotActive = "customer not active"
	ReasonInvalidAmount     = "invalid amount"
)

// Decision is the guard's verdict on a proposed payment. It is a value, not
// an error: a rejection is a normal outcome the caller renders to the
// operator.
type Decision struct {
	Allowed     bool       `json:"allowed"`
	Reason      string     `json:"reason,omitempty"`
	CycleEndsAt *time.Time `json:"cycle_ends_at,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func reject(reason string) Decision {
	return Decision{Reason: reason}
}

// CanRecordPayment decides whether a new payment may be recorded for the
// customer. Unlike coverage it keys off billing-period labels, not payment
// dates, because operators backdate and pre-pay.
//
// The latest prior cycle is the confirmed payment whose billing period is
// greatest by numeric (year, month) comparison. That cycle runs from the
// first of its labeled month for the customer's plan duration; while now is
// inside it, a new payment is rejected. The proposed billing period itself
// does not shift the verdict, only amount and timing do.
func CanRecordPayment(customer customerdomain.Customer, payments []paymentdomain.Payment, amount int64, billingPeriod string, now time.Time) Decision {
	if customer.Status != customerdomain.StatusActive {
		return reject(ReasonCustomerNotActive)
	}
	if amount <= 0 {
		return reject(ReasonInvalidAmount)
	}

	latest, ok := latestConfirmedPeriod(customer, payments)
	if !ok {
		// First payment, nothing to collide with.
		return allow()
	}

	cycleEnd := AddMonths(latest.Start(), customer.PlanDuration)
	if now.Before(cycleEnd) {
		return Decision{
			Reason: fmt.Sprintf(
				"this customer's %d-month plan is active until %s. Next payment can be recorded from that date.",
				customer.PlanDuration, cycleEnd.Format("02 Jan 2006"),
			),
			CycleEndsAt: &cycleEnd,
		}
	}
	return allow()
}

// latestConfirmedPeriod picks the customer's most recent confirmed billing
// period. Labels that fail to parse are skipped.
func latestConfirmedPeriod(customer customerdomain.Customer, payments []paymentdomain.Payment) (Period, bool) {
	var (
		latest Period
		found  bool
	)
	for _, p := range payments {
		if p.CustomerID != customer.ID || p.Status != paymentdomain.StatusConfirmed {
			continue
		}
		period, err := ParsePeriod(p.BillingPeriod)
		if err != nil {
			continue
		}
		if !found || latest.Before(period) {
			latest = period
			found = true
		}
	}
	return latest, found
}
