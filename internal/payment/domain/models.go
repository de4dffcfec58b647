package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusConfirmed Status = "Confirmed"
	StatusPending   Status = "Pending"
	StatusCancelled Status = "Cancelled"
)

type Method string

const (
	MethodCash Method = "Cash"
	MethodUPI  Method = "UPI"
)

// Payment is one recorded payment. CustomerName is a snapshot taken at
// creation so receipts survive later customer edits or deletion.
type Payment struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	CustomerID    snowflake.ID `json:"customer_id" gorm:"index"`
	CustomerName  string       `json:"customer_name"`
	Amount        int64        `json:"amount"`
	PaymentDate   string       `json:"payment_date" gorm:"type:date"`
	Method        Method       `json:"method"`
	BillingPeriod string       `json:"billing_period"`
	Status        Status       `json:"status" gorm:"index"`
	Notes         string       `json:"notes"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// transitions is the full legal state machine. Cancelled is terminal.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCancelled: true,
	},
	StatusCancelled: {},
}

// CanTransition reports whether a payment may move from one status to
// another. Same-status writes are not transitions and return false.
func CanTransition(from, to Status) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

func ValidMethod(m Method) bool {
	return m == MethodCash || m == MethodUPI
}
