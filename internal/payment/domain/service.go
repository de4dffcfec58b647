package domain

import (
	"context"
	"errors"
	"time"

	"github.com/cablepro/cablepro/pkg/db/pagination"
)

type ListPaymentRequest struct {
	PageToken     string
	PageSize      int
	CustomerID    string
	Status        string
	BillingPeriod string
	From          string
	To            string
}

type ListPaymentFilter struct {
	CustomerID    string
	Status        Status
	BillingPeriod string
	From          string
	To            string
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type CreatePaymentRequest struct {
	CustomerID    string
	Amount        int64
	PaymentDate   string
	Method        string
	BillingPeriod string
	Status        string
	Notes         string
}

// CreateResult carries the guard's verdict alongside the recorded payment.
// Payment is nil when the guard rejected; the caller renders Reason instead
// of treating the rejection as a failure.
type CreateResult struct {
	Payment     *Payment   `json:"payment,omitempty"`
	Allowed     bool       `json:"allowed"`
	Reason      string     `json:"reason,omitempty"`
	CycleEndsAt *time.Time `json:"cycle_ends_at,omitempty"`
}

type Service interface {
	// Create records a payment after consulting the billing-cycle guard.
	// A guard rejection is returned in the result, not as an error.
	Create(context.Context, CreatePaymentRequest) (CreateResult, error)
	// Preview runs the guard for a proposed payment without recording it.
	Preview(context.Context, CreatePaymentRequest) (CreateResult, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	UpdateStatus(ctx context.Context, id string, to Status) (Payment, error)
	ForCustomer(ctx context.Context, customerID string) ([]Payment, error)
	All(ctx context.Context) ([]Payment, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrCustomerNotFound  = errors.New("customer_not_found")
	ErrInvalidDate       = errors.New("invalid_payment_date")
	ErrInvalidMethod     = errors.New("invalid_payment_method")
	ErrInvalidPeriod     = errors.New("invalid_billing_period")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrIllegalTransition = errors.New("illegal_status_transition")
	ErrNotFound          = errors.New("not_found")
)
