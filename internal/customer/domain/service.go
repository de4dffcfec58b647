package domain

import (
	"context"
	"errors"

	"github.com/cablepro/cablepro/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Status    string
	Search    string
}

type ListCustomerFilter struct {
	Status Status
	Search string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name           string
	Phone          string
	Address        string
	STBNumber      string
	ConnectionDate string
	PackageName    string
	MonthlyRate    int64
	PlanDuration   int
	Status         string
}

type UpdateCustomerRequest struct {
	ID             string
	Name           *string
	Phone          *string
	Address        *string
	STBNumber      *string
	ConnectionDate *string
	PackageName    *string
	MonthlyRate    *int64
	PlanDuration   *int
	Status         *string
}

type GetCustomerRequest struct {
	ID string
}

// ImportResult reports how many rows an import actually added.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	SetStatus(ctx context.Context, id string, status Status) (Customer, error)
	// Delete marks the customer soft-deleted. The row is never removed so
	// payment history keeps a valid reference.
	Delete(ctx context.Context, id string) error
	// All returns every customer, deleted included, for exports and roll-ups.
	All(ctx context.Context) ([]Customer, error)
	Import(ctx context.Context, customers []Customer) (ImportResult, error)
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidPhone        = errors.New("invalid_phone")
	ErrDuplicatePhone      = errors.New("duplicate_phone")
	ErrInvalidSTBNumber    = errors.New("invalid_stb_number")
	ErrDuplicateSTBNumber  = errors.New("duplicate_stb_number")
	ErrInvalidRate         = errors.New("invalid_monthly_rate")
	ErrInvalidPlanDuration = errors.New("invalid_plan_duration")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrDeleted             = errors.New("customer_deleted")
)
