package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/cablepro/cablepro/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	Save(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListPaymentFilter, page pagination.Pagination) ([]*Payment, error)
	ForCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]Payment, error)
	All(ctx context.Context, db *gorm.DB) ([]Payment, error)
}
