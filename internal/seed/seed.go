// Package seed loads demo subscribers and payments into an empty database
// when SEED_DEMO_DATA is set. Meant for local evaluation, never production.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cablepro/cablepro/internal/config"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

type demoCustomer struct {
	name           string
	phone          string
	address        string
	stbNumber      string
	connectionDate string
	packageName    string
	monthlyRate    int64
	planDuration   int
	status         customerdomain.Status
}

type demoPayment struct {
	customer      int
	amount        int64
	paymentDate   string
	method        paymentdomain.Method
	billingPeriod string
	status        paymentdomain.Status
	notes         string
}

var demoCustomers = []demoCustomer{
	{"Rajesh Kumar", "+91 98765 43210", "123, Maple Street, Green View Layout", "9876543210", "2023-01-15", "Ultra HD Gold Pack", 450, 1, customerdomain.StatusActive},
	{"Priya Sharma", "+91 98765 43211", "45, Oak Avenue, Sunflower Colony", "8765432109", "2023-02-20", "Basic HD Pack", 300, 1, customerdomain.StatusActive},
	{"Amit Patel", "+91 98765 43212", "78, Pine Road, Lake View", "7654321098", "2023-03-10", "Premium Pack", 500, 1, customerdomain.StatusActive},
	{"Sunita Devi", "+91 98765 43213", "12, Elm Street, Park Side", "6543210987", "2023-04-05", "Ultra HD Gold Pack", 450, 3, customerdomain.StatusActive},
	{"Vikram Singh", "+91 98765 43214", "56, Cedar Lane, Hill View", "5432109876", "2023-05-15", "Basic HD Pack", 300, 1, customerdomain.StatusActive},
	{"Deepak Verma", "+91 98765 43215", "90, Birch Road, Valley Side", "4321098765", "2023-06-20", "Premium Pack", 500, 6, customerdomain.StatusDeactive},
	{"Neha Gupta", "+91 98765 43216", "34, Willow Court, River Edge", "3210987654", "2023-07-10", "Ultra HD Gold Pack", 450, 12, customerdomain.StatusActive},
	{"Rahul Saxena", "+91 98765 43217", "67, Ash Street, Mountain View", "2109876543", "2023-08-05", "Basic HD Pack", 300, 1, customerdomain.StatusActive},
}

var demoPayments = []demoPayment{
	{0, 450, "2026-02-13", paymentdomain.MethodUPI, "February 2026", paymentdomain.StatusConfirmed, ""},
	{1, 300, "2026-02-13", paymentdomain.MethodCash, "February 2026", paymentdomain.StatusConfirmed, ""},
	{7, 500, "2026-02-12", paymentdomain.MethodUPI, "February 2026", paymentdomain.StatusConfirmed, ""},
	{4, 300, "2026-02-12", paymentdomain.MethodCash, "January 2026", paymentdomain.StatusPending, "Partial payment"},
	{3, 450, "2026-02-11", paymentdomain.MethodCash, "February 2026", paymentdomain.StatusConfirmed, ""},
	{6, 450, "2026-02-10", paymentdomain.MethodUPI, "February 2026", paymentdomain.StatusConfirmed, ""},
	{2, 500, "2026-02-10", paymentdomain.MethodUPI, "February 2026", paymentdomain.StatusConfirmed, ""},
	{0, 450, "2026-01-13", paymentdomain.MethodCash, "January 2026", paymentdomain.StatusConfirmed, ""},
	{1, 300, "2026-01-12", paymentdomain.MethodUPI, "January 2026", paymentdomain.StatusConfirmed, ""},
}

// Run inserts the demo data set once. A database that already has customers
// is left alone.
func Run(cfg config.Config, db *gorm.DB, genID *snowflake.Node, log *zap.Logger) error {
	if !cfg.SeedDemoData {
		return nil
	}

	ctx := context.Background()

	var count int64
	if err := db.WithContext(ctx).Model(&customerdomain.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug("seed skipped, customers already present", zap.Int64("count", count))
		return nil
	}

	now := time.Now().UTC()
	customers := make([]customerdomain.Customer, len(demoCustomers))
	for i, d := range demoCustomers {
		customers[i] = customerdomain.Customer{
			ID:             genID.Generate(),
			Name:           d.name,
			Phone:          d.phone,
			Address:        d.address,
			STBNumber:      d.stbNumber,
			ConnectionDate: d.connectionDate,
			PackageName:    d.packageName,
			MonthlyRate:    d.monthlyRate,
			PlanDuration:   d.planDuration,
			Status:         d.status,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	payments := make([]paymentdomain.Payment, len(demoPayments))
	for i, d := range demoPayments {
		owner := customers[d.customer]
		created, err := time.Parse("2006-01-02", d.paymentDate)
		if err != nil {
			created = now
		}
		payments[i] = paymentdomain.Payment{
			ID:            genID.Generate(),
			CustomerID:    owner.ID,
			CustomerName:  owner.Name,
			Amount:        d.amount,
			PaymentDate:   d.paymentDate,
			Method:        d.method,
			BillingPeriod: d.billingPeriod,
			Status:        d.status,
			Notes:         d.notes,
			CreatedAt:     created,
		}
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&customers).Error; err != nil {
			return err
		}
		return tx.Create(&payments).Error
	})
	if err != nil {
		return err
	}

	log.Info("demo data seeded",
		zap.Int("customers", len(customers)),
		zap.Int("payments", len(payments)),
	)
	return nil
}
