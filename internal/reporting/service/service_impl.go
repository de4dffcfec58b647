package service

import (
	"context"
	"strings"
	"time"

	"github.com/cablepro/cablepro/internal/billing"
	"github.com/cablepro/cablepro/internal/clock"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/cablepro/cablepro/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Customers customerdomain.Repository
	Payments  paymentdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	customers customerdomain.Repository
	payments  paymentdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("reporting.service"),
		clock:     p.Clock,
		customers: p.Customers,
		payments:  p.Payments,
	}
}

// snapshot loads customers and payments inside one transaction so every
// roll-up on a page is computed from the same state. Reading lists at
// different times can show a payment in collection totals before coverage
// reflects it.
func (s *Service) snapshot(ctx context.Context) ([]customerdomain.Customer, []paymentdomain.Payment, error) {
	var (
		customers []customerdomain.Customer
		payments  []paymentdomain.Payment
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if customers, err = s.customers.All(ctx, tx); err != nil {
			return err
		}
		payments, err = s.payments.All(ctx, tx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return customers, payments, nil
}

func (s *Service) Dashboard(ctx context.Context) (domain.Overview, error) {
	customers, payments, err := s.snapshot(ctx)
	if err != nil {
		return domain.Overview{}, err
	}

	now := s.clock.Now()
	overview := domain.Overview{
		TotalOutstanding: TotalOutstanding(customers, payments, now),
		PaidThisMonth:    PaidThisMonth(customers, payments, now),
		WeeklySeries:     WeeklySeries(payments, now, 7),
		MethodSplit:      MethodBreakdown(payments),
		RecentActivity:   RecentActivity(customers, payments, 10),
	}
	for _, customer := range customers {
		if customer.IsDeleted {
			continue
		}
		overview.TotalCustomers++
		if customer.Status == customerdomain.StatusActive {
			overview.ActiveCustomers++
		}
	}
	overview.CollectionToday, overview.CollectionWeek, overview.CollectionMonth = CollectionTotals(payments, now)
	return overview, nil
}

func (s *Service) Collections(ctx context.Context, req domain.CollectionsRequest) (domain.CollectionsReport, error) {
	now := s.clock.Now()

	from, to, err := reportRange(req, now)
	if err != nil {
		return domain.CollectionsReport{}, err
	}

	_, payments, err := s.snapshot(ctx)
	if err != nil {
		return domain.CollectionsReport{}, err
	}

	report := domain.CollectionsReport{
		From:     from,
		To:       to,
		ByMethod: MethodBreakdown(filterRange(payments, from, to)),
		Daily:    DailyBreakdown(payments, from, to),
	}
	for _, bucket := range report.Daily {
		report.Total += bucket.Total
		report.Count += bucket.Count
	}
	return report, nil
}

func reportRange(req domain.CollectionsRequest, now time.Time) (string, string, error) {
	today := now.Format(billing.DateLayout)
	switch strings.TrimSpace(req.Period) {
	case "", "today":
		return today, today, nil
	case "week":
		return now.AddDate(0, 0, -7).Format(billing.DateLayout), today, nil
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.Format(billing.DateLayout), today, nil
	case "custom":
		from := strings.TrimSpace(req.From)
		to := strings.TrimSpace(req.To)
		if _, err := billing.ParseDate(from); err != nil {
			return "", "", domain.ErrInvalidRange
		}
		if _, err := billing.ParseDate(to); err != nil {
			return "", "", domain.ErrInvalidRange
		}
		if from > to {
			return "", "", domain.ErrInvalidRange
		}
		return from, to, nil
	default:
		return "", "", domain.ErrInvalidPeriod
	}
}

func filterRange(payments []paymentdomain.Payment, from, to string) []paymentdomain.Payment {
	filtered := make([]paymentdomain.Payment, 0, len(payments))
	for _, p := range payments {
		if p.PaymentDate >= from && p.PaymentDate <= to {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
