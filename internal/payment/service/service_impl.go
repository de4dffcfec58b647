package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cablepro/cablepro/internal/billing"
	"github.com/cablepro/cablepro/internal/clock"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	"github.com/cablepro/cablepro/internal/observability/metrics"
	"github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/cablepro/cablepro/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Repo      domain.Repository
	Customers customerdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	metrics   *metrics.Metrics
	repo      domain.Repository
	customers customerdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("payment.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		metrics:   p.Metrics,
		repo:      p.Repo,
		customers: p.Customers,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.CreateResult, error) {
	customer, payment, err := s.prepare(ctx, req)
	if err != nil {
		return domain.CreateResult{}, err
	}

	decision, err := s.decide(ctx, *customer, payment.Amount, payment.BillingPeriod)
	if err != nil {
		return domain.CreateResult{}, err
	}
	s.metrics.ObserveGuardDecision(decision.Allowed, decision.Reason)
	if !decision.Allowed {
		s.log.Info("payment rejected by billing-cycle guard",
			zap.String("customer_id", customer.ID.String()),
			zap.String("reason", decision.Reason),
		)
		return result(nil, decision), nil
	}

	if err := s.repo.Insert(ctx, s.db, payment); err != nil {
		return domain.CreateResult{}, err
	}
	s.metrics.ObservePaymentCreated(string(payment.Method))

	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.Int64("amount", payment.Amount),
		zap.String("billing_period", payment.BillingPeriod),
	)
	return result(payment, decision), nil
}

func (s *Service) Preview(ctx context.Context, req domain.CreatePaymentRequest) (domain.CreateResult, error) {
	customer, payment, err := s.prepare(ctx, req)
	if err != nil {
		return domain.CreateResult{}, err
	}
	decision, err := s.decide(ctx, *customer, payment.Amount, payment.BillingPeriod)
	if err != nil {
		return domain.CreateResult{}, err
	}
	return result(nil, decision), nil
}

// prepare validates the request and builds the candidate payment. The guard
// decides on amount and timing afterwards, so only shape is checked here.
func (s *Service) prepare(ctx context.Context, req domain.CreatePaymentRequest) (*customerdomain.Customer, *domain.Payment, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return nil, nil, domain.ErrInvalidCustomer
	}
	customer, err := s.customers.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil || customer.IsDeleted {
		return nil, nil, domain.ErrCustomerNotFound
	}

	now := s.clock.Now()

	date := strings.TrimSpace(req.PaymentDate)
	if date == "" {
		date = now.Format(billing.DateLayout)
	} else if _, err := billing.ParseDate(date); err != nil {
		return nil, nil, domain.ErrInvalidDate
	}

	method := domain.Method(strings.TrimSpace(req.Method))
	if !domain.ValidMethod(method) {
		return nil, nil, domain.ErrInvalidMethod
	}

	period := strings.TrimSpace(req.BillingPeriod)
	if period == "" {
		period = now.Format(billing.PeriodLayout)
	} else if _, err := billing.ParsePeriod(period); err != nil {
		return nil, nil, domain.ErrInvalidPeriod
	}

	status := domain.StatusConfirmed
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.Status(raw)
		if !domain.ValidStatus(status) {
			return nil, nil, domain.ErrInvalidStatus
		}
	}

	payment := &domain.Payment{
		ID:            s.genID.Generate(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Amount:        req.Amount,
		PaymentDate:   date,
		Method:        method,
		BillingPeriod: period,
		Status:        status,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
	}
	return customer, payment, nil
}

func (s *Service) decide(ctx context.Context, customer customerdomain.Customer, amount int64, period string) (billing.Decision, error) {
	history, err := s.repo.ForCustomer(ctx, s.db, customer.ID)
	if err != nil {
		return billing.Decision{}, err
	}
	return billing.CanRecordPayment(customer, history, amount, period, s.clock.Now()), nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	filter := domain.ListPaymentFilter{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		BillingPeriod: strings.TrimSpace(req.BillingPeriod),
		From:          strings.TrimSpace(req.From),
		To:            strings.TrimSpace(req.To),
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.Status(raw)
		if !domain.ValidStatus(status) {
			return domain.ListPaymentResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(payment *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        payment.ID.String(),
			CreatedAt: payment.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	resp := domain.ListPaymentResponse{Payments: payments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	payment, err := s.find(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	return *payment, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, to domain.Status) (domain.Payment, error) {
	if !domain.ValidStatus(to) {
		return domain.Payment{}, domain.ErrInvalidStatus
	}

	payment, err := s.find(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	// Setting the status a payment already has is a no-op, not a transition.
	if payment.Status == to {
		return *payment, nil
	}
	if !domain.CanTransition(payment.Status, to) {
		return domain.Payment{}, domain.ErrIllegalTransition
	}

	from := payment.Status
	payment.Status = to
	if err := s.repo.Save(ctx, s.db, payment); err != nil {
		return domain.Payment{}, err
	}

	s.log.Info("payment status changed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return *payment, nil
}

func (s *Service) ForCustomer(ctx context.Context, customerID string) ([]domain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidCustomer
	}
	return s.repo.ForCustomer(ctx, s.db, id)
}

func (s *Service) All(ctx context.Context) ([]domain.Payment, error) {
	return s.repo.All(ctx, s.db)
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	return payment, nil
}

func result(payment *domain.Payment, decision billing.Decision) domain.CreateResult {
	return domain.CreateResult{
		Payment:     payment,
		Allowed:     decision.Allowed,
		Reason:      decision.Reason,
		CycleEndsAt: decision.CycleEndsAt,
	}
}
