package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cablepro/cablepro/internal/clock"
	"github.com/cablepro/cablepro/internal/config"
	"github.com/cablepro/cablepro/internal/customer/domain"
	"github.com/cablepro/cablepro/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	tenDigits   = regexp.MustCompile(`^\d{10}$`)
	numericOnly = regexp.MustCompile(`^\d+$`)
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Plans *config.PlanConfigHolder
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	plans *config.PlanConfigHolder
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		plans: p.Plans,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	status := domain.StatusActive
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := parseStatus(req.Status)
		if err != nil {
			return domain.Customer{}, err
		}
		status = parsed
	}

	duration := req.PlanDuration
	if duration == 0 {
		duration = 1
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:             s.genID.Generate(),
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		STBNumber:      strings.TrimSpace(req.STBNumber),
		ConnectionDate: strings.TrimSpace(req.ConnectionDate),
		PackageName:    strings.TrimSpace(req.PackageName),
		MonthlyRate:    req.MonthlyRate,
		PlanDuration:   duration,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if customer.ConnectionDate == "" {
		customer.ConnectionDate = now.Format("2006-01-02")
	}

	if err := s.validate(ctx, customer, 0); err != nil {
		return domain.Customer{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("package", customer.PackageName),
	)
	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{Search: strings.TrimSpace(req.Search)}
	if strings.TrimSpace(req.Status) != "" {
		status, err := parseStatus(req.Status)
		if err != nil {
			return domain.ListCustomerResponse{}, err
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
		return domain.ListCustomerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        customer.ID.String(),
			CreatedAt: customer.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, item.Redacted())
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	return customer.Redacted(), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer.IsDeleted {
		return domain.Customer{}, domain.ErrDeleted
	}

	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.STBNumber != nil {
		customer.STBNumber = strings.TrimSpace(*req.STBNumber)
	}
	if req.ConnectionDate != nil {
		customer.ConnectionDate = strings.TrimSpace(*req.ConnectionDate)
	}
	if req.PackageName != nil {
		customer.PackageName = strings.TrimSpace(*req.PackageName)
	}
	if req.MonthlyRate != nil {
		customer.MonthlyRate = *req.MonthlyRate
	}
	if req.PlanDuration != nil {
		customer.PlanDuration = *req.PlanDuration
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.Status = status
	}

	if err := s.validate(ctx, *customer, customer.ID); err != nil {
		return domain.Customer{}, err
	}

	customer.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Customer, error) {
	if status != domain.StatusActive && status != domain.StatusDeactive {
		return domain.Customer{}, domain.ErrInvalidStatus
	}

	customer, err := s.find(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer.IsDeleted {
		return domain.Customer{}, domain.ErrDeleted
	}

	customer.Status = status
	customer.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

// Delete soft-deletes: the row keeps its fields (payment history references
// stay valid) and PII is scrubbed only when the record is rendered.
func (s *Service) Delete(ctx context.Context, id string) error {
	customer, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if customer.IsDeleted {
		return nil
	}

	now := s.clock.Now()
	customer.IsDeleted = true
	customer.DeletedAt = &now
	customer.UpdatedAt = now
	if err := s.repo.Save(ctx, s.db, customer); err != nil {
		return err
	}

	s.log.Info("customer soft-deleted", zap.String("customer_id", customer.ID.String()))
	return nil
}

func (s *Service) All(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.All(ctx, s.db)
}

// Import adds customers from a parsed CSV. Rows with ids already present are
// skipped; rows without a usable id get a fresh one.
func (s *Service) Import(ctx context.Context, customers []domain.Customer) (domain.ImportResult, error) {
	existing, err := s.repo.All(ctx, s.db)
	if err != nil {
		return domain.ImportResult{}, err
	}
	seen := make(map[snowflake.ID]struct{}, len(existing))
	for _, c := range existing {
		seen[c.ID] = struct{}{}
	}

	var result domain.ImportResult
	now := s.clock.Now()
	for _, customer := range customers {
		if customer.ID == 0 {
			customer.ID = s.genID.Generate()
		}
		if _, dup := seen[customer.ID]; dup {
			result.Skipped++
			continue
		}
		if customer.PlanDuration == 0 {
			customer.PlanDuration = 1
		}
		if customer.Status == "" {
			customer.Status = domain.StatusActive
		}
		customer.CreatedAt = now
		customer.UpdatedAt = now
		if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
			return result, err
		}
		seen[customer.ID] = struct{}{}
		result.Imported++
	}

	s.log.Info("customers imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Customer, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (s *Service) validate(ctx context.Context, customer domain.Customer, excludeID snowflake.ID) error {
	if customer.Name == "" {
		return domain.ErrInvalidName
	}

	phone := domain.NormalizePhone(customer.Phone)
	if !tenDigits.MatchString(phone) {
		return domain.ErrInvalidPhone
	}

	if customer.STBNumber == "" || !numericOnly.MatchString(customer.STBNumber) {
		return domain.ErrInvalidSTBNumber
	}

	if customer.MonthlyRate <= 0 {
		return domain.ErrInvalidRate
	}

	if !s.plans.ValidDuration(customer.PlanDuration) {
		return domain.ErrInvalidPlanDuration
	}

	// Uniqueness needs phone normalization, so it is checked here rather
	// than with a database constraint.
	all, err := s.repo.All(ctx, s.db)
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.ID == excludeID || other.IsDeleted {
			continue
		}
		if domain.NormalizePhone(other.Phone) == phone {
			return domain.ErrDuplicatePhone
		}
		if other.STBNumber == customer.STBNumber {
			return domain.ErrDuplicateSTBNumber
		}
	}
	return nil
}

func parseStatus(value string) (domain.Status, error) {
	switch domain.Status(strings.TrimSpace(value)) {
	case domain.StatusActive:
		return domain.StatusActive, nil
	case domain.StatusDeactive:
		return domain.StatusDeactive, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
