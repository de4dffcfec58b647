package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cablepro/cablepro/internal/clock"
	"github.com/cablepro/cablepro/internal/config"
	"github.com/cablepro/cablepro/internal/customer/domain"
	"github.com/cablepro/cablepro/internal/customer/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&domain.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Plans: config.NewStaticPlanConfigHolder(config.DefaultPlanConfig()),
		Repo:  repository.Provide(),
	})
	return svc, fake
}

func validCreateRequest() domain.CreateCustomerRequest {
	return domain.CreateCustomerRequest{
		Name:           "Rajesh Kumar",
		Phone:          "+91 98765 43210",
		Address:        "123, Maple Street",
		STBNumber:      "9876543210",
		ConnectionDate: "2023-01-15",
		PackageName:    "Ultra HD Gold Pack",
		MonthlyRate:    450,
		PlanDuration:   1,
	}
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, validCreateRequest())
	assert.NoError(t, err)
	assert.NotZero(t, customer.ID)
	assert.Equal(t, domain.StatusActive, customer.Status)
	assert.Equal(t, 1, customer.PlanDuration)

	got, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: customer.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, "Rajesh Kumar", got.Name)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*domain.CreateCustomerRequest)
		wantErr error
	}{
		{"missing name", func(r *domain.CreateCustomerRequest) { r.Name = "  " }, domain.ErrInvalidName},
		{"short phone", func(r *domain.CreateCustomerRequest) { r.Phone = "12345" }, domain.ErrInvalidPhone},
		{"alpha phone", func(r *domain.CreateCustomerRequest) { r.Phone = "98765abc10" }, domain.ErrInvalidPhone},
		{"double country code", func(r *domain.CreateCustomerRequest) { r.Phone = "+91 +91 98765 43210" }, domain.ErrInvalidPhone},
		{"alpha stb", func(r *domain.CreateCustomerRequest) { r.STBNumber = "stb-001" }, domain.ErrInvalidSTBNumber},
		{"empty stb", func(r *domain.CreateCustomerRequest) { r.STBNumber = "" }, domain.ErrInvalidSTBNumber},
		{"zero rate", func(r *domain.CreateCustomerRequest) { r.MonthlyRate = 0 }, domain.ErrInvalidRate},
		{"negative rate", func(r *domain.CreateCustomerRequest) { r.MonthlyRate = -100 }, domain.ErrInvalidRate},
		{"odd duration", func(r *domain.CreateCustomerRequest) { r.PlanDuration = 5 }, domain.ErrInvalidPlanDuration},
		{"bad status", func(r *domain.CreateCustomerRequest) { r.Status = "Suspended" }, domain.ErrInvalidStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateCustomerPhoneNormalizationAndUniqueness(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateRequest())
	assert.NoError(t, err)

	// Same digits, different formatting. Country code and spacing are
	// stripped before comparing.
	dup := validCreateRequest()
	dup.Phone = "9876543210"
	dup.STBNumber = "1112223334"
	_, err = svc.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)

	dupSTB := validCreateRequest()
	dupSTB.Phone = "+91 91234 56789"
	_, err = svc.Create(ctx, dupSTB)
	assert.ErrorIs(t, err, domain.ErrDuplicateSTBNumber)
}

func TestSoftDeleteFreesPhoneAndRedacts(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest())
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, created.ID.String()))

	// The record survives with a placeholder name at the read boundary.
	got, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: created.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, domain.DeletedPlaceholder, got.Name)
	assert.True(t, got.IsDeleted)

	// A deleted customer's phone is free for reuse.
	again := validCreateRequest()
	again.Name = "New Subscriber"
	_, err = svc.Create(ctx, again)
	assert.NoError(t, err)

	// Deleting twice is a no-op, editing is not allowed.
	assert.NoError(t, svc.Delete(ctx, created.ID.String()))
	name := "Changed"
	_, err = svc.Update(ctx, domain.UpdateCustomerRequest{ID: created.ID.String(), Name: &name})
	assert.ErrorIs(t, err, domain.ErrDeleted)
}

func TestUpdateCustomerPartial(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest())
	assert.NoError(t, err)

	rate := int64(500)
	pkg := "Premium Pack"
	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:          created.ID.String(),
		MonthlyRate: &rate,
		PackageName: &pkg,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(500), updated.MonthlyRate)
	assert.Equal(t, "Premium Pack", updated.PackageName)
	// Untouched fields carry over.
	assert.Equal(t, created.Phone, updated.Phone)
}

func TestSetStatus(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest())
	assert.NoError(t, err)

	updated, err := svc.SetStatus(ctx, created.ID.String(), domain.StatusDeactive)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDeactive, updated.Status)

	_, err = svc.SetStatus(ctx, created.ID.String(), domain.Status("Suspended"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestImportSkipsDuplicateIDs(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest())
	assert.NoError(t, err)

	rows := []domain.Customer{
		// Existing id, skipped.
		{ID: created.ID, Name: "Rajesh Kumar", Phone: "9876543210", STBNumber: "9876543210", MonthlyRate: 450},
		// No id, gets a fresh one.
		{Name: "Priya Sharma", Phone: "9876543211", STBNumber: "8765432109", MonthlyRate: 300},
	}

	result, err := svc.Import(ctx, rows)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	all, err := svc.All(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListFiltersAndPagination(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	seedReqs := []struct {
		name, phone, stb string
		status           string
	}{
		{"Rajesh Kumar", "9876543210", "1000000001", "Active"},
		{"Priya Sharma", "9876543211", "1000000002", "Active"},
		{"Amit Patel", "9876543212", "1000000003", "Deactive"},
	}
	var last domain.Customer
	for _, s := range seedReqs {
		req := validCreateRequest()
		req.Name = s.name
		req.Phone = s.phone
		req.STBNumber = s.stb
		req.Status = s.status
		created, err := svc.Create(ctx, req)
		assert.NoError(t, err)
		last = created
	}

	active, err := svc.List(ctx, domain.ListCustomerRequest{Status: "Active"})
	assert.NoError(t, err)
	assert.Len(t, active.Customers, 2)

	found, err := svc.List(ctx, domain.ListCustomerRequest{Search: "priya"})
	assert.NoError(t, err)
	if assert.Len(t, found.Customers, 1) {
		assert.Equal(t, "Priya Sharma", found.Customers[0].Name)
	}

	first, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2})
	assert.NoError(t, err)
	assert.Len(t, first.Customers, 2)
	assert.True(t, first.HasMore)

	second, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2, PageToken: first.NextPageToken})
	assert.NoError(t, err)
	assert.Len(t, second.Customers, 1)
	assert.False(t, second.HasMore)

	// Soft-deleted customers drop out of every list.
	assert.NoError(t, svc.Delete(ctx, last.ID.String()))
	remaining, err := svc.List(ctx, domain.ListCustomerRequest{})
	assert.NoError(t, err)
	assert.Len(t, remaining.Customers, 2)
}

func TestGetByIDErrors(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: "not-a-snowflake"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: "123456789"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
