package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/stretchr/testify/assert"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	assert.NoError(t, err)
	return d
}

func TestTotalOutstandingScenario(t *testing.T) {
	now := day(t, "2026-03-10")
	customers := []customerdomain.Customer{
		// Covered: paid five days ago on a 1-month plan.
		{ID: 1, MonthlyRate: 300, PlanDuration: 1, Status: customerdomain.StatusActive},
		// Uncovered: no payments at all.
		{ID: 2, MonthlyRate: 500, PlanDuration: 1, Status: customerdomain.StatusActive},
		// Deactive: owes nothing by rule.
		{ID: 3, MonthlyRate: 450, PlanDuration: 1, Status: customerdomain.StatusDeactive},
	}
	payments := []paymentdomain.Payment{
		{CustomerID: 1, Amount: 300, PaymentDate: "2026-03-05", Status: paymentdomain.StatusConfirmed},
	}

	assert.Equal(t, int64(500), TotalOutstanding(customers, payments, now))
}

func TestTotalOutstandingSkipsDeleted(t *testing.T) {
	now := day(t, "2026-03-10")
	customers := []customerdomain.Customer{
		{ID: 1, MonthlyRate: 500, PlanDuration: 1, Status: customerdomain.StatusActive, IsDeleted: true},
	}

	assert.Zero(t, TotalOutstanding(customers, nil, now))
}

func TestPaidThisMonthDistinctCustomers(t *testing.T) {
	now := day(t, "2026-03-10")
	customers := []customerdomain.Customer{
		{ID: 1, Status: customerdomain.StatusActive},
		{ID: 2, Status: customerdomain.StatusActive},
		{ID: 3, Status: customerdomain.StatusActive, IsDeleted: true},
	}
	payments := []paymentdomain.Payment{
		// Two payments this month from the same customer count once.
		{CustomerID: 1, PaymentDate: "2026-03-01", Status: paymentdomain.StatusConfirmed},
		{CustomerID: 1, PaymentDate: "2026-03-08", Status: paymentdomain.StatusConfirmed},
		// Wrong month, pending, and deleted-customer payments do not count.
		{CustomerID: 2, PaymentDate: "2026-02-28", Status: paymentdomain.StatusConfirmed},
		{CustomerID: 2, PaymentDate: "2026-03-05", Status: paymentdomain.StatusPending},
		{CustomerID: 3, PaymentDate: "2026-03-05", Status: paymentdomain.StatusConfirmed},
	}

	assert.Equal(t, 1, PaidThisMonth(customers, payments, now))
}

func TestCollectionTotals(t *testing.T) {
	now := day(t, "2026-03-10")
	payments := []paymentdomain.Payment{
		{CustomerID: 1, Amount: 100, PaymentDate: "2026-03-10", Status: paymentdomain.StatusConfirmed},
		{CustomerID: 1, Amount: 200, PaymentDate: "2026-03-05", Status: paymentdomain.StatusConfirmed},
		{CustomerID: 1, Amount: 400, PaymentDate: "2026-02-20", Status: paymentdomain.StatusConfirmed},
		{CustomerID: 1, Amount: 800, PaymentDate: "2026-03-10", Status: paymentdomain.StatusCancelled},
	}

	today, week, month := CollectionTotals(payments, now)

	assert.Equal(t, int64(100), today)
	assert.Equal(t, int64(300), week)
	assert.Equal(t, int64(300), month)
}

func TestCollectionTotalsWeekHasNoUpperBound(t *testing.T) {
	now := day(t, "2026-03-10")
	payments := []paymentdomain.Payment{
		// Dated ahead of now. The week window only has a floor, so this
		// counts toward the week the same way it counts toward the month.
		{CustomerID: 1, Amount: 100, PaymentDate: "2026-03-12", Status: paymentdomain.StatusConfirmed},
	}

	today, week, month := CollectionTotals(payments, now)

	assert.Equal(t, int64(0), today)
	assert.Equal(t, int64(100), week)
	assert.Equal(t, int64(100), month)
}

func TestWeeklySeriesSevenDays(t *testing.T) {
	// 2026-03-10 is a Tuesday; the window runs Wed through Tue.
	now := day(t, "2026-03-10")
	payments := []paymentdomain.Payment{
		{CustomerID: 1, Amount: 150, PaymentDate: "2026-03-10", Status: paymentdomain.StatusConfirmed},
		{CustomerID: 1, Amount: 250, PaymentDate: "2026-03-07", Status: paymentdomain.StatusConfirmed},
	}

	points := WeeklySeries(payments, now, 7)

	assert.Len(t, points, 7)
	assert.Equal(t, "Wednesday", points[0].Day)
	assert.Equal(t, "Tuesday", points[6].Day)
	assert.Equal(t, int64(150), points[6].Total)

	bySaturday := map[string]int64{}
	for _, p := range points {
		bySaturday[p.Day] = p.Total
	}
	assert.Equal(t, int64(250), bySaturday["Saturday"])
}

// A window longer than seven days merges dates that share a weekday name
// into one bar. Known chart limitation, asserted here so nobody fixes it
// by accident.
func TestWeeklySeriesWeekdayNameCollision(t *testing.T) {
	now := day(t, "2026-03-10")
	payments := []paymentdomain.Payment{
		// Both Tuesdays: 2026-03-03 and 2026-03-10.
		{CustomerID: 1, Amount: 100, PaymentDate: "2026-03-03", Status: paymentdomain.StatusConfirmed},
		{CustomerID: 1, Amount: 150, PaymentDate: "2026-03-10", Status: paymentdomain.StatusConfirmed},
	}

	points := WeeklySeries(payments, now, 8)

	assert.Len(t, points, 7)
	assert.Equal(t, "Tuesday", points[0].Day)
	assert.Equal(t, int64(250), points[0].Total)
}

func TestMethodBreakdown(t *testing.T) {
	payments := []paymentdomain.Payment{
		{Amount: 450, Method: paymentdomain.MethodCash, Status: paymentdomain.StatusConfirmed},
		{Amount: 300, Method: paymentdomain.MethodUPI, Status: paymentdomain.StatusConfirmed},
		{Amount: 500, Method: paymentdomain.MethodUPI, Status: paymentdomain.StatusConfirmed},
		{Amount: 900, Method: paymentdomain.MethodCash, Status: paymentdomain.StatusPending},
	}

	shares := MethodBreakdown(payments)

	assert.Len(t, shares, 2)
	assert.Equal(t, "UPI", shares[0].Method)
	assert.Equal(t, int64(800), shares[0].Total)
	assert.Equal(t, 2, shares[0].Count)
	assert.Equal(t, "Cash", shares[1].Method)
	assert.Equal(t, int64(450), shares[1].Total)
	assert.Equal(t, 1, shares[1].Count)

	// Shares are percentages of the confirmed total (1250).
	assert.InDelta(t, 64.0, shares[0].Share, 0.01)
	assert.InDelta(t, 36.0, shares[1].Share, 0.01)
}

func TestDailyBreakdown(t *testing.T) {
	payments := []paymentdomain.Payment{
		{Amount: 100, PaymentDate: "2026-03-02", Status: paymentdomain.StatusConfirmed},
		{Amount: 200, PaymentDate: "2026-03-02", Status: paymentdomain.StatusConfirmed},
		{Amount: 300, PaymentDate: "2026-03-05", Status: paymentdomain.StatusConfirmed},
		{Amount: 900, PaymentDate: "2026-02-28", Status: paymentdomain.StatusConfirmed},
	}

	buckets := DailyBreakdown(payments, "2026-03-01", "2026-03-31")

	assert.Len(t, buckets, 2)
	assert.Equal(t, "2026-03-02", buckets[0].Date)
	assert.Equal(t, int64(300), buckets[0].Total)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, "2026-03-05", buckets[1].Date)
}

func TestRecentActivityRedactsDeleted(t *testing.T) {
	base := day(t, "2026-03-01")
	customers := []customerdomain.Customer{
		{ID: 1, Name: "Ramesh Kumar"},
		{ID: 2, Name: "Gone Subscriber", IsDeleted: true},
	}
	payments := []paymentdomain.Payment{
		{ID: snowflake.ID(11), CustomerID: 1, CustomerName: "Ramesh Kumar", Amount: 450, CreatedAt: base},
		{ID: snowflake.ID(12), CustomerID: 2, CustomerName: "Gone Subscriber", Amount: 300, CreatedAt: base.Add(time.Hour)},
	}

	items := RecentActivity(customers, payments, 10)

	assert.Len(t, items, 2)
	assert.Equal(t, customerdomain.DeletedPlaceholder, items[0].CustomerName)
	assert.Equal(t, "Ramesh Kumar", items[1].CustomerName)
}
