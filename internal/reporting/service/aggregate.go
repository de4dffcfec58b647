package service

import (
	"sort"
	"time"

	"github.com/cablepro/cablepro/internal/billing"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/cablepro/cablepro/internal/reporting/domain"
)

// The roll-ups below are pure functions over one snapshot of the customer
// and payment lists. They never touch storage.

// TotalOutstanding sums the monthly rate of every Active, non-deleted
// customer the coverage calculation reports as uncovered.
func TotalOutstanding(customers []customerdomain.Customer, payments []paymentdomain.Payment, now time.Time) int64 {
	var total int64
	for _, customer := range customers {
		if customer.IsDeleted || customer.Status != customerdomain.StatusActive {
			continue
		}
		if cov := billing.Evaluate(customer, payments, now); !cov.Covered {
			total += cov.Outstanding
		}
	}
	return total
}

// PaidThisMonth counts distinct non-deleted customers with a confirmed
// payment dated inside the current calendar month.
func PaidThisMonth(customers []customerdomain.Customer, payments []paymentdomain.Payment, now time.Time) int {
	deleted := make(map[string]bool, len(customers))
	known := make(map[string]bool, len(customers))
	for _, customer := range customers {
		known[customer.ID.String()] = true
		if customer.IsDeleted {
			deleted[customer.ID.String()] = true
		}
	}

	prefix := now.Format("2006-01")
	paid := make(map[string]bool)
	for _, p := range payments {
		if p.Status != paymentdomain.StatusConfirmed {
			continue
		}
		if len(p.PaymentDate) < len(prefix) || p.PaymentDate[:len(prefix)] != prefix {
			continue
		}
		id := p.CustomerID.String()
		if !known[id] || deleted[id] {
			continue
		}
		paid[id] = true
	}
	return len(paid)
}

// CollectionTotals returns confirmed collection sums for today, the trailing
// seven days, and the current calendar month. The week window has a floor
// only; a confirmed payment dated ahead of now still counts, the same way it
// counts toward its month.
func CollectionTotals(payments []paymentdomain.Payment, now time.Time) (today, week, month int64) {
	todayStr := now.Format(billing.DateLayout)
	weekFloor := now.AddDate(0, 0, -7).Format(billing.DateLayout)
	monthPrefix := now.Format("2006-01")

	for _, p := range payments {
		if p.Status != paymentdomain.StatusConfirmed {
			continue
		}
		if p.PaymentDate == todayStr {
			today += p.Amount
		}
		if p.PaymentDate >= weekFloor {
			week += p.Amount
		}
		if len(p.PaymentDate) >= len(monthPrefix) && p.PaymentDate[:len(monthPrefix)] == monthPrefix {
			month += p.Amount
		}
	}
	return today, week, month
}

// WeeklySeries sums confirmed payments for each of the last `days` calendar
// days, bucketed by weekday name. When the window covers more than seven
// days, dates sharing a weekday merge into one bucket. That is the shipped
// chart behavior, kept as is.
func WeeklySeries(payments []paymentdomain.Payment, now time.Time, days int) []domain.SeriesPoint {
	byDate := make(map[string]int64)
	for _, p := range payments {
		if p.Status == paymentdomain.StatusConfirmed {
			byDate[p.PaymentDate] += p.Amount
		}
	}

	bucket := make(map[string]int)
	points := make([]domain.SeriesPoint, 0, 7)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		name := day.Weekday().String()
		total := byDate[day.Format(billing.DateLayout)]
		if idx, seen := bucket[name]; seen {
			points[idx].Total += total
			continue
		}
		bucket[name] = len(points)
		points = append(points, domain.SeriesPoint{Day: name, Total: total})
	}
	return points
}

// MethodBreakdown splits confirmed payments by payment method, largest
// total first, with each method's percentage share of the confirmed total.
func MethodBreakdown(payments []paymentdomain.Payment) []domain.MethodShare {
	totals := make(map[string]*domain.MethodShare)
	var grand int64
	for _, p := range payments {
		if p.Status != paymentdomain.StatusConfirmed {
			continue
		}
		share, ok := totals[string(p.Method)]
		if !ok {
			share = &domain.MethodShare{Method: string(p.Method)}
			totals[string(p.Method)] = share
		}
		share.Total += p.Amount
		share.Count++
		grand += p.Amount
	}

	shares := make([]domain.MethodShare, 0, len(totals))
	for _, share := range totals {
		if grand > 0 {
			share.Share = float64(share.Total) / float64(grand) * 100
		}
		shares = append(shares, *share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Total != shares[j].Total {
			return shares[i].Total > shares[j].Total
		}
		return shares[i].Method < shares[j].Method
	})
	return shares
}

// DailyBreakdown groups confirmed payments inside [from, to] by date,
// oldest first.
func DailyBreakdown(payments []paymentdomain.Payment, from, to string) []domain.DailyBucket {
	totals := make(map[string]*domain.DailyBucket)
	for _, p := range payments {
		if p.Status != paymentdomain.StatusConfirmed {
			continue
		}
		if p.PaymentDate < from || p.PaymentDate > to {
			continue
		}
		bucket, ok := totals[p.PaymentDate]
		if !ok {
			bucket = &domain.DailyBucket{Date: p.PaymentDate}
			totals[p.PaymentDate] = bucket
		}
		bucket.Total += p.Amount
		bucket.Count++
	}

	buckets := make([]domain.DailyBucket, 0, len(totals))
	for _, bucket := range totals {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}

// RecentActivity lists the newest payments with the customer name taken
// from the current customer record, so deleted customers show the redaction
// placeholder instead of their stored snapshot name.
func RecentActivity(customers []customerdomain.Customer, payments []paymentdomain.Payment, limit int) []domain.ActivityItem {
	names := make(map[string]string, len(customers))
	for _, customer := range customers {
		names[customer.ID.String()] = customer.Redacted().Name
	}

	sorted := make([]paymentdomain.Payment, len(payments))
	copy(sorted, payments)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	if limit <= 0 {
		limit = 10
	}
	items := make([]domain.ActivityItem, 0, limit)
	for _, p := range sorted {
		if len(items) == limit {
			break
		}
		name, ok := names[p.CustomerID.String()]
		if !ok {
			name = p.CustomerName
		}
		items = append(items, domain.ActivityItem{
			PaymentID:     p.ID.String(),
			CustomerName:  name,
			Amount:        p.Amount,
			Method:        string(p.Method),
			PaymentDate:   p.PaymentDate,
			BillingPeriod: p.BillingPeriod,
			Status:        string(p.Status),
		})
	}
	return items
}
