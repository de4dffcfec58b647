package domain

// Overview is the dashboard payload. Every figure is recomputed from the
// current customer and payment lists on each read.
type Overview struct {
	TotalCustomers   int            `json:"total_customers"`
	ActiveCustomers  int            `json:"active_customers"`
	TotalOutstanding int64          `json:"total_outstanding"`
	PaidThisMonth    int            `json:"paid_this_month"`
	CollectionToday  int64          `json:"collection_today"`
	CollectionWeek   int64          `json:"collection_week"`
	CollectionMonth  int64          `json:"collection_month"`
	WeeklySeries     []SeriesPoint  `json:"weekly_series"`
	MethodSplit      []MethodShare  `json:"method_split"`
	RecentActivity   []ActivityItem `json:"recent_activity"`
}

// SeriesPoint is one bar of the weekly collections chart, keyed by weekday
// name rather than date.
type SeriesPoint struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

type MethodShare struct {
	Method string `json:"method"`
	Total  int64  `json:"total"`
	Count  int    `json:"count"`
	// Share is the method's percentage of the confirmed total, 0-100.
	Share float64 `json:"share"`
}

type DailyBucket struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
	Count int    `json:"count"`
}

// ActivityItem is one row of the dashboard's recent payments feed.
type ActivityItem struct {
	PaymentID     string `json:"payment_id"`
	CustomerName  string `json:"customer_name"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	PaymentDate   string `json:"payment_date"`
	BillingPeriod string `json:"billing_period"`
	Status        string `json:"status"`
}

type CollectionsRequest struct {
	// Period is today, week, month, or custom.
	Period string
	From   string
	To     string
}

type CollectionsReport struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	Total    int64         `json:"total"`
	Count    int           `json:"count"`
	ByMethod []MethodShare `json:"by_method"`
	Daily    []DailyBucket `json:"daily"`
}
