package server

import (
	"net/http"
	"strings"

	"github.com/cablepro/cablepro/internal/billing"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	"github.com/cablepro/cablepro/internal/export"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/cablepro/cablepro/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createCustomerRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	STBNumber      string `json:"stb_number"`
	ConnectionDate string `json:"connection_date"`
	PackageName    string `json:"package"`
	MonthlyRate    int64  `json:"monthly_rate"`
	PlanDuration   int    `json:"plan_duration"`
	Status         string `json:"status"`
}

type updateCustomerRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	STBNumber      *string `json:"stb_number"`
	ConnectionDate *string `json:"connection_date"`
	PackageName    *string `json:"package"`
	MonthlyRate    *int64  `json:"monthly_rate"`
	PlanDuration   *int    `json:"plan_duration"`
	Status         *string `json:"status"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		STBNumber:      req.STBNumber,
		ConnectionDate: req.ConnectionDate,
		PackageName:    req.PackageName,
		MonthlyRate:    req.MonthlyRate,
		PlanDuration:   req.PlanDuration,
		Status:         req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status  string `form:"status"`
		Search  string `form:"search"`
		Billing string `form:"billing"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	billingFilter := strings.TrimSpace(query.Billing)
	switch billingFilter {
	case "", "overdue", "paid":
	default:
		AbortWithError(c, newValidationError("billing", "invalid_filter", "billing must be overdue or paid"))
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Status:    strings.TrimSpace(query.Status),
		Search:    strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if billingFilter != "" {
		filtered, ferr := s.filterByCoverage(c, resp.Customers, billingFilter == "paid")
		if ferr != nil {
			AbortWithError(c, ferr)
			return
		}
		resp.Customers = filtered
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// filterByCoverage narrows a page of customers down to those whose derived
// billing position matches. A filtered page may come back shorter than the
// requested page size; the cursor still advances over the unfiltered rows.
func (s *Server) filterByCoverage(c *gin.Context, customers []customerdomain.Customer, wantCovered bool) ([]customerdomain.Customer, error) {
	payments, err := s.paymentSvc.All(c.Request.Context())
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[string][]paymentdomain.Payment)
	for _, p := range payments {
		key := p.CustomerID.String()
		byCustomer[key] = append(byCustomer[key], p)
	}

	now := s.clock.Now()
	filtered := make([]customerdomain.Customer, 0, len(customers))
	for _, cust := range customers {
		coverage := billing.Evaluate(cust, byCustomer[cust.ID.String()], now)
		if coverage.Covered == wantCovered {
			filtered = append(filtered, cust)
		}
	}
	return filtered, nil
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		STBNumber:      req.STBNumber,
		ConnectionDate: req.ConnectionDate,
		PackageName:    req.PackageName,
		MonthlyRate:    req.MonthlyRate,
		PlanDuration:   req.PlanDuration,
		Status:         req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetCustomerStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.SetStatus(c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		customerdomain.Status(strings.TrimSpace(req.Status)),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// GetCustomerCoverage recomputes the customer's billing position on every
// call. Coverage is never stored.
func (s *Server) GetCustomerCoverage(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	customer, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payments, err := s.paymentSvc.ForCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	coverage := billing.Evaluate(customer, payments, s.clock.Now())
	c.JSON(http.StatusOK, gin.H{"data": coverage})
}

func (s *Server) ListCustomerPayments(c *gin.Context) {
	payments, err := s.paymentSvc.ForCustomer(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"payments": payments}})
}

func (s *Server) ExportCustomersCSV(c *gin.Context) {
	customers, err := s.customerSvc.All(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="customers.csv"`)
	if err := export.WriteCustomers(c.Writer, customers); err != nil {
		AbortWithError(c, err)
	}
}

func (s *Server) ImportCustomersCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_file", "csv file required"))
		return
	}
	defer file.Close()

	customers, err := export.ParseCustomers(file)
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_csv", err.Error()))
		return
	}

	result, err := s.customerSvc.Import(c.Request.Context(), customers)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
