package server

import (
	"net/http"
	"strings"

	"github.com/cablepro/cablepro/internal/export"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/cablepro/cablepro/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createPaymentRequest struct {
	CustomerID    string `json:"customer_id"`
	Amount        int64  `json:"amount"`
	PaymentDate   string `json:"payment_date"`
	Method        string `json:"method"`
	BillingPeriod string `json:"billing_period"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

func (r createPaymentRequest) toDomain() paymentdomain.CreatePaymentRequest {
	return paymentdomain.CreatePaymentRequest{
		CustomerID:    r.CustomerID,
		Amount:        r.Amount,
		PaymentDate:   r.PaymentDate,
		Method:        r.Method,
		BillingPeriod: r.BillingPeriod,
		Status:        r.Status,
		Notes:         r.Notes,
	}
}

// CreatePayment records a payment. A billing-cycle guard rejection comes
// back with 200 and allowed=false so the operator form can show the reason
// inline.
func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PreviewPayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Preview(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID    string `form:"customer_id"`
		Status        string `form:"status"`
		BillingPeriod string `form:"billing_period"`
		From          string `form:"from"`
		To            string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		PageToken:     query.PageToken,
		PageSize:      query.PageSize,
		CustomerID:    strings.TrimSpace(query.CustomerID),
		Status:        strings.TrimSpace(query.Status),
		BillingPeriod: strings.TrimSpace(query.BillingPeriod),
		From:          strings.TrimSpace(query.From),
		To:            strings.TrimSpace(query.To),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePaymentStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.UpdateStatus(c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		paymentdomain.Status(strings.TrimSpace(req.Status)),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ExportPaymentsCSV exports every payment with the customer name refreshed
// from the current record, so deleted customers appear redacted.
func (s *Server) ExportPaymentsCSV(c *gin.Context) {
	payments, err := s.paymentSvc.All(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	customers, err := s.customerSvc.All(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	names := make(map[string]string, len(customers))
	for _, customer := range customers {
		names[customer.ID.String()] = customer.Redacted().Name
	}
	for i := range payments {
		if name, ok := names[payments[i].CustomerID.String()]; ok {
			payments[i].CustomerName = name
		}
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="payments.csv"`)
	if err := export.WritePayments(c.Writer, payments); err != nil {
		AbortWithError(c, err)
	}
}
