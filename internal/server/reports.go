package server

import (
	"io"
	"net/http"
	"strings"

	reportingdomain "github.com/cablepro/cablepro/internal/reporting/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) collectionsRequest(c *gin.Context) reportingdomain.CollectionsRequest {
	return reportingdomain.CollectionsRequest{
		Period: strings.TrimSpace(c.Query("period")),
		From:   strings.TrimSpace(c.Query("from")),
		To:     strings.TrimSpace(c.Query("to")),
	}
}

func (s *Server) GetCollectionsReport(c *gin.Context) {
	resp, err := s.reportingSvc.Collections(c.Request.Context(), s.collectionsRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCollectionsReportPDF(c *gin.Context) {
	report, err := s.reportingSvc.Collections(c.Request.Context(), s.collectionsRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdfProvider.GenerateCollectionsReport(c.Request.Context(), report, s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="collections-report.pdf"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}
