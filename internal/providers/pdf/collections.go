package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	reportingdomain "github.com/cablepro/cablepro/internal/reporting/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateCollectionsReport(ctx context.Context, report reportingdomain.CollectionsReport, generatedAt time.Time) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, "Collections Report", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Period: "+report.From+" to "+report.To, props.Text{Top: 0}),
			text.New("Generated: "+generatedAt.Format("02 Jan 2006 15:04"), props.Text{Top: 4}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Total collected: %d", report.Total), props.Text{Style: fontstyle.Bold}),
			text.New(fmt.Sprintf("Payments: %d", report.Count), props.Text{Top: 4}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "By payment method", props.Text{Style: fontstyle.Bold, Size: 11}),
	)
	m.AddRow(8,
		text.NewCol(4, "Method", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Payments", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Share", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, share := range report.ByMethod {
		m.AddRow(8,
			text.NewCol(4, share.Method, props.Text{Size: 9}),
			text.NewCol(3, fmt.Sprintf("%d", share.Count), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, fmt.Sprintf("%d", share.Total), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.1f%%", share.Share), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, "Daily breakdown", props.Text{Style: fontstyle.Bold, Size: 11, Top: 4}),
	)
	m.AddRow(8,
		text.NewCol(6, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Payments", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, bucket := range report.Daily {
		m.AddRow(8,
			text.NewCol(6, bucket.Date, props.Text{Size: 9}),
			text.NewCol(3, fmt.Sprintf("%d", bucket.Count), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, fmt.Sprintf("%d", bucket.Total), props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
