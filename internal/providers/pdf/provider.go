package pdf

import (
	"context"
	"io"
	"time"

	reportingdomain "github.com/cablepro/cablepro/internal/reporting/domain"
	"go.uber.org/fx"
)

type Provider interface {
	GenerateCollectionsReport(ctx context.Context, report reportingdomain.CollectionsReport, generatedAt time.Time) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
