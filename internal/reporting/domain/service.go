package domain

import (
	"context"
	"errors"
)

type Service interface {
	Dashboard(ctx context.Context) (Overview, error)
	Collections(ctx context.Context, req CollectionsRequest) (CollectionsReport, error)
}

var (
	ErrInvalidPeriod = errors.New("invalid_report_period")
	ErrInvalidRange  = errors.New("invalid_report_range")
)
