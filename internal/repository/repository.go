// Package repository defines the persistence contract for runs and results.
package repository

import (
	"context"

	"flume/internal/domain"
)

// Repository persists runs and the solver results queried for them
type Repository interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	UpdateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	ListRuns(ctx context.Context) ([]*domain.Run, error)
	DeleteRun(ctx context.Context, id string) error

	SaveResults(ctx context.Context, runID string, results domain.RunResults) error
	GetResults(ctx context.Context, runID string) (domain.RunResults, error)

	Close() error
}
