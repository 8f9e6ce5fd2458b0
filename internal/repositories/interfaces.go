package repositories

import (
	"context"

	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

// RouteRepository stores the reference route. Segments keep their order.
type RouteRepository interface {
	EnsureSchema(ctx context.Context) error
	BulkCreate(ctx context.Context, segments []models.Segment) error
	GetAll(ctx context.Context) ([]models.Segment, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
