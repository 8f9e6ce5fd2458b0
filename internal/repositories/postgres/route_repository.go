package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/geo"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
)

const schema = `
    CREATE EXTENSION IF NOT EXISTS postgis;
    CREATE TABLE IF NOT EXISTS route_segments (
        position     INTEGER PRIMARY KEY,
        segment_id   TEXT NOT NULL DEFAULT '',
        segment_name TEXT,
        start_point  GEOMETRY(POINT, 4326) NOT NULL,
        end_point    GEOMETRY(POINT, 4326) NOT NULL
    )`

const insertSegment = `
    INSERT INTO route_segments (
        position, segment_id, segment_name, start_point, end_point
    ) VALUES (
        $1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), ST_SetSRID(ST_MakePoint($6, $7), 4326)
    )`

type RouteRepository struct {
	pool *pgxpool.Pool
}

func NewRouteRepository(pool *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{pool: pool}
}

// NewPool opens and pings a pgx pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

func (r *RouteRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *RouteRepository) BulkCreate(ctx context.Context, segments []models.Segment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, seg := range segments {
		if _, err := tx.Exec(ctx, insertSegment, segmentArgs(i, seg)...); err != nil {
			return fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *RouteRepository) GetAll(ctx context.Context) ([]models.Segment, error) {
	query := `
        SELECT segment_id, segment_name, ST_AsText(start_point), ST_AsText(end_point)
        FROM route_segments
        ORDER BY position`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []models.Segment
	for rows.Next() {
		var seg models.Segment
		if err := rows.Scan(&seg.ID, &seg.Name, &seg.Coords[0], &seg.Coords[1]); err != nil {
			return nil, err
		}
		if err := normalizeSegment(len(segments), &seg); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

func (r *RouteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM route_segments").Scan(&count)
	return count, err
}

func (r *RouteRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE route_segments")
	return err
}

// segmentArgs lays out insertSegment's parameters. An absent name is stored as NULL.
func segmentArgs(position int, seg models.Segment) []any {
	return []any{
		position,
		seg.ID,
		seg.Name,
		seg.Coords[0].Lon,
		seg.Coords[0].Lat,
		seg.Coords[1].Lon,
		seg.Coords[1].Lat,
	}
}

// normalizeSegment maps an empty name to absent and rejects stored points
// that fall outside valid degree ranges.
func normalizeSegment(position int, seg *models.Segment) error {
	if seg.Name != nil && *seg.Name == "" {
		seg.Name = nil
	}
	for i, p := range seg.Coords {
		if err := geo.ValidateLocation(p); err != nil {
			return fmt.Errorf("%w: segment %d point %d: %w", models.ErrRouteLoad, position, i, err)
		}
	}
	return nil
}
