package segmentstorage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/storage/postgres"
)

type SegmentStorage struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *SegmentStorage {
	return &SegmentStorage{
		db: db,
	}
}

func (s *SegmentStorage) FindAll() ([]models.Segment, error) {
	const op = "storage.postgres.segments.FindAll"

	query := fmt.Sprintf(`
		SELECT id, camera_id, start_time, end_time, category, resolution, fps, file_path
		FROM %s
		ORDER BY id`, postgres.SegmentsTable)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var segs []models.Segment

	for rows.Next() {
		var seg models.Segment
		var category string

		if err := rows.Scan(&seg.ID, &seg.CameraID, &seg.StartTime, &seg.EndTime,
			&category, &seg.Quality.Resolution, &seg.Quality.FPS, &seg.FilePath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		seg.Category, err = models.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		segs = append(segs, seg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return segs, nil
}

// Save inserts the segment and returns it with the database-assigned id.
func (s *SegmentStorage) Save(seg models.Segment) (models.Segment, error) {
	const op = "storage.postgres.segments.Save"

	query := fmt.Sprintf(`
		INSERT INTO %s (camera_id, start_time, end_time, category, resolution, fps, file_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`, postgres.SegmentsTable)

	row := s.db.QueryRow(query, seg.CameraID, seg.StartTime, seg.EndTime,
		string(seg.Category), seg.Quality.Resolution, seg.Quality.FPS, seg.FilePath)
	if err := row.Scan(&seg.ID); err != nil {
		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	return seg, nil
}

func (s *SegmentStorage) Delete(segmentID int64) error {
	const op = "storage.postgres.segments.Delete"

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, postgres.SegmentsTable)

	result, err := s.db.Exec(query, segmentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrSegmentNotFound)
	}

	return nil
}

func (s *SegmentStorage) Segment(segmentID int64) (models.Segment, error) {
	const op = "storage.postgres.segments.Segment"

	var seg models.Segment
	var category string

	query := fmt.Sprintf(`
		SELECT id, camera_id, start_time, end_time, category, resolution, fps, file_path
		FROM %s
		WHERE id = $1`, postgres.SegmentsTable)

	row := s.db.QueryRow(query, segmentID)
	if err := row.Scan(&seg.ID, &seg.CameraID, &seg.StartTime, &seg.EndTime,
		&category, &seg.Quality.Resolution, &seg.Quality.FPS, &seg.FilePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Segment{}, fmt.Errorf("%s: %w", op, errs.ErrSegmentNotFound)
		}
		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	var err error
	seg.Category, err = models.ParseCategory(category)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s: %w", op, err)
	}

	return seg, nil
}
