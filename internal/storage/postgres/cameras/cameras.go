package camerastorage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/storage/postgres"
)

type CameraStorage struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *CameraStorage {
	return &CameraStorage{
		db: db,
	}
}

// Save upserts the configuration; the camera id is the natural key.
func (s *CameraStorage) Save(cfg models.CameraConfig) error {
	const op = "storage.postgres.cameras.Save"

	query := fmt.Sprintf(`
		INSERT INTO %s (camera_id, camera_ip,
			normal_resolution, normal_fps, alarm_resolution, alarm_fps,
			pre_record_sec, post_record_sec)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (camera_id) DO UPDATE SET
			camera_ip = EXCLUDED.camera_ip,
			normal_resolution = EXCLUDED.normal_resolution,
			normal_fps = EXCLUDED.normal_fps,
			alarm_resolution = EXCLUDED.alarm_resolution,
			alarm_fps = EXCLUDED.alarm_fps,
			pre_record_sec = EXCLUDED.pre_record_sec,
			post_record_sec = EXCLUDED.post_record_sec`, postgres.CamerasTable)

	_, err := s.db.Exec(query, cfg.CameraID, cfg.CameraIP,
		cfg.NormalQuality.Resolution, cfg.NormalQuality.FPS,
		cfg.AlarmQuality.Resolution, cfg.AlarmQuality.FPS,
		cfg.PreRecordSec, cfg.PostRecordSec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *CameraStorage) CameraConfig(cameraID int) (models.CameraConfig, error) {
	const op = "storage.postgres.cameras.CameraConfig"

	var cfg models.CameraConfig

	query := fmt.Sprintf(`
		SELECT camera_id, camera_ip,
			normal_resolution, normal_fps, alarm_resolution, alarm_fps,
			pre_record_sec, post_record_sec
		FROM %s
		WHERE camera_id = $1`, postgres.CamerasTable)

	row := s.db.QueryRow(query, cameraID)
	if err := row.Scan(&cfg.CameraID, &cfg.CameraIP,
		&cfg.NormalQuality.Resolution, &cfg.NormalQuality.FPS,
		&cfg.AlarmQuality.Resolution, &cfg.AlarmQuality.FPS,
		&cfg.PreRecordSec, &cfg.PostRecordSec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CameraConfig{}, fmt.Errorf("%s: %w", op, errs.ErrConfigNotFound)
		}
		return models.CameraConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}
