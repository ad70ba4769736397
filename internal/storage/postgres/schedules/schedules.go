package schedulestorage

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/storage/postgres"
)

type ScheduleStorage struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *ScheduleStorage {
	return &ScheduleStorage{
		db: db,
	}
}

func (s *ScheduleStorage) Save(sched models.Schedule) (models.Schedule, error) {
	const op = "storage.postgres.schedules.Save"

	query := fmt.Sprintf(`
		INSERT INTO %s (camera_id, weekday, start_minute, end_minute, enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, postgres.SchedulesTable)

	row := s.db.QueryRow(query, sched.CameraID, int(sched.Weekday),
		sched.StartMinute, sched.EndMinute, sched.Enabled)
	if err := row.Scan(&sched.ScheduleID); err != nil {
		return models.Schedule{}, fmt.Errorf("%s: %w", op, err)
	}

	return sched, nil
}

func (s *ScheduleStorage) FindAll() ([]models.Schedule, error) {
	const op = "storage.postgres.schedules.FindAll"

	query := fmt.Sprintf(`
		SELECT id, camera_id, weekday, start_minute, end_minute, enabled
		FROM %s
		ORDER BY id`, postgres.SchedulesTable)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var scheds []models.Schedule

	for rows.Next() {
		var sched models.Schedule
		var weekday int

		if err := rows.Scan(&sched.ScheduleID, &sched.CameraID, &weekday,
			&sched.StartMinute, &sched.EndMinute, &sched.Enabled); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		sched.Weekday = time.Weekday(weekday)

		scheds = append(scheds, sched)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return scheds, nil
}
