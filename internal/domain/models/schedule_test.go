package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
)

func TestNewSchedule_Validation(t *testing.T) {
	tests := []struct {
		name    string
		weekday time.Weekday
		start   int
		end     int
		wantErr bool
	}{
		{name: "valid window", weekday: time.Monday, start: 9 * 60, end: 17 * 60},
		{name: "whole day", weekday: time.Sunday, start: 0, end: 1440},
		{name: "start equals end", weekday: time.Monday, start: 600, end: 600, wantErr: true},
		{name: "start after end", weekday: time.Monday, start: 700, end: 600, wantErr: true},
		{name: "negative start", weekday: time.Monday, start: -1, end: 600, wantErr: true},
		{name: "end past midnight", weekday: time.Monday, start: 0, end: 1441, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := models.NewSchedule(1, tt.weekday, tt.start, tt.end, true)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidSchedule)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestSchedule_IsActiveAt(t *testing.T) {
	// 2024-06-03 is a Monday.
	monday := func(hour, minute int) time.Time {
		return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC)
	}

	sched, err := models.NewSchedule(1, time.Monday, 9*60, 17*60, true)
	require.NoError(t, err)

	tests := []struct {
		name   string
		sched  models.Schedule
		at     time.Time
		active bool
	}{
		{name: "inside window", sched: sched, at: monday(12, 30), active: true},
		{name: "exactly at start", sched: sched, at: monday(9, 0), active: true},
		{name: "just before end", sched: sched, at: monday(16, 59), active: true},
		{name: "exactly at end is not active", sched: sched, at: monday(17, 0), active: false},
		{name: "before window", sched: sched, at: monday(8, 59), active: false},
		{name: "wrong weekday", sched: sched, at: time.Date(2024, 6, 4, 12, 0, 0, 0, time.UTC), active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, tt.sched.IsActiveAt(tt.at))
		})
	}
}

func TestSchedule_DisabledIsNeverActive(t *testing.T) {
	sched, err := models.NewSchedule(1, time.Monday, 0, 1440, false)
	require.NoError(t, err)

	for day := 3; day < 10; day++ {
		at := time.Date(2024, 6, day, 12, 0, 0, 0, time.UTC)
		assert.False(t, sched.IsActiveAt(at))
	}
}
