package sizing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/sizing"
)

func TestEstimateBytes(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mkSeg := func(resolution string, fps, seconds int) models.Segment {
		return models.Segment{
			StartTime: base,
			EndTime:   base.Add(time.Duration(seconds) * time.Second),
			Quality:   models.Quality{Resolution: resolution, FPS: fps},
		}
	}

	tests := []struct {
		name string
		seg  models.Segment
		want int64
	}{
		{name: "CIF at reference fps", seg: mkSeg("CIF", 25, 10), want: 10 * 64 * 1024},
		{name: "half frame rate halves the estimate", seg: mkSeg("CIF", 12, 10), want: 10 * 64 * 1024 * 12 / 25},
		{name: "D1 doubles CIF", seg: mkSeg("D1", 25, 10), want: 10 * 128 * 1024},
		{name: "unknown resolution falls back to CIF", seg: mkSeg("4K", 25, 10), want: 10 * 64 * 1024},
		{name: "zero fps falls back to reference", seg: mkSeg("CIF", 0, 10), want: 10 * 64 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sizing.EstimateBytes(tt.seg))
		})
	}
}

func TestEstimateBytes_GrowsWithDuration(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	quality := models.Quality{Resolution: "720p", FPS: 25}

	short := models.Segment{StartTime: base, EndTime: base.Add(10 * time.Second), Quality: quality}
	long := models.Segment{StartTime: base, EndTime: base.Add(20 * time.Second), Quality: quality}

	assert.Equal(t, 2*sizing.EstimateBytes(short), sizing.EstimateBytes(long))
}
