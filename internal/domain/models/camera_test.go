package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
)

func TestNewCameraConfig(t *testing.T) {
	normal := models.Quality{Resolution: "CIF", FPS: 12}
	alarm := models.Quality{Resolution: "D1", FPS: 25}

	tests := []struct {
		name     string
		cameraID int
		pre      int
		post     int
		wantErr  bool
	}{
		{name: "valid minimal", cameraID: 1, pre: 5, post: 10},
		{name: "valid maximal", cameraID: 16, pre: 10, post: 30},
		{name: "camera id zero", cameraID: 0, pre: 5, post: 10, wantErr: true},
		{name: "camera id too large", cameraID: 17, pre: 5, post: 10, wantErr: true},
		{name: "pre-roll not allowed", cameraID: 1, pre: 7, post: 10, wantErr: true},
		{name: "pre-roll zero", cameraID: 1, pre: 0, post: 10, wantErr: true},
		{name: "post-roll not allowed", cameraID: 1, pre: 5, post: 15, wantErr: true},
		{name: "post-roll zero", cameraID: 1, pre: 5, post: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := models.NewCameraConfig(tt.cameraID, "rtsp://10.0.0.5:554/stream", normal, alarm, tt.pre, tt.post)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidCameraConfig)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.cameraID, cfg.CameraID)
			assert.Equal(t, tt.pre, cfg.PreRecordSec)
			assert.Equal(t, tt.post, cfg.PostRecordSec)
			assert.Equal(t, alarm, cfg.AlarmQuality)
		})
	}
}
