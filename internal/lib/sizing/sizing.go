// Package sizing estimates how many bytes a recorded segment occupies on
// disk. The retention policy consumes these estimates but never computes
// them, so codec and bitrate knowledge stays out of the policy.
package sizing

import (
	"github.com/zanzhit/camera_vault/internal/domain/models"
)

// Approximate H.264 bitrate in bytes per second at 25 fps for each
// supported resolution. Unknown resolutions fall back to the CIF rate.
var bytesPerSecond = map[string]int64{
	"QCIF":  32 * 1024,
	"CIF":   64 * 1024,
	"D1":    128 * 1024,
	"720p":  256 * 1024,
	"1080p": 512 * 1024,
}

const referenceFPS = 25

func EstimateBytes(seg models.Segment) int64 {
	rate, ok := bytesPerSecond[seg.Quality.Resolution]
	if !ok {
		rate = bytesPerSecond["CIF"]
	}

	fps := seg.Quality.FPS
	if fps <= 0 {
		fps = referenceFPS
	}

	seconds := int64(seg.Duration().Seconds())

	return seconds * rate * int64(fps) / referenceFPS
}
