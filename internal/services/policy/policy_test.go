package policyservice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/sizing"
	policyservice "github.com/zanzhit/camera_vault/internal/services/policy"
)

var base = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func seg(id int64, category models.Category, startOffsetSec int) models.Segment {
	start := base.Add(time.Duration(startOffsetSec) * time.Second)

	return models.Segment{
		ID:        id,
		CameraID:  1,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
		Category:  category,
		Quality:   models.Quality{Resolution: "CIF", FPS: 25},
	}
}

func TestNew_Validation(t *testing.T) {
	for _, quota := range []int{0, 10, 20} {
		_, err := policyservice.New(quota, policyservice.FullPolicyDenyNew)
		assert.NoError(t, err)
	}

	_, err := policyservice.New(30, policyservice.FullPolicyDenyNew)
	assert.ErrorIs(t, err, errs.ErrInvalidQuota)

	_, err = policyservice.New(10, policyservice.FullPolicy("evict_oldest"))
	assert.ErrorIs(t, err, errs.ErrInvalidFullPolicy)
}

func TestSelectEvictionCandidate(t *testing.T) {
	policy, err := policyservice.New(10, policyservice.FullPolicyDenyNew)
	require.NoError(t, err)

	tests := []struct {
		name     string
		segments []models.Segment
		wantID   int64
		wantOK   bool
	}{
		{
			name:     "empty snapshot",
			segments: nil,
			wantOK:   false,
		},
		{
			name: "all protected",
			segments: []models.Segment{
				seg(1, models.CategoryEmergency, 10),
				seg(2, models.CategoryEmergency, 20),
			},
			wantOK: false,
		},
		{
			name: "oldest unprotected wins over older protected",
			segments: []models.Segment{
				seg(1, models.CategoryNormal, 10),
				seg(2, models.CategoryEmergency, 5),
				seg(3, models.CategoryNormal, 20),
			},
			wantID: 1,
			wantOK: true,
		},
		{
			name: "alarm segments are evictable",
			segments: []models.Segment{
				seg(4, models.CategoryAlarm, 40),
				seg(5, models.CategoryNormal, 50),
			},
			wantID: 4,
			wantOK: true,
		},
		{
			name: "tie broken by lower id",
			segments: []models.Segment{
				seg(9, models.CategoryNormal, 10),
				seg(3, models.CategoryNormal, 10),
				seg(7, models.CategoryNormal, 10),
			},
			wantID: 3,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			victim, ok := policy.SelectEvictionCandidate(tt.segments)
			require.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.wantID, victim.ID)
				assert.False(t, victim.IsProtected())
			}
		})
	}
}

func TestSelectEvictionCandidate_NeverProtectedAndOldest(t *testing.T) {
	policy, err := policyservice.New(20, policyservice.FullPolicyDenyNew)
	require.NoError(t, err)

	segments := []models.Segment{
		seg(1, models.CategoryEmergency, 0),
		seg(2, models.CategoryNormal, 300),
		seg(3, models.CategoryAlarm, 100),
		seg(4, models.CategoryEmergency, 50),
		seg(5, models.CategoryNormal, 200),
	}

	victim, ok := policy.SelectEvictionCandidate(segments)
	require.True(t, ok)
	require.False(t, victim.IsProtected())

	for _, s := range segments {
		if s.IsProtected() {
			continue
		}

		assert.False(t, victim.StartTime.After(s.StartTime),
			"victim must start no later than any other unprotected segment")
	}
}

func TestCanAdmitEmergency_ZeroQuota(t *testing.T) {
	policy, err := policyservice.New(0, policyservice.FullPolicyDenyNew)
	require.NoError(t, err)

	assert.False(t, policy.CanAdmitEmergency(nil, 1<<40, 1))
	assert.False(t, policy.CanAdmitEmergency([]models.Segment{
		seg(1, models.CategoryNormal, 0),
	}, 1<<40, 0))
}

func TestCanAdmitEmergency_QuotaAccounting(t *testing.T) {
	policy, err := policyservice.New(10, policyservice.FullPolicyDenyNew)
	require.NoError(t, err)

	protected := seg(1, models.CategoryEmergency, 0)
	consumed := sizing.EstimateBytes(protected)

	// Capacity sized so the quota fits exactly one more segment of the
	// same estimate on top of the existing protected one.
	capacity := (consumed * 2) * 100 / 10

	assert.True(t, policy.CanAdmitEmergency([]models.Segment{protected}, capacity, consumed))
	assert.False(t, policy.CanAdmitEmergency([]models.Segment{protected}, capacity, consumed+1))

	// Unprotected segments never count against the emergency area.
	crowd := []models.Segment{
		protected,
		seg(2, models.CategoryNormal, 100),
		seg(3, models.CategoryAlarm, 200),
	}
	assert.True(t, policy.CanAdmitEmergency(crowd, capacity, consumed))
}
