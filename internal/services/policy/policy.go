package policyservice

import (
	"fmt"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
	"github.com/zanzhit/camera_vault/internal/lib/sizing"
)

// FullPolicy selects what happens when the emergency area cannot take a new
// recording. Only one variant exists today; the type keeps callers stable
// when more are added.
type FullPolicy string

const (
	// FullPolicyDenyNew refuses the new emergency recording outright.
	FullPolicyDenyNew FullPolicy = "deny_new"
)

func ParseFullPolicy(s string) (FullPolicy, error) {
	switch FullPolicy(s) {
	case FullPolicyDenyNew:
		return FullPolicy(s), nil
	}

	return "", fmt.Errorf("%q: %w", s, errs.ErrInvalidFullPolicy)
}

// StoragePolicy decides eviction and emergency admission over a snapshot of
// segments passed in by the caller. It holds no segment state itself; both
// operations are pure functions of their arguments, which is what lets the
// orchestrator serialize decisions with a single lock around snapshot and
// mutation.
type StoragePolicy struct {
	emergencyQuotaPercent int64
	fullPolicy            FullPolicy
}

func New(emergencyQuotaPercent int, fullPolicy FullPolicy) (StoragePolicy, error) {
	switch emergencyQuotaPercent {
	case 0, 10, 20:
	default:
		return StoragePolicy{}, fmt.Errorf("%d%%: %w", emergencyQuotaPercent, errs.ErrInvalidQuota)
	}

	if _, err := ParseFullPolicy(string(fullPolicy)); err != nil {
		return StoragePolicy{}, err
	}

	return StoragePolicy{
		emergencyQuotaPercent: int64(emergencyQuotaPercent),
		fullPolicy:            fullPolicy,
	}, nil
}

// SelectEvictionCandidate returns the unprotected segment with the earliest
// start time, or false when every segment is protected and nothing may be
// evicted. Equal start times are broken by the lower identifier so that
// concurrent callers working from the same snapshot agree on the victim.
func (p StoragePolicy) SelectEvictionCandidate(segments []models.Segment) (models.Segment, bool) {
	var candidate models.Segment
	found := false

	for _, seg := range segments {
		if seg.IsProtected() {
			continue
		}

		if !found || older(seg, candidate) {
			candidate = seg
			found = true
		}
	}

	return candidate, found
}

func older(a, b models.Segment) bool {
	if a.StartTime.Equal(b.StartTime) {
		return a.ID < b.ID
	}

	return a.StartTime.Before(b.StartTime)
}

// CanAdmitEmergency reports whether a new protected recording of
// newSegmentBytes fits inside the reserved emergency area. A zero quota
// disables emergency recording entirely.
func (p StoragePolicy) CanAdmitEmergency(segments []models.Segment, totalCapacityBytes, newSegmentBytes int64) bool {
	if p.emergencyQuotaPercent == 0 {
		return false
	}

	allowed := totalCapacityBytes * p.emergencyQuotaPercent / 100

	var consumed int64
	for _, seg := range segments {
		if seg.IsProtected() {
			consumed += sizing.EstimateBytes(seg)
		}
	}

	return consumed+newSegmentBytes <= allowed
}
