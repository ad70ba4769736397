// Package memorystorage keeps segment metadata in process memory. It backs
// tests and the embedded no-database mode; the contract matches the
// postgres repository, including identifier assignment on save.
package memorystorage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zanzhit/camera_vault/internal/domain/errs"
	"github.com/zanzhit/camera_vault/internal/domain/models"
)

type SegmentStorage struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.Segment
}

func New() *SegmentStorage {
	return &SegmentStorage{
		nextID: 1,
		byID:   make(map[int64]models.Segment),
	}
}

func (s *SegmentStorage) FindAll() ([]models.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	segs := make([]models.Segment, 0, len(s.byID))
	for _, seg := range s.byID {
		segs = append(segs, seg)
	}

	sort.Slice(segs, func(i, j int) bool { return segs[i].ID < segs[j].ID })

	return segs, nil
}

func (s *SegmentStorage) Save(seg models.Segment) (models.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seg.ID = s.nextID
	s.nextID++
	s.byID[seg.ID] = seg

	return seg, nil
}

func (s *SegmentStorage) Segment(segmentID int64) (models.Segment, error) {
	const op = "storage.memory.segments.Segment"

	s.mu.RLock()
	defer s.mu.RUnlock()

	seg, ok := s.byID[segmentID]
	if !ok {
		return models.Segment{}, fmt.Errorf("%s: %w", op, errs.ErrSegmentNotFound)
	}

	return seg, nil
}

func (s *SegmentStorage) Delete(segmentID int64) error {
	const op = "storage.memory.segments.Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[segmentID]; !ok {
		return fmt.Errorf("%s: %w", op, errs.ErrSegmentNotFound)
	}

	delete(s.byID, segmentID)

	return nil
}
