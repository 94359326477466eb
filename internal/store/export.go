package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/phonics/internal/model"
)

// ExportLearners builds the export document for the whole class.
func (s *Store) ExportLearners() (model.ClassExport, error) {
	info, err := s.GetClassInfo()
	if err != nil {
		return model.ClassExport{}, fmt.Errorf("class info: %w", err)
	}
	learners, err := s.ListLearners()
	if err != nil {
		return model.ClassExport{}, fmt.Errorf("list learners: %w", err)
	}

	out := model.ClassExport{
		ClassInfo:  info,
		ExportedAt: time.Now().UTC(),
		Learners:   make([]model.LearnerExport, 0, len(learners)),
	}
	for _, l := range learners {
		stats, err := s.AttendanceStats(l.ID)
		if err != nil {
			return model.ClassExport{}, fmt.Errorf("attendance for %d: %w", l.ID, err)
		}
		out.Learners = append(out.Learners, model.LearnerExport{Learner: l, Attendance: stats})
	}
	return out, nil
}
