package model

import "time"

// ClassExport is the top-level JSON structure for a class progress export.
type ClassExport struct {
	ClassInfo
	ExportedAt time.Time       `json:"exported_at"`
	Learners   []LearnerExport `json:"learners"`
}

// LearnerExport holds one learner's progress and attendance for export.
type LearnerExport struct {
	Learner
	Attendance AttendanceStats `json:"attendance"`
}
