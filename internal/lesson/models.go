package lesson

import "time"

type Progress struct {
	ID          int64      `json:"id" db:"id"`
	PersonID    int64      `json:"userId" db:"person_id"`
	LessonID    string     `json:"lessonId" db:"lesson_id"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

// CatalogEntry is a lesson as seen by a particular member.
type CatalogEntry struct {
	Lesson
	Accessible bool `json:"accessible"`
	Completed  bool `json:"completed"`
}
