package lesson

import "errors"

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrLessonLocked   = errors.New("upgrade your membership to access this lesson")
)
