package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// StudentScheduleRow is a raw row of student_schedules. Recurring patterns
// and postponed events share the table and are told apart by IsPostponed.
type StudentScheduleRow struct {
	ID             int64          `db:"id"`
	StudentID      int64          `db:"student_id"`
	TeacherID      int64          `db:"teacher_id"`
	LessonDuration int            `db:"lesson_duration"`
	Schedule       types.JSONText `db:"schedule"`
	IsPostponed    bool           `db:"is_postponed"`
	PostponedDate  *string        `db:"postponed_date"`
	PostponedTime  *string        `db:"postponed_time"`
	OwnerStudentID *int64         `db:"owner_student_id"`
	CreatedAt      time.Time      `db:"created_at"`
}

// PatternSlot is one weekly (day, time) entry of a recurring pattern.
type PatternSlot struct {
	Day      string  `json:"day"`
	Hour     string  `json:"hour"`
	Original *string `json:"original,omitempty"`
}

// RecurringPattern is the weekly commitment between a student and a teacher.
type RecurringPattern struct {
	ID             int64         `json:"id"`
	StudentID      int64         `json:"student_id"`
	TeacherID      int64         `json:"teacher_id"`
	LessonDuration int           `json:"lesson_duration"`
	Slots          []PatternSlot `json:"slots"`
}

// PostponedEvent is a one-off lesson outside the recurring pattern.
// OwnerStudentID is the student the lesson belongs to, resolved once when
// the row is read; StoredStudentID is whatever the row was filed under.
type PostponedEvent struct {
	ID              int64     `json:"id"`
	StoredStudentID int64     `json:"-"`
	OwnerStudentID  int64     `json:"student_id"`
	TeacherID       int64     `json:"teacher_id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	LessonDuration  int       `json:"lesson_duration"`
	CreatedAt       time.Time `json:"created_at"`
}

// OccurrenceOrigin marks where an occurrence came from.
type OccurrenceOrigin string

const (
	OriginRecurring OccurrenceOrigin = "recurring"
	OriginPostponed OccurrenceOrigin = "postponed"
)

// Occurrence is one concrete upcoming lesson.
type Occurrence struct {
	ScheduleID     int64            `json:"schedule_id"`
	StudentID      int64            `json:"student_id"`
	TeacherID      int64            `json:"teacher_id"`
	TeacherName    string           `json:"teacher_name,omitempty"`
	LessonName     string           `json:"lesson_name,omitempty"`
	LessonDuration int              `json:"lesson_duration"`
	Origin         OccurrenceOrigin `json:"origin"`
	IsPostponed    bool             `json:"is_postponed"`
	Day            string           `json:"day"`
	Hour           string           `json:"hour"`
	Original       *string          `json:"original,omitempty"`
	Date           string           `json:"date"`
	PostponedDate  *string          `json:"postponed_date,omitempty"`
	StartsAt       time.Time        `json:"starts_at"`
}

// EndsAt returns the end of the lesson.
func (o Occurrence) EndsAt() time.Time {
	return o.StartsAt.Add(time.Duration(o.LessonDuration) * time.Minute)
}

// FeedLink is a signed calendar subscription link of a student.
type FeedLink struct {
	StudentID int64     `json:"student_id"`
	Token     string    `json:"token"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
