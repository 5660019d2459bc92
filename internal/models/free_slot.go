package models

// FreeWindow is a teacher's recurring weekly availability. DayOfWeek uses
// the stored convention Sunday=0 ... Saturday=6.
type FreeWindow struct {
	ID        int64  `db:"id" json:"id"`
	TeacherID int64  `db:"user_id" json:"user_id"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// AvailableSlotPart is a bookable piece of a FreeWindow left after
// subtracting postponed lessons.
type AvailableSlotPart struct {
	ID              string `json:"id"`
	WindowID        int64  `json:"window_id"`
	PartIndex       int    `json:"part_index"`
	TeacherID       int64  `json:"user_id"`
	DayOfWeek       int    `json:"day_of_week"`
	DayName         string `json:"day_name"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// FreeSlotResult bundles the parts with the lesson length they were filtered by.
type FreeSlotResult struct {
	TeacherID      int64               `json:"teacher_id"`
	LessonDuration int                 `json:"lesson_duration"`
	Slots          []AvailableSlotPart `json:"slots"`
}
