package models

// UserRole distinguishes the accounts that own schedules.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// User is the profile of a numeric identity.
type User struct {
	ID          int64    `db:"id" json:"id"`
	DisplayName string   `db:"display_name" json:"display_name"`
	Role        UserRole `db:"role" json:"role"`
}

// StudentSettings carries the per-student configuration used by the engine.
type StudentSettings struct {
	StudentID      int64  `db:"student_id" json:"student_id"`
	TeacherID      *int64 `db:"teacher_id" json:"teacher_id,omitempty"`
	LessonDuration int    `db:"lesson_duration" json:"lesson_duration"`
	LessonsNumber  int    `db:"lessons_number" json:"lessons_number"`
	LessonName     string `db:"lesson_name" json:"lesson_name"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
