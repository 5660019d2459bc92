package models

import "time"

// Attendance is the category recorded on a session report.
type Attendance string

const (
	AttendancePresent           Attendance = "حضور"
	AttendanceAbsent            Attendance = "غياب"
	AttendanceTeacherPostponed  Attendance = "تأجيل المعلم"
	AttendanceGuardianPostponed Attendance = "تأجيل ولي أمر"
	AttendanceTeacherLeave      Attendance = "اجازة معلم"
	AttendancePostponedMakeup   Attendance = "تعويض التأجيل"
	AttendanceAbsenceMakeup     Attendance = "تعويض الغياب"
	AttendanceTrial             Attendance = "تجريبي"
)

// IncrementingAttendances advance the session ordinal.
var IncrementingAttendances = []Attendance{
	AttendancePresent,
	AttendanceAbsent,
	AttendanceTeacherPostponed,
	AttendanceGuardianPostponed,
}

// NonIncrementingAttendances are recorded with session ordinal 0.
var NonIncrementingAttendances = []Attendance{
	AttendancePostponedMakeup,
	AttendanceAbsenceMakeup,
	AttendanceTrial,
}

// Incrementing reports whether a counts toward the session sequence.
func (a Attendance) Incrementing() bool {
	return containsAttendance(IncrementingAttendances, a)
}

// NonIncrementing reports whether a is excluded from the session sequence.
func (a Attendance) NonIncrementing() bool {
	return containsAttendance(NonIncrementingAttendances, a)
}

// Known reports whether a is one of the recognised categories.
func (a Attendance) Known() bool {
	return a.Incrementing() || a.NonIncrementing() || a == AttendanceTeacherLeave
}

var attendanceLabels = map[Attendance]string{
	AttendancePresent:           "Present",
	AttendanceAbsent:            "Absent",
	AttendanceTeacherPostponed:  "Postponed by teacher",
	AttendanceGuardianPostponed: "Postponed by guardian",
	AttendanceTeacherLeave:      "Teacher leave",
	AttendancePostponedMakeup:   "Postponement makeup",
	AttendanceAbsenceMakeup:     "Absence makeup",
	AttendanceTrial:             "Trial",
}

// Label returns an English label for exports, or the raw value when unknown.
func (a Attendance) Label() string {
	if label, ok := attendanceLabels[a]; ok {
		return label
	}
	return string(a)
}

func containsAttendance(list []Attendance, a Attendance) bool {
	for _, item := range list {
		if item == a {
			return true
		}
	}
	return false
}

// Report is the immutable record of a session that took place or was excused.
type Report struct {
	ID             int64      `db:"id" json:"id"`
	StudentID      int64      `db:"student_id" json:"student_id"`
	TeacherID      int64      `db:"teacher_id" json:"teacher_id"`
	TeacherName    string     `db:"teacher_name" json:"teacher_name,omitempty"`
	Date           string     `db:"date" json:"date"`
	Time           string     `db:"time" json:"time"`
	Attendance     Attendance `db:"attendance" json:"attendance"`
	SessionNumber  int        `db:"session_number" json:"session_number"`
	LessonDuration int        `db:"lesson_duration" json:"lesson_duration"`
	Evaluation     string     `db:"evaluation" json:"evaluation"`
	Grade          int        `db:"grade" json:"grade"`
	Tasmii         string     `db:"tasmii" json:"tasmii"`
	Tahfiz         string     `db:"tahfiz" json:"tahfiz"`
	Mourajah       string     `db:"mourajah" json:"mourajah"`
	NextTasmii     string     `db:"next_tasmii" json:"next_tasmii"`
	NextMourajah   string     `db:"next_mourajah" json:"next_mourajah"`
	Notes          string     `db:"notes" json:"notes"`
	ZoomImageURL   string     `db:"zoom_image_url" json:"zoom_image_url"`
	IsPostponed    bool       `db:"is_postponed" json:"is_postponed"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	StudentID int64
	Page      int
	PageSize  int
}
