package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

// 2024-01-10 is a Wednesday.
var fixedNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type profileStub struct {
	users    map[int64]models.User
	settings map[int64]*models.StudentSettings
	err      error
}

func newProfileStub(users ...models.User) *profileStub {
	p := &profileStub{users: map[int64]models.User{}, settings: map[int64]*models.StudentSettings{}}
	for _, u := range users {
		p.users[u.ID] = u
	}
	return p
}

func (p *profileStub) FindUser(ctx context.Context, id int64) (*models.User, error) {
	if p.err != nil {
		return nil, p.err
	}
	u, ok := p.users[id]
	if !ok {
		return nil, fmt.Errorf("find user %d: %w", id, sql.ErrNoRows)
	}
	return &u, nil
}

func (p *profileStub) ListUsers(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	out := map[int64]models.User{}
	for _, id := range ids {
		if u, ok := p.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (p *profileStub) FindStudentSettings(ctx context.Context, studentID int64) (*models.StudentSettings, error) {
	s, ok := p.settings[studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

type postponedKey struct {
	student, teacher int64
	date, clock      string
}

type scheduleStoreStub struct {
	mu        sync.Mutex
	patterns  []models.RecurringPattern
	postponed []models.PostponedEvent
	durations map[[2]int64]int
	taken     map[postponedKey]bool
	createErr error
	listErr   error
	nextID    int64
	creates   int
	listCalls int
}

func newScheduleStoreStub() *scheduleStoreStub {
	return &scheduleStoreStub{durations: map[[2]int64]int{}, taken: map[postponedKey]bool{}, nextID: 100}
}

func (s *scheduleStoreStub) ListRecurringByStudent(ctx context.Context, studentID int64) ([]models.RecurringPattern, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.RecurringPattern
	for _, p := range s.patterns {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *scheduleStoreStub) ListPostponedForStudent(ctx context.Context, studentID int64) ([]models.PostponedEvent, error) {
	var out []models.PostponedEvent
	for _, ev := range s.postponed {
		if ev.OwnerStudentID == studentID || ev.StoredStudentID == studentID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *scheduleStoreStub) ListPostponedByTeacher(ctx context.Context, teacherID int64, from string) ([]models.PostponedEvent, error) {
	var out []models.PostponedEvent
	for _, ev := range s.postponed {
		if ev.TeacherID == teacherID && ev.Date >= from {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *scheduleStoreStub) ExistsPostponed(ctx context.Context, studentID, teacherID int64, date, clock string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taken[postponedKey{studentID, teacherID, date, clock}], nil
}

func (s *scheduleStoreStub) FindLessonDuration(ctx context.Context, studentID, teacherID int64) (int, bool, error) {
	d, ok := s.durations[[2]int64{studentID, teacherID}]
	return d, ok, nil
}

func (s *scheduleStoreStub) CreatePostponed(ctx context.Context, ev *models.PostponedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	key := postponedKey{ev.OwnerStudentID, ev.TeacherID, ev.Date, ev.Time}
	if s.taken[key] {
		return repository.ErrDuplicatePostponed
	}
	s.taken[key] = true
	s.nextID++
	ev.ID = s.nextID
	ev.CreatedAt = fixedNow
	s.postponed = append(s.postponed, *ev)
	return nil
}

type reportStoreStub struct {
	reports   []models.Report
	createErr error
	nextID    int64
}

func (r *reportStoreStub) ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error) {
	var out []models.Report
	for _, rep := range r.reports {
		if rep.StudentID == studentID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *reportStoreStub) ListByTeacherSince(ctx context.Context, teacherID int64, from string) ([]models.Report, error) {
	var out []models.Report
	for _, rep := range r.reports {
		if rep.TeacherID == teacherID && rep.Date >= from {
			out = append(out, rep)
		}
	}
	return out, nil
}

// ListSessionHistory expects reports to be stored newest first.
func (r *reportStoreStub) ListSessionHistory(ctx context.Context, studentID int64) ([]models.Report, error) {
	var out []models.Report
	for _, rep := range r.reports {
		if rep.StudentID == studentID && rep.SessionNumber > 0 {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *reportStoreStub) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	all, _ := r.ListByStudent(ctx, filter.StudentID)
	start := (filter.Page - 1) * filter.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := min(start+filter.PageSize, len(all))
	return all[start:end], len(all), nil
}

func (r *reportStoreStub) Create(ctx context.Context, report *models.Report) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	report.ID = r.nextID
	report.CreatedAt = fixedNow
	r.reports = append([]models.Report{*report}, r.reports...)
	return nil
}

type memoryCacheRepo struct {
	mu        sync.Mutex
	items     map[string][]byte
	deleted   []string
	patterns  []string
	deleteErr error
	gets      int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.items, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.patterns = append(m.patterns, pattern)
	for k := range m.items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *memoryCacheRepo) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

var errStorageDown = errors.New("storage down")
