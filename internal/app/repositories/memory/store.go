// Package memory implements every repository interface on in-process maps.
// It backs the "memory" database driver and the service and router tests,
// and mirrors the Postgres schema's unique keys and referential actions.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
)

// Store holds all tables behind a single lock.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq map[string]int64

	terms         map[int64]models.Term
	courses       map[int64]models.Course
	sections      map[int64]models.Section
	users         map[int64]models.User
	enrollments   map[int64]models.Enrollment
	notifications map[int64]models.Notification
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:           time.Now,
		seq:           map[string]int64{},
		terms:         map[int64]models.Term{},
		courses:       map[int64]models.Course{},
		sections:      map[int64]models.Section{},
		users:         map[int64]models.User{},
		enrollments:   map[int64]models.Enrollment{},
		notifications: map[int64]models.Notification{},
	}
}

// NewRepositories returns repositories backed by a fresh store.
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

// Repositories exposes s through the repository interfaces.
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		TermRepository:         &TermRepository{s},
		CourseRepository:       &CourseRepository{s},
		SectionRepository:      &SectionRepository{s},
		UserRepository:         &UserRepository{s},
		EnrollmentRepository:   &EnrollmentRepository{s},
		NotificationRepository: &NotificationRepository{s},
		MetricsRepository:      &MetricsRepository{s},
	}
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// timestamp returns a strictly increasing creation time so "newest first"
// ordering is stable even when the clock does not advance between inserts.
func (s *Store) timestamp(table string) time.Time {
	return s.now().UTC().Add(time.Duration(s.seq[table]) * time.Microsecond)
}

func sortedIDs[V any](m map[int64]V, desc bool) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if desc {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (s *Store) enrolledCount(sectionID int64) int {
	n := 0
	for _, e := range s.enrollments {
		if e.SectionID == sectionID && e.Status == models.StatusEnrolled {
			n++
		}
	}
	return n
}

func (s *Store) sectionFull(section models.Section) bool {
	if !section.HasCapacity() {
		return false
	}
	return s.enrolledCount(section.ID) >= *section.Capacity
}

// joinedSection returns a copy of the section with its relations attached.
func (s *Store) joinedSection(id int64) *models.Section {
	section, ok := s.sections[id]
	if !ok {
		return nil
	}
	course := s.courses[section.CourseID]
	term := s.terms[section.TermID]
	section.Course = &course
	section.Term = &term
	section.EnrolledCount = s.enrolledCount(id)
	return &section
}

func userCopy(u models.User) *models.User {
	u.PasswordHash = cloneString(u.PasswordHash)
	return &u
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
