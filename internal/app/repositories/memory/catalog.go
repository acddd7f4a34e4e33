package memory

import (
	"context"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// TermRepository is the in-memory ITermRepository.
type TermRepository struct{ s *Store }

func (r *TermRepository) List(_ context.Context) ([]*models.Term, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	terms := []*models.Term{}
	for _, id := range sortedIDs(r.s.terms, true) {
		t := r.s.terms[id]
		terms = append(terms, &t)
	}
	return terms, nil
}

func (r *TermRepository) GetByID(_ context.Context, id int64) (*models.Term, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.terms[id]
	if !ok {
		return nil, apperrors.ErrTermNotFound
	}
	return &t, nil
}

func (r *TermRepository) nameTaken(name string, except int64) bool {
	for id, t := range r.s.terms {
		if id != except && t.Name == name {
			return true
		}
	}
	return false
}

func (r *TermRepository) Create(_ context.Context, term *models.Term) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(term.Name, 0) {
		return apperrors.ErrTermAlreadyExists
	}
	term.ID = r.s.nextID("terms")
	r.s.terms[term.ID] = *term
	return nil
}

func (r *TermRepository) Update(_ context.Context, term *models.Term) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.terms[term.ID]; !ok {
		return apperrors.ErrTermNotFound
	}
	if r.nameTaken(term.Name, term.ID) {
		return apperrors.ErrTermAlreadyExists
	}
	r.s.terms[term.ID] = *term
	return nil
}

func (r *TermRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.terms[id]; !ok {
		return apperrors.ErrTermNotFound
	}
	for _, section := range r.s.sections {
		if section.TermID == id {
			return apperrors.ErrTermHasSections
		}
	}
	delete(r.s.terms, id)
	return nil
}

// CourseRepository is the in-memory ICourseRepository.
type CourseRepository struct{ s *Store }

func (r *CourseRepository) List(_ context.Context) ([]*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	courses := []*models.Course{}
	for _, id := range sortedIDs(r.s.courses, true) {
		c := r.s.courses[id]
		courses = append(courses, &c)
	}
	return courses, nil
}

func (r *CourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &c, nil
}

func (r *CourseRepository) codeTaken(code string, except int64) bool {
	for id, c := range r.s.courses {
		if id != except && c.Code == code {
			return true
		}
	}
	return false
}

func (r *CourseRepository) Create(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.codeTaken(course.Code, 0) {
		return apperrors.ErrCourseAlreadyExists
	}
	course.ID = r.s.nextID("courses")
	r.s.courses[course.ID] = *course
	return nil
}

func (r *CourseRepository) Update(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if r.codeTaken(course.Code, course.ID) {
		return apperrors.ErrCourseAlreadyExists
	}
	r.s.courses[course.ID] = *course
	return nil
}

func (r *CourseRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, section := range r.s.sections {
		if section.CourseID == id {
			return apperrors.ErrCourseHasSections
		}
	}
	delete(r.s.courses, id)
	return nil
}

// SectionRepository is the in-memory ISectionRepository.
type SectionRepository struct{ s *Store }

func (r *SectionRepository) List(_ context.Context) ([]*models.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sections := []*models.Section{}
	for _, id := range sortedIDs(r.s.sections, true) {
		sections = append(sections, r.s.joinedSection(id))
	}
	return sections, nil
}

func (r *SectionRepository) GetByID(_ context.Context, id int64) (*models.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	section := r.s.joinedSection(id)
	if section == nil {
		return nil, apperrors.ErrSectionNotFound
	}
	return section, nil
}

func (r *SectionRepository) checkParents(section *models.Section) error {
	if _, ok := r.s.courses[section.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if _, ok := r.s.terms[section.TermID]; !ok {
		return apperrors.ErrTermNotFound
	}
	if section.InstructorID != nil {
		if _, ok := r.s.users[*section.InstructorID]; !ok {
			return apperrors.ErrUserNotFound
		}
	}
	return nil
}

func stored(section *models.Section) models.Section {
	return models.Section{
		ID:           section.ID,
		CourseID:     section.CourseID,
		TermID:       section.TermID,
		Room:         cloneString(section.Room),
		Capacity:     cloneInt(section.Capacity),
		InstructorID: cloneInt64(section.InstructorID),
	}
}

func (r *SectionRepository) Create(_ context.Context, section *models.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkParents(section); err != nil {
		return err
	}
	section.ID = r.s.nextID("sections")
	r.s.sections[section.ID] = stored(section)
	return nil
}

func (r *SectionRepository) Update(_ context.Context, section *models.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sections[section.ID]; !ok {
		return apperrors.ErrSectionNotFound
	}
	if err := r.checkParents(section); err != nil {
		return err
	}
	r.s.sections[section.ID] = stored(section)
	return nil
}

func (r *SectionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sections[id]; !ok {
		return apperrors.ErrSectionNotFound
	}
	delete(r.s.sections, id)
	for eid, e := range r.s.enrollments {
		if e.SectionID == id {
			delete(r.s.enrollments, eid)
		}
	}
	return nil
}
