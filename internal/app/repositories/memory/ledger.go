package memory

import (
	"context"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// EnrollmentRepository is the in-memory IEnrollmentRepository. The store
// lock plays the part of the section row lock.
type EnrollmentRepository struct{ s *Store }

func (r *EnrollmentRepository) joined(e models.Enrollment, withUser bool) *models.Enrollment {
	e.Section = r.s.joinedSection(e.SectionID)
	if withUser {
		if u, ok := r.s.users[e.UserID]; ok {
			user := userCopy(u)
			user.PasswordHash = nil
			e.User = user
		}
	}
	return &e
}

func (r *EnrollmentRepository) List(_ context.Context) ([]*models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	enrollments := []*models.Enrollment{}
	for _, id := range sortedIDs(r.s.enrollments, true) {
		enrollments = append(enrollments, r.joined(r.s.enrollments[id], true))
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) ListByUser(_ context.Context, userID int64) ([]*models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	enrollments := []*models.Enrollment{}
	for _, id := range sortedIDs(r.s.enrollments, true) {
		if e := r.s.enrollments[id]; e.UserID == userID {
			enrollments = append(enrollments, r.joined(e, false))
		}
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return r.joined(e, true), nil
}

func (r *EnrollmentRepository) Create(_ context.Context, userID, sectionID int64, waitlistWhenFull bool) (*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	section, ok := r.s.sections[sectionID]
	if !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}

	status := models.StatusEnrolled
	if r.s.sectionFull(section) {
		if !waitlistWhenFull {
			return nil, apperrors.ErrSectionFull
		}
		status = models.StatusWaitlisted
	}

	e := models.Enrollment{
		ID:        r.s.nextID("enrollments"),
		UserID:    userID,
		SectionID: sectionID,
		Status:    status,
	}
	e.CreatedAt = r.s.timestamp("enrollments")
	r.s.enrollments[e.ID] = e
	return &e, nil
}

func (r *EnrollmentRepository) UpdateStatus(_ context.Context, id int64, status models.EnrollmentStatus) (*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	if e.Status == status {
		return &e, nil
	}
	if e.Status == models.StatusDropped {
		return nil, apperrors.ErrEnrollmentDropped
	}
	if status == models.StatusEnrolled {
		if section, ok := r.s.sections[e.SectionID]; ok && r.s.sectionFull(section) {
			return nil, apperrors.ErrSectionFull
		}
	}

	e.Status = status
	r.s.enrollments[id] = e
	return &e, nil
}

func (r *EnrollmentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(r.s.enrollments, id)
	return nil
}
