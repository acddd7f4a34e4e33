package memory

import (
	"context"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// NotificationRepository is the in-memory INotificationRepository.
type NotificationRepository struct{ s *Store }

func (r *NotificationRepository) insert(n *models.Notification) {
	n.ID = r.s.nextID("notifications")
	n.Read = false
	n.CreatedAt = r.s.timestamp("notifications")
	r.s.notifications[n.ID] = *n
}

func (r *NotificationRepository) Create(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[n.UserID]; !ok {
		return apperrors.ErrUserNotFound
	}
	r.insert(n)
	return nil
}

func (r *NotificationRepository) CreateForRole(_ context.Context, role models.RoleType, draft *models.Notification) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := r.s.idsByRole(role)
	for _, userID := range ids {
		n := *draft
		n.UserID = userID
		r.insert(&n)
	}
	return len(ids), nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, apperrors.ErrNotificationNotFound
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID int64) ([]*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	notifications := []*models.Notification{}
	for _, id := range sortedIDs(r.s.notifications, true) {
		if n := r.s.notifications[id]; n.UserID == userID {
			notifications = append(notifications, &n)
		}
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id int64) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, apperrors.ErrNotificationNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return &n, nil
}

// MetricsRepository is the in-memory IMetricsRepository.
type MetricsRepository struct{ s *Store }

func (r *MetricsRepository) Snapshot(_ context.Context) (*models.MetricsSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snapshot := &models.MetricsSnapshot{
		UsersByRole:         map[models.RoleType]int{},
		EnrollmentsByStatus: map[models.EnrollmentStatus]int{},
		TotalCourses:        len(r.s.courses),
		ActiveTerms:         len(r.s.terms),
	}
	for _, id := range sortedIDs(r.s.sections, false) {
		section := r.s.sections[id]
		snapshot.Sections = append(snapshot.Sections, models.SectionLoad{
			SectionID:  id,
			CourseCode: r.s.courses[section.CourseID].Code,
			Capacity:   cloneInt(section.Capacity),
			Enrolled:   r.s.enrolledCount(id),
		})
	}
	for _, u := range r.s.users {
		snapshot.UsersByRole[u.Role]++
	}
	for _, e := range r.s.enrollments {
		snapshot.EnrollmentsByStatus[e.Status]++
	}
	return snapshot, nil
}
