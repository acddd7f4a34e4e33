package memory

import (
	"context"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// UserRepository is the in-memory IUserRepository.
type UserRepository struct{ s *Store }

func (r *UserRepository) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []*models.User{}
	for _, id := range sortedIDs(r.s.users, true) {
		users = append(users, userCopy(r.s.users[id]))
	}
	return users, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return userCopy(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return userCopy(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *UserRepository) emailTaken(email string, except int64) bool {
	for id, u := range r.s.users {
		if id != except && normalize(u.Email) == normalize(email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return apperrors.ErrEmailAlreadyExists
	}
	user.ID = r.s.nextID("users")
	user.CreatedAt = r.s.timestamp("users")
	r.s.users[user.ID] = *userCopy(*user)
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return apperrors.ErrEmailAlreadyExists
	}

	current.Name = user.Name
	current.Email = user.Email
	current.Role = user.Role
	if user.PasswordHash != nil {
		current.PasswordHash = cloneString(user.PasswordHash)
	}
	r.s.users[user.ID] = current
	user.CreatedAt = current.CreatedAt
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.s.users, id)

	for eid, e := range r.s.enrollments {
		if e.UserID == id {
			delete(r.s.enrollments, eid)
		}
	}
	for nid, n := range r.s.notifications {
		if n.UserID == id {
			delete(r.s.notifications, nid)
		}
	}
	for sid, section := range r.s.sections {
		if section.InstructorID != nil && *section.InstructorID == id {
			section.InstructorID = nil
			r.s.sections[sid] = section
		}
	}
	return nil
}

func (r *UserRepository) ListIDsByRole(_ context.Context, role models.RoleType) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.idsByRole(role), nil
}

func (s *Store) idsByRole(role models.RoleType) []int64 {
	ids := []int64{}
	for _, id := range sortedIDs(s.users, false) {
		if s.users[id].Role == role {
			ids = append(ids, id)
		}
	}
	return ids
}
