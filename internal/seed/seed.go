package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
)

type defaultCourse struct {
	code     string
	title    string
	room     string
	capacity int
}

type defaultUser struct {
	name     string
	email    string
	role     models.RoleType
	password string
}

const defaultTerm = "2025 Fall"

var defaultCourses = []defaultCourse{
	{code: "CSC 301", title: "Database Systems", room: "B101", capacity: 60},
	{code: "CSC 305", title: "Software Engineering", room: "B102", capacity: 50},
}

var defaultUsers = []defaultUser{
	{name: "Sample Student", email: "student@example.com", role: models.RoleStudent, password: "password123"},
	{name: "Admin User", email: "admin@example.com", role: models.RoleAdmin, password: "admin123"},
}

// CreateDefaultData creates the demo term, courses, sections and accounts if
// they don't exist. Running it again changes nothing.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (term, courses, sections, users)...")
	var finalErr error

	term, err := ensureTerm(ctx, repos.TermRepository, defaultTerm)
	if err != nil {
		lgr.Error().Err(err).Str("term", defaultTerm).Msg("Error creating default term")
		finalErr = errors.Join(finalErr, err)
	}

	for _, dc := range defaultCourses {
		course, err := ensureCourse(ctx, repos.CourseRepository, dc)
		if err != nil {
			lgr.Error().Err(err).Str("code", dc.code).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if term == nil {
			continue
		}
		if err := ensureSection(ctx, repos.SectionRepository, course.ID, term.ID, dc); err != nil {
			lgr.Error().Err(err).Str("code", dc.code).Str("room", dc.room).Msg("Error creating default section")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, du := range defaultUsers {
		if err := ensureUser(ctx, repos.UserRepository, du); err != nil {
			lgr.Error().Err(err).Str("email", du.email).Msg("Error creating default user")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data is in place.")
	}
	return finalErr
}

func ensureTerm(ctx context.Context, repo repositories.ITermRepository, name string) (*models.Term, error) {
	term := &models.Term{Name: name}
	err := repo.Create(ctx, term)
	if err == nil {
		return term, nil
	}
	if !errors.Is(err, apperrors.ErrTermAlreadyExists) {
		return nil, err
	}

	terms, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range terms {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("term %q reported as existing but not listed", name)
}

func ensureCourse(ctx context.Context, repo repositories.ICourseRepository, dc defaultCourse) (*models.Course, error) {
	course := &models.Course{Code: dc.code, Title: dc.title, Credits: 3}
	err := repo.Create(ctx, course)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, apperrors.ErrCourseAlreadyExists) {
		return nil, err
	}

	courses, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if c.Code == dc.code {
			return c, nil
		}
	}
	return nil, fmt.Errorf("course %q reported as existing but not listed", dc.code)
}

// ensureSection treats (course, term, room) as the identity of a seeded section.
func ensureSection(ctx context.Context, repo repositories.ISectionRepository, courseID, termID int64, dc defaultCourse) error {
	sections, err := repo.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range sections {
		if s.CourseID == courseID && s.TermID == termID && s.Room != nil && *s.Room == dc.room {
			return nil
		}
	}

	room, capacity := dc.room, dc.capacity
	return repo.Create(ctx, &models.Section{
		CourseID: courseID,
		TermID:   termID,
		Room:     &room,
		Capacity: &capacity,
	})
}

func ensureUser(ctx context.Context, repo repositories.IUserRepository, du defaultUser) error {
	_, err := repo.GetByEmail(ctx, du.email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(du.password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err = repo.Create(ctx, &models.User{
		Name:         du.name,
		Email:        du.email,
		Role:         du.role,
		PasswordHash: &hash,
	})
	if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return nil
	}
	return err
}
