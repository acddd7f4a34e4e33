package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/helpers"
)

// TermService defines the interface for term operations
type TermService interface {
	ListTerms(ctx context.Context) ([]*models.Term, error)
	CreateTerm(ctx context.Context, req *dto.TermRequest) (*models.Term, error)
	UpdateTerm(ctx context.Context, id int64, req *dto.TermRequest) (*models.Term, error)
	DeleteTerm(ctx context.Context, id int64) error
}

type termServiceImpl struct {
	termRepo repositories.ITermRepository
}

// NewTermService creates a new term service instance
func NewTermService(termRepo repositories.ITermRepository) TermService {
	return &termServiceImpl{termRepo: termRepo}
}

func validateID(id int64, what string) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid %s ID", apperrors.ErrValidationFailed, what)
	}
	return nil
}

func requireText(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", apperrors.ErrValidationFailed, field)
	}
	return value, nil
}

func (s *termServiceImpl) ListTerms(ctx context.Context) ([]*models.Term, error) {
	terms, err := s.termRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving terms: %w", err)
	}
	return terms, nil
}

func (s *termServiceImpl) CreateTerm(ctx context.Context, req *dto.TermRequest) (*models.Term, error) {
	name, err := requireText(req.Name, "name")
	if err != nil {
		return nil, err
	}
	term := &models.Term{Name: name}
	if err := s.termRepo.Create(ctx, term); err != nil {
		return nil, err
	}
	return term, nil
}

func (s *termServiceImpl) UpdateTerm(ctx context.Context, id int64, req *dto.TermRequest) (*models.Term, error) {
	if err := validateID(id, "term"); err != nil {
		return nil, err
	}
	name, err := requireText(req.Name, "name")
	if err != nil {
		return nil, err
	}
	term := &models.Term{ID: id, Name: name}
	if err := s.termRepo.Update(ctx, term); err != nil {
		return nil, err
	}
	return term, nil
}

func (s *termServiceImpl) DeleteTerm(ctx context.Context, id int64) error {
	if err := validateID(id, "term"); err != nil {
		return err
	}
	return s.termRepo.Delete(ctx, id)
}

// CourseService defines the interface for course operations
type CourseService interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req *dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	courseRepo repositories.ICourseRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.ICourseRepository) CourseService {
	return &courseServiceImpl{courseRepo: courseRepo}
}

func courseFromRequest(req *dto.CourseRequest) (*models.Course, error) {
	code, err := requireText(req.Code, "code")
	if err != nil {
		return nil, err
	}
	title, err := requireText(req.Title, "title")
	if err != nil {
		return nil, err
	}
	if req.Credits <= 0 {
		return nil, fmt.Errorf("%w: credits must be greater than 0", apperrors.ErrValidationFailed)
	}
	return &models.Course{Code: code, Title: title, Credits: req.Credits}, nil
}

func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error) {
	course, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, req *dto.CourseRequest) (*models.Course, error) {
	if err := validateID(id, "course"); err != nil {
		return nil, err
	}
	course, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	course.ID = id
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := validateID(id, "course"); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, id)
}

// SectionService defines the interface for section operations
type SectionService interface {
	ListSections(ctx context.Context) ([]*models.Section, error)
	CreateSection(ctx context.Context, req *dto.SectionRequest) (*models.Section, error)
	// UpdateSection replaces course and term; nil optional fields keep
	// their stored value.
	UpdateSection(ctx context.Context, id int64, req *dto.SectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, id int64) error
}

type sectionServiceImpl struct {
	sectionRepo repositories.ISectionRepository
	userRepo    repositories.IUserRepository
}

// NewSectionService creates a new section service instance
func NewSectionService(sectionRepo repositories.ISectionRepository, userRepo repositories.IUserRepository) SectionService {
	return &sectionServiceImpl{
		sectionRepo: sectionRepo,
		userRepo:    userRepo,
	}
}

// checkInstructor verifies that instructorID, when set, names an INSTRUCTOR.
func (s *sectionServiceImpl) checkInstructor(ctx context.Context, instructorID *int64) error {
	if instructorID == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, *instructorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return fmt.Errorf("%w: instructorId does not reference an existing user", apperrors.ErrValidationFailed)
		}
		return fmt.Errorf("error checking instructor: %w", err)
	}
	if user.Role != models.RoleInstructor {
		return fmt.Errorf("%w: instructorId must reference an INSTRUCTOR user", apperrors.ErrValidationFailed)
	}
	return nil
}

func (s *sectionServiceImpl) ListSections(ctx context.Context) ([]*models.Section, error) {
	sections, err := s.sectionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving sections: %w", err)
	}
	return sections, nil
}

func (s *sectionServiceImpl) CreateSection(ctx context.Context, req *dto.SectionRequest) (*models.Section, error) {
	if err := validateID(req.CourseID, "course"); err != nil {
		return nil, err
	}
	if err := validateID(req.TermID, "term"); err != nil {
		return nil, err
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be greater than 0", apperrors.ErrValidationFailed)
	}
	if err := s.checkInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID:     req.CourseID,
		TermID:       req.TermID,
		Room:         helpers.TrimmedOrNil(req.Room),
		Capacity:     req.Capacity,
		InstructorID: req.InstructorID,
	}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	return s.sectionRepo.GetByID(ctx, section.ID)
}

func (s *sectionServiceImpl) UpdateSection(ctx context.Context, id int64, req *dto.SectionRequest) (*models.Section, error) {
	if err := validateID(id, "section"); err != nil {
		return nil, err
	}
	if err := validateID(req.CourseID, "course"); err != nil {
		return nil, err
	}
	if err := validateID(req.TermID, "term"); err != nil {
		return nil, err
	}
	current, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.CourseID = req.CourseID
	current.TermID = req.TermID
	if req.Room != nil {
		current.Room = helpers.TrimmedOrNil(req.Room)
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be greater than 0", apperrors.ErrValidationFailed)
		}
		current.Capacity = req.Capacity
	}
	if req.InstructorID != nil {
		if err := s.checkInstructor(ctx, req.InstructorID); err != nil {
			return nil, err
		}
		current.InstructorID = req.InstructorID
	}

	if err := s.sectionRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return s.sectionRepo.GetByID(ctx, id)
}

func (s *sectionServiceImpl) DeleteSection(ctx context.Context, id int64) error {
	if err := validateID(id, "section"); err != nil {
		return err
	}
	return s.sectionRepo.Delete(ctx, id)
}
