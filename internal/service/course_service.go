package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mood-booster/internal/model"
	"mood-booster/internal/repository"
)

// CourseInput represents data required to create a schedule entry.
type CourseInput struct {
	UserID    string
	Name      string
	Lecturer  string
	Room      string
	Day       string
	StartTime string
	EndTime   string
}

// CourseService wraps weekly-schedule business logic.
type CourseService struct {
	courseRepo   *repository.CourseRepository
	reminderRepo *repository.ReminderRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, reminderRepo *repository.ReminderRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo, reminderRepo: reminderRepo}
}

func (s *CourseService) CreateCourse(ctx context.Context, input CourseInput) (*model.Course, error) {
	if input.Name == "" || input.Lecturer == "" || input.Room == "" ||
		input.Day == "" || input.StartTime == "" || input.EndTime == "" {
		return nil, invalidf("name, lecturer, room, day, startTime and endTime are required")
	}
	if !model.ValidWeekday(input.Day) {
		return nil, invalidf("unknown day %q", input.Day)
	}

	course := model.Course{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Name:      input.Name,
		Lecturer:  input.Lecturer,
		Room:      input.Room,
		Day:       input.Day,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}

	if err := s.courseRepo.Create(ctx, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.courseRepo.List(ctx)
}

// DeleteCourse removes a course and cancels its not-yet-dispatched reminders.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	if _, err := s.courseRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.reminderRepo.DeletePendingByTask(ctx, id)
}
