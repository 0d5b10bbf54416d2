package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lesson-service/internal/booking"
	"lesson-service/internal/events"
	"lesson-service/internal/model"
	"lesson-service/internal/repository"
	"lesson-service/internal/view"
)

type LessonHandler struct {
	coordinator *booking.Coordinator
	views       *view.Registry
	prefs       repository.PreferenceRepository
	devices     repository.DeviceTokenRepository
	publisher   *events.SnapshotPublisher
	validate    *validator.Validate
}

func NewLessonHandler(
	coordinator *booking.Coordinator,
	views *view.Registry,
	prefs repository.PreferenceRepository,
	devices repository.DeviceTokenRepository,
	publisher *events.SnapshotPublisher,
) *LessonHandler {
	return &LessonHandler{
		coordinator: coordinator,
		views:       views,
		prefs:       prefs,
		devices:     devices,
		publisher:   publisher,
		validate:    validator.New(),
	}
}

type BookLessonRequest struct {
	TutorID   string `json:"tutor_id" validate:"required"`
	TutorName string `json:"tutor_name" validate:"required"`
	Subject   string `json:"subject" validate:"required,max=100"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
}

func (h *LessonHandler) BookLesson(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request BookLessonRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	probe := model.Lesson{Date: request.Date, Time: request.Time}
	if _, err := probe.StartAt(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid input",
			"details": "date and time must look like \"Jan 10, 2026\" and \"3:00 PM\"",
		})
	}

	lesson, err := h.coordinator.Book(c.Context(), booking.Request{
		TutorID:     request.TutorID,
		StudentID:   userID,
		TutorName:   request.TutorName,
		StudentName: GetUserNameFromClaims(c),
		Subject:     request.Subject,
		Date:        request.Date,
		Time:        request.Time,
	})
	if err != nil {
		if errors.Is(err, booking.ErrSlotTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   "Conflict",
				"message": "This time slot is unavailable. Please pick another one.",
			})
		}
		slog.ErrorContext(c.UserContext(), "Booking failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "Unavailable",
			"message": "Could not reach the scheduling service. Please try again.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(lesson)
}

func (h *LessonHandler) CancelLesson(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	lessonID := c.Params("id")
	if !h.ownsLesson(userID, lessonID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	if err := h.coordinator.Cancel(c.Context(), lessonID); err != nil {
		slog.ErrorContext(c.UserContext(), "Cancellation failed", slog.String("lesson_id", lessonID), slog.String("error", err.Error()))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "Unavailable",
			"message": "Could not cancel the lesson. Please try again.",
		})
	}

	return c.JSON(fiber.Map{"status": "cancelled"})
}

func (h *LessonHandler) MyLessons(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	return c.JSON(fiber.Map{"data": h.views.For(userID).Lessons()})
}

func (h *LessonHandler) GetPreferences(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	prefs, err := h.prefs.Preferences(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load preferences"})
	}
	return c.JSON(prefs)
}

type UpdatePreferencesRequest struct {
	WeekBefore bool `json:"week_before"`
	DayBefore  bool `json:"day_before"`
	HourBefore bool `json:"hour_before"`
}

func (h *LessonHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request UpdatePreferencesRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	prefs := model.NotificationPreferences{
		UserID:     userID,
		WeekBefore: request.WeekBefore,
		DayBefore:  request.DayBefore,
		HourBefore: request.HourBefore,
	}
	if err := h.prefs.Upsert(c.Context(), prefs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not save preferences"})
	}

	go h.publisher.PublishPreferencesUpdated(userID)

	return c.JSON(prefs)
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
}

func (h *LessonHandler) RegisterDevice(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request RegisterDeviceRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	if err := h.devices.Register(c.Context(), userID, request.DeviceToken); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register device"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "registered"})
}

func (h *LessonHandler) ownsLesson(userID, lessonID string) bool {
	for _, l := range h.views.For(userID).Lessons() {
		if l.ID == lessonID {
			return true
		}
	}
	return false
}
