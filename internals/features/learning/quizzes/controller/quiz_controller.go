package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	d "tutorhub_backend/internals/features/learning/quizzes/dto"
	m "tutorhub_backend/internals/features/learning/quizzes/model"
	svc "tutorhub_backend/internals/features/learning/quizzes/service"
	helper "tutorhub_backend/internals/helpers"
)

type QuizController struct {
	DB       *gorm.DB
	Service  *svc.QuizService
	Validate *validator.Validate
}

func NewQuizController(db *gorm.DB) *QuizController {
	return &QuizController{
		DB:       db,
		Service:  svc.NewQuizService(db),
		Validate: validator.New(),
	}
}

/* =========================
   Tutor: template quiz
   ========================= */

// POST /api/t/quiz-storages
func (ctl *QuizController) CreateStorage(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CreateQuizStorageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row := m.QuizStorageModel{
		QuizStorageTutorID:     tutorID,
		QuizStorageSubjectID:   req.SubjectID,
		QuizStorageTopic:       strings.TrimSpace(req.Topic),
		QuizStorageTitle:       strings.TrimSpace(req.Title),
		QuizStorageQuestionIDs: pq.StringArray(req.QuestionIDs),
		QuizStorageDuration:    req.Duration,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Template quiz dibuat", d.FromStorageModel(&row))
}

// GET /api/t/quiz-storages
func (ctl *QuizController) ListStorages(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Where("quiz_storage_tutor_id = ?", tutorID)
	if subject := strings.TrimSpace(c.Query("subject_id")); subject != "" {
		q = q.Where("quiz_storage_subject_id = ?", subject)
	}

	var rows []m.QuizStorageModel
	if err := q.Order("quiz_storage_created_at DESC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromStorageModels(rows))
}

// DELETE /api/t/quiz-storages/:id
func (ctl *QuizController) DeleteStorage(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("quiz_storage_id = ? AND quiz_storage_tutor_id = ?", id, tutorID).
		Delete(&m.QuizStorageModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Template quiz tidak ditemukan")
	}
	return helper.Success(c, "Template quiz dihapus", nil)
}

/* =========================
   Tutor: live quiz
   ========================= */

// POST /api/t/quizzes — instansiasi template untuk satu booking
func (ctl *QuizController) Create(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctl.Service.CreateFromStorage(tutorID, svc.CreateQuizInput{
		QuizStorageID: req.QuizStorageID,
		BookingID:     req.BookingID,
		OpenTime:      req.OpenTime,
		CloseTime:     req.CloseTime,
		MaxAttempts:   req.MaxAttempts,
		Title:         req.Title,
		Duration:      req.Duration,
	})
	if err != nil {
		return quizError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Quiz dibuat", d.FromQuizModel(row))
}

// GET /api/t/quizzes?booking_id=...
func (ctl *QuizController) ListForTutor(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN bookings ON bookings.booking_id = quizzes.quiz_booking_id").
		Where("bookings.booking_tutor_id = ?", tutorID)
	if bookingID := strings.TrimSpace(c.Query("booking_id")); bookingID != "" {
		q = q.Where("quizzes.quiz_booking_id = ?", bookingID)
	}

	var rows []m.QuizModel
	if err := q.Order("quizzes.quiz_created_at DESC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]d.QuizResponse, 0, len(rows))
	for i := range rows {
		out = append(out, d.FromQuizModel(&rows[i]))
	}
	return helper.Success(c, "OK", out)
}

// GET /api/t/quizzes/:id/attempts — hasil pengerjaan learner
func (ctl *QuizController) ListAttemptsForTutor(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	quizID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var quiz m.QuizModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("quiz_id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Quiz tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	var booking bookingModel.BookingModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("booking_id = ?", quiz.QuizBookingID).First(&booking).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if booking.BookingTutorID != tutorID {
		return helper.Error(c, fiber.StatusForbidden, "Bukan tutor dari quiz ini")
	}

	var rows []m.QuizAttemptModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("quiz_attempt_quiz_id = ?", quizID).
		Order("quiz_attempt_started_at ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromAttemptModels(rows))
}

/* =========================
   Learner
   ========================= */

// GET /api/u/quizzes?booking_id=... — quiz learner + status derived
func (ctl *QuizController) ListForLearner(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN bookings ON bookings.booking_id = quizzes.quiz_booking_id").
		Where("bookings.booking_learner_id = ?", learnerID)
	if bookingID := strings.TrimSpace(c.Query("booking_id")); bookingID != "" {
		q = q.Where("quizzes.quiz_booking_id = ?", bookingID)
	}

	var rows []m.QuizModel
	if err := q.Order("quizzes.quiz_open_time ASC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	out := make([]d.QuizResponse, 0, len(rows))
	for i := range rows {
		attempts, err := ctl.Service.AttemptCount(ctl.DB.WithContext(c.UserContext()), rows[i].QuizID, learnerID)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
		out = append(out, d.FromQuizModelWithStatus(&rows[i], now, attempts))
	}
	return helper.Success(c, "OK", out)
}

// POST /api/u/quizzes/:id/attempts
func (ctl *QuizController) StartAttempt(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	quizID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	row, err := ctl.Service.StartAttempt(learnerID, quizID, time.Now())
	if err != nil {
		return quizError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Attempt dimulai", d.FromAttemptModel(row))
}

// POST /api/u/quiz-attempts/:id/submit
func (ctl *QuizController) SubmitAttempt(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var req d.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctl.Service.SubmitAttempt(learnerID, attemptID, req.Answers, time.Now())
	if err != nil {
		return quizError(c, err)
	}
	return helper.Success(c, "Attempt dinilai", d.FromAttemptModel(row))
}

func quizError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svc.ErrQuizNotFound),
		errors.Is(err, svc.ErrQuizStorageNotFound),
		errors.Is(err, svc.ErrBookingNotFound),
		errors.Is(err, svc.ErrAttemptNotFound):
		return helper.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, svc.ErrNotQuizTutor), errors.Is(err, svc.ErrNotQuizLearner):
		return helper.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, svc.ErrAttemptFinished), errors.Is(err, svc.ErrAttemptsExhausted):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, svc.ErrQuizNotOpen),
		errors.Is(err, svc.ErrQuizStorageEmpty),
		errors.Is(err, svc.ErrBookingNotActive),
		errors.Is(err, svc.ErrAnswerCountMismatch),
		errors.Is(err, svc.ErrInvalidAnswerIndex):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
}
