package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "tutorhub_backend/internals/features/learning/assignments/dto"
	m "tutorhub_backend/internals/features/learning/assignments/model"
	svc "tutorhub_backend/internals/features/learning/assignments/service"
	helper "tutorhub_backend/internals/helpers"
)

type AssignmentController struct {
	DB       *gorm.DB
	Service  *svc.AssignmentService
	Validate *validator.Validate
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{
		DB:       db,
		Service:  svc.NewAssignmentService(db),
		Validate: validator.New(),
	}
}

/* =========================
   Tutor: template
   ========================= */

// POST /api/t/assignment-templates
func (ctl *AssignmentController) CreateTemplate(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row := m.AssignmentTemplateModel{
		AssignmentTemplateTutorID:     tutorID,
		AssignmentTemplateSubjectID:   req.SubjectID,
		AssignmentTemplateTitle:       strings.TrimSpace(req.Title),
		AssignmentTemplateDescription: req.Description,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Template tugas dibuat", d.FromTemplateModel(&row))
}

// GET /api/t/assignment-templates
func (ctl *AssignmentController) ListTemplates(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []m.AssignmentTemplateModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("assignment_template_tutor_id = ?", tutorID).
		Order("assignment_template_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromTemplateModels(rows))
}

/* =========================
   Tutor: assign & grade
   ========================= */

// POST /api/t/assignments/assign — fan-out, balas daftar hasil per pasangan
func (ctl *AssignmentController) AssignMultiple(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.AssignMultipleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	for _, item := range req.Assignments {
		if !item.Deadline.After(item.OpenTime) {
			return helper.Error(c, fiber.StatusUnprocessableEntity, "deadline harus setelah open_time")
		}
	}

	specs := make([]svc.AssignSpec, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		specs = append(specs, svc.AssignSpec{
			TemplateID: item.TemplateID,
			OpenTime:   item.OpenTime,
			Deadline:   item.Deadline,
		})
	}

	results := ctl.Service.AssignMultiple(tutorID, req.BookingIDs, specs)

	assigned := 0
	for _, r := range results {
		if r.Assigned {
			assigned++
		}
	}
	return helper.Success(c, "Fan-out selesai", fiber.Map{
		"assigned": assigned,
		"failed":   len(results) - assigned,
		"results":  results,
	})
}

// GET /api/t/assignments/:id/submissions
func (ctl *AssignmentController) ListSubmissions(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	assignmentID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	// Pastikan tugas memang milik tutor lewat bookingnya.
	var count int64
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("assignments").
		Joins("JOIN bookings ON bookings.booking_id = assignments.assignment_booking_id").
		Where("assignments.assignment_id = ? AND bookings.booking_tutor_id = ?", assignmentID, tutorID).
		Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if count == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Tugas tidak ditemukan")
	}

	var rows []m.AssignmentSubmissionModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("assignment_submission_assignment_id = ?", assignmentID).
		Order("assignment_submission_submitted_at ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromSubmissionModels(rows))
}

// PATCH /api/t/submissions/:id/grade
func (ctl *AssignmentController) Grade(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	submissionID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var req d.GradeSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctl.Service.Grade(tutorID, submissionID, *req.Grade, strings.TrimSpace(req.Feedback), time.Now())
	if err != nil {
		return assignmentError(c, err)
	}
	return helper.Success(c, "Submission dinilai", d.FromSubmissionModel(row))
}

/* =========================
   Learner
   ========================= */

// GET /api/u/assignments?booking_id=...
func (ctl *AssignmentController) ListForLearner(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN bookings ON bookings.booking_id = assignments.assignment_booking_id").
		Where("bookings.booking_learner_id = ?", learnerID)
	if bookingID := strings.TrimSpace(c.Query("booking_id")); bookingID != "" {
		q = q.Where("assignments.assignment_booking_id = ?", bookingID)
	}

	var rows []m.AssignmentModel
	if err := q.Order("assignments.assignment_deadline ASC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromAssignmentModels(rows))
}

// POST /api/u/assignments/:id/submit
func (ctl *AssignmentController) Submit(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	assignmentID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var req d.SubmitAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctl.Service.Submit(learnerID, assignmentID, strings.TrimSpace(req.FileURL), strings.TrimSpace(req.Note), time.Now())
	if err != nil {
		return assignmentError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Submission diterima", d.FromSubmissionModel(row))
}

func assignmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svc.ErrAssignmentNotFound),
		errors.Is(err, svc.ErrTemplateNotFound),
		errors.Is(err, svc.ErrSubmissionNotFound),
		errors.Is(err, svc.ErrBookingNotFound):
		return helper.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, svc.ErrNotAssignmentTutor), errors.Is(err, svc.ErrNotAssignmentOwner):
		return helper.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, svc.ErrAssignmentNotOpen),
		errors.Is(err, svc.ErrDeadlinePassed),
		errors.Is(err, svc.ErrInvalidGrade):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
}
