package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "tutorhub_backend/internals/features/scheduling/schedule_slots/dto"
	m "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
	svc "tutorhub_backend/internals/features/scheduling/schedule_slots/service"
	helper "tutorhub_backend/internals/helpers"
)

type ScheduleSlotController struct {
	DB       *gorm.DB
	Service  *svc.AttendanceService
	Validate *validator.Validate
}

func NewScheduleSlotController(db *gorm.DB) *ScheduleSlotController {
	return &ScheduleSlotController{
		DB:       db,
		Service:  svc.NewAttendanceService(db),
		Validate: validator.New(),
	}
}

/* =========================
   Query
   ========================= */

// GET /schedules?booking_id=... | ?week_start=YYYY-MM-DD
// Tanpa filter: semua slot milik caller (sebagai tutor atau learner).
func (ctl *ScheduleSlotController) List(c *fiber.Ctx) error {
	callerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext()).Model(&m.ScheduleSlotModel{}).
		Where("schedule_slot_tutor_id = ? OR schedule_slot_learner_id = ?", callerID, callerID)

	if raw := strings.TrimSpace(c.Query("booking_id")); raw != "" {
		bookingID, perr := uuid.Parse(raw)
		if perr != nil {
			return helper.Error(c, fiber.StatusBadRequest, "booking_id invalid")
		}
		db = db.Where("schedule_slot_booking_id = ?", bookingID)
	}

	if raw := strings.TrimSpace(c.Query("week_start")); raw != "" {
		weekStart, perr := time.Parse("2006-01-02", raw)
		if perr != nil {
			return helper.Error(c, fiber.StatusBadRequest, "week_start invalid (YYYY-MM-DD)")
		}
		if weekStart.Weekday() != time.Monday {
			return helper.Error(c, fiber.StatusBadRequest, "week_start harus hari Senin")
		}
		db = db.Where("schedule_slot_date BETWEEN ? AND ?", weekStart, weekStart.AddDate(0, 0, 6))
	}

	var rows []m.ScheduleSlotModel
	if err := db.Order("schedule_slot_date ASC, schedule_slot_band ASC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromModels(rows))
}

/* =========================
   Mutasi: attendance
   ========================= */

// PATCH /schedules/:id/attendance {attended, version?}
func (ctl *ScheduleSlotController) MarkAttendance(c *fiber.Ctx) error {
	callerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	slotID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var req d.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	slot, progress, err := ctl.Service.MarkAttendance(callerID, slotID, *req.Attended, time.Now(), req.Version)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrSlotNotFound):
			return helper.Error(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, svc.ErrNotParticipant):
			return helper.Error(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, svc.ErrSlotNotApproved), errors.Is(err, svc.ErrSlotNotStarted):
			return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, svc.ErrStaleVersion):
			return helper.Error(c, fiber.StatusConflict, err.Error())
		default:
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.Success(c, "Absensi tersimpan", fiber.Map{
		"schedule": d.FromModel(slot),
		"progress": progress,
	})
}
