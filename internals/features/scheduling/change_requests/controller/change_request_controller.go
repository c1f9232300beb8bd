package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "tutorhub_backend/internals/features/scheduling/change_requests/dto"
	m "tutorhub_backend/internals/features/scheduling/change_requests/model"
	svc "tutorhub_backend/internals/features/scheduling/change_requests/service"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
	helper "tutorhub_backend/internals/helpers"
)

type ChangeRequestController struct {
	DB       *gorm.DB
	Service  *svc.ChangeRequestService
	Validate *validator.Validate
}

func NewChangeRequestController(db *gorm.DB) *ChangeRequestController {
	return &ChangeRequestController{
		DB:       db,
		Service:  svc.NewChangeRequestService(db),
		Validate: validator.New(),
	}
}

/* =========================
   Learner
   ========================= */

// POST /api/u/change-requests
func (ctl *ChangeRequestController) Create(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CreateChangeRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	newDate, err := req.ParsedDate()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "new_date invalid (YYYY-MM-DD)")
	}

	row, err := ctl.Service.Create(learnerID, req.ScheduleID, newDate, req.NewBand, strings.TrimSpace(req.Reason))
	if err != nil {
		return changeRequestError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Permintaan pindah jadwal dikirim", d.FromModel(row))
}

// GET /api/u/change-requests — request milik learner
func (ctl *ChangeRequestController) ListMine(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []m.ChangeRequestModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("change_request_learner_id = ?", learnerID).
		Order("change_request_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromModels(rows))
}

/* =========================
   Tutor
   ========================= */

// GET /api/t/change-requests — pending request ke slot milik tutor
func (ctl *ChangeRequestController) ListForTutor(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []m.ChangeRequestModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN schedule_slots ON schedule_slots.schedule_slot_id = change_requests.change_request_schedule_id").
		Where("schedule_slots.schedule_slot_tutor_id = ?", tutorID).
		Where("change_requests.change_request_status = ?", m.ChangeRequestStatusPending).
		Order("change_requests.change_request_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromModels(rows))
}

// POST /api/t/change-requests/:id/accept
func (ctl *ChangeRequestController) Accept(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	row, err := ctl.Service.Accept(tutorID, requestID)
	if err != nil {
		return changeRequestError(c, err)
	}

	// Sertakan slot hasil pindahan biar client tidak perlu refetch.
	var slot slotModel.ScheduleSlotModel
	_ = ctl.DB.WithContext(c.UserContext()).
		Where("schedule_slot_id = ?", row.ChangeRequestScheduleID).
		First(&slot).Error

	return helper.Success(c, "Pindah jadwal disetujui", fiber.Map{
		"change_request": d.FromModel(row),
		"schedule":       slot,
	})
}

// POST /api/t/change-requests/:id/reject
func (ctl *ChangeRequestController) Reject(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	row, err := ctl.Service.Reject(tutorID, requestID)
	if err != nil {
		return changeRequestError(c, err)
	}
	return helper.Success(c, "Pindah jadwal ditolak", d.FromModel(row))
}

func changeRequestError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svc.ErrRequestNotFound), errors.Is(err, svc.ErrSlotNotFound):
		return helper.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, svc.ErrNotSlotOwner), errors.Is(err, svc.ErrNotSlotTutor):
		return helper.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, svc.ErrRequestResolved), errors.Is(err, svc.ErrSlotConflict):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, svc.ErrSlotNotApproved), errors.Is(err, svc.ErrSameSlot), errors.Is(err, svc.ErrInvalidBand):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
}
