package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "tutorhub_backend/internals/features/bookings/bookings/dto"
	m "tutorhub_backend/internals/features/bookings/bookings/model"
	svc "tutorhub_backend/internals/features/bookings/bookings/service"
	walletService "tutorhub_backend/internals/features/payment/wallet/service"
	helper "tutorhub_backend/internals/helpers"
)

type BookingController struct {
	DB       *gorm.DB
	Service  *svc.BookingService
	Validate *validator.Validate
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{
		DB:       db,
		Service:  svc.NewBookingService(db),
		Validate: validator.New(),
	}
}

/* =========================
   Learner side
   ========================= */

// POST /api/u/bookings
func (ctl *BookingController) Create(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	b, err := ctl.Service.CreateBooking(learnerID, req.ToInput())
	if err != nil {
		return serviceError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Booking dibuat, deposit ditahan", d.FromModel(b))
}

// GET /api/u/bookings — riwayat booking learner
func (ctl *BookingController) ListMine(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.list(c, "booking_learner_id", learnerID)
}

// POST /api/u/bookings/:id/cancel — hanya selama pending
func (ctl *BookingController) CancelByLearner(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bookingID, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.VersionedRequest
	_ = c.BodyParser(&req) // body opsional

	b, err := ctl.Service.CancelByLearner(learnerID, bookingID, req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	return helper.Success(c, "Booking dibatalkan, deposit dikembalikan", d.FromModel(b))
}

// POST /api/u/bookings/:id/pay-monthly
func (ctl *BookingController) PayMonthly(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bookingID, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.VersionedRequest
	_ = c.BodyParser(&req)

	b, err := ctl.Service.PayMonthly(learnerID, bookingID, time.Now(), req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	return helper.Success(c, "Pembayaran bulanan berhasil", d.FromModel(b))
}

// POST /api/u/bookings/:id/report
func (ctl *BookingController) Report(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bookingID, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.ReportBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	b, err := ctl.Service.ReportBooking(learnerID, bookingID, strings.TrimSpace(req.Reason))
	if err != nil {
		return serviceError(c, err)
	}
	return helper.Success(c, "Booking dilaporkan", d.FromModel(b))
}

/* =========================
   Tutor side
   ========================= */

// GET /api/t/bookings — booking masuk untuk tutor
func (ctl *BookingController) ListForTutor(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.list(c, "booking_tutor_id", tutorID)
}

// POST /api/t/bookings/:id/respond {action: approve|rejected}
func (ctl *BookingController) Respond(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bookingID, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.RespondBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	b, err := ctl.Service.RespondBooking(tutorID, bookingID, req.Action, req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	msg := "Booking disetujui, jadwal sesi dibuat"
	if req.Action == svc.ActionReject {
		msg = "Booking ditolak, deposit dikembalikan ke learner"
	}
	return helper.Success(c, msg, d.FromModel(b))
}

// POST /api/t/bookings/:id/cancel {reason}
func (ctl *BookingController) CancelByTutor(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bookingID, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	b, err := ctl.Service.CancelByTutor(tutorID, bookingID, strings.TrimSpace(req.Reason), req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	return helper.Success(c, "Booking dibatalkan", d.FromModel(b))
}

// POST /api/t/bookings/:id/finish
func (ctl *BookingController) Finish(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	bookingID, err := parseIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.VersionedRequest
	_ = c.BodyParser(&req)

	b, err := ctl.Service.FinishBooking(tutorID, bookingID, req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	return helper.Success(c, "Booking selesai, dana escrow dilepas", d.FromModel(b))
}

/* =========================
   Shared
   ========================= */

func (ctl *BookingController) list(c *fiber.Ctx, ownerCol string, ownerID uuid.UUID) error {
	p := helper.ParsePagination(c, "created_at", "desc")
	allowed := map[string]string{
		"created_at": "booking_created_at",
		"status":     "booking_status",
	}
	orderClause, err := p.SafeOrderClause(allowed, "created_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	db := ctl.DB.WithContext(c.UserContext()).Model(&m.BookingModel{}).Where(ownerCol+" = ?", ownerID)
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		db = db.Where("booking_status = ?", st)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []m.BookingModel
	if err := db.Order(orderClause).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", fiber.Map{
		"bookings": d.FromModels(rows),
		"meta":     helper.BuildMeta(total, p),
	})
}

func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "id invalid")
	}
	return id, nil
}

// serviceError memetakan sentinel error service ke status HTTP.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svc.ErrBookingNotFound):
		return helper.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, svc.ErrNotOwner):
		return helper.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, svc.ErrInvalidTransition),
		errors.Is(err, svc.ErrAllMonthsPaid),
		errors.Is(err, svc.ErrPaymentNotDue),
		errors.Is(err, svc.ErrReasonRequired):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, svc.ErrStaleVersion):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, svc.ErrAvailabilityGone):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, walletService.ErrInsufficientBalance):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return helper.FromFiberError(c, err)
	}
}
