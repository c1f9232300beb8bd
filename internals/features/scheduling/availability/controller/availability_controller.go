package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	d "tutorhub_backend/internals/features/scheduling/availability/dto"
	m "tutorhub_backend/internals/features/scheduling/availability/model"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
	helper "tutorhub_backend/internals/helpers"
)

type AvailabilityController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAvailabilityController(db *gorm.DB) *AvailabilityController {
	return &AvailabilityController{DB: db, Validate: validator.New()}
}

/* =========================
   Query: List per minggu
   ========================= */

// GET /availability?tutor_id=...&week_start=YYYY-MM-DD
// week_start wajib Senin. Minggu tanpa baris = belum dikonfigurasi.
func (ctl *AvailabilityController) ListWeek(c *fiber.Ctx) error {
	tutorIDRaw := strings.TrimSpace(c.Query("tutor_id"))
	tutorID, err := uuid.Parse(tutorIDRaw)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "tutor_id invalid")
	}

	weekStart, err := d.ParseDate(strings.TrimSpace(c.Query("week_start")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "week_start invalid (YYYY-MM-DD)")
	}
	if weekStart.Weekday() != time.Monday {
		return helper.Error(c, fiber.StatusBadRequest, "week_start harus hari Senin")
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	var rows []m.AvailabilityModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("availability_tutor_id = ?", tutorID).
		Where("availability_date BETWEEN ? AND ?", weekStart, weekEnd).
		Order("availability_date ASC, availability_band ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := d.WeekAvailabilityResponse{
		WeekStart:  weekStart.Format("2006-01-02"),
		Configured: len(rows) > 0,
		Slots:      d.FromModels(rows),
	}
	return helper.Success(c, "OK", resp)
}

/* =========================
   Mutasi: bulk add & remove
   ========================= */

// POST /availability — tutor menambah beberapa slot sekaligus.
// Slot duplikat (tutor+tanggal+band) di-skip, bukan error.
func (ctl *AvailabilityController) Add(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.AddAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	now := time.Now()
	created := make([]m.AvailabilityModel, 0, len(req.Slots))
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		for _, in := range req.Slots {
			date, perr := d.ParseDate(in.Date)
			if perr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date invalid (YYYY-MM-DD)")
			}
			if !constants.IsValidBand(in.Band) {
				return fiber.NewError(fiber.StatusBadRequest, "band harus 1..6")
			}
			if date.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Tidak bisa menambah slot di masa lalu")
			}

			row := m.AvailabilityModel{
				AvailabilityTutorID: tutorID,
				AvailabilityDate:    date,
				AvailabilityBand:    in.Band,
			}
			if cerr := tx.Create(&row).Error; cerr != nil {
				if helper.IsUniqueViolation(cerr) {
					continue // sudah ada, skip
				}
				return cerr
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Slot availability ditambahkan", d.FromModels(created))
}

// DELETE /availability/:id
// Slot yang sudah dipakai schedule slot booking aktif tidak boleh dihapus.
func (ctl *AvailabilityController) Remove(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var row m.AvailabilityModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("availability_id = ? AND availability_tutor_id = ?", id, tutorID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Slot tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	// Guard: jangan hapus availability yang sudah terikat schedule slot
	// booking. Slot yang booking-nya batal tidak menghalangi.
	var occupied int64
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&slotModel.ScheduleSlotModel{}).
		Where("schedule_slot_tutor_id = ?", tutorID).
		Where("schedule_slot_date = ? AND schedule_slot_band = ?", row.AvailabilityDate, row.AvailabilityBand).
		Where("schedule_slot_status <> ?", slotModel.ScheduleSlotStatusCancelled).
		Count(&occupied).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if occupied > 0 {
		return helper.Error(c, fiber.StatusConflict, "Slot sudah dipakai booking, tidak bisa dihapus")
	}

	if err := ctl.DB.WithContext(c.UserContext()).Delete(&row).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Slot availability dihapus", fiber.Map{"availability_id": id})
}
