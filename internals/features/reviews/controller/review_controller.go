package controller

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	d "tutorhub_backend/internals/features/reviews/dto"
	m "tutorhub_backend/internals/features/reviews/model"
	helper "tutorhub_backend/internals/helpers"
)

type ReviewController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db, Validate: validator.New()}
}

// POST /api/u/reviews — hanya untuk booking milik learner yang completed
func (ctl *ReviewController) Create(c *fiber.Ctx) error {
	learnerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var out *m.ReviewModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var booking bookingModel.BookingModel
		if err := tx.Where("booking_id = ?", req.BookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Booking tidak ditemukan")
			}
			return err
		}
		if booking.BookingLearnerID != learnerID {
			return fiber.NewError(fiber.StatusForbidden, "Bukan pemilik booking ini")
		}
		if booking.BookingStatus != bookingModel.BookingStatusCompleted {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Review hanya untuk booking yang selesai")
		}

		row := m.ReviewModel{
			ReviewBookingID: booking.BookingID,
			ReviewLearnerID: learnerID,
			ReviewTutorID:   booking.BookingTutorID,
			ReviewRating:    req.Rating,
			ReviewComment:   strings.TrimSpace(req.Comment),
		}
		if err := tx.Create(&row).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Booking ini sudah direview")
			}
			return err
		}
		out = &row
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Review tersimpan", d.FromModel(out))
}

// GET /api/public/tutors/:id/reviews
func (ctl *ReviewController) ListByTutor(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var rows []m.ReviewModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("review_tutor_id = ?", tutorID).
		Order("review_created_at DESC").
		Limit(100).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromModels(rows))
}

// GET /api/public/tutors/:id/rating
func (ctl *ReviewController) RatingSummary(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var agg struct {
		Avg   float64
		Total int64
	}
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&m.ReviewModel{}).
		Select("COALESCE(AVG(review_rating), 0) AS avg, COUNT(*) AS total").
		Where("review_tutor_id = ?", tutorID).
		Scan(&agg).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", d.TutorRatingSummary{
		TutorID:       tutorID,
		AverageRating: math.Round(agg.Avg*100) / 100,
		TotalReviews:  agg.Total,
	})
}
