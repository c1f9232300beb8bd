package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "tutorhub_backend/internals/features/learning/question_storage/dto"
	m "tutorhub_backend/internals/features/learning/question_storage/model"
	helper "tutorhub_backend/internals/helpers"
)

type QuestionStorageController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewQuestionStorageController(db *gorm.DB) *QuestionStorageController {
	return &QuestionStorageController{DB: db, Validate: validator.New()}
}

// POST /api/t/questions
func (ctl *QuestionStorageController) Create(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req d.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := req.ToModel(tutorID)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "options tidak valid")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(row).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Soal tersimpan", d.FromModel(row, true))
}

// GET /api/t/questions?subject_id=&topic=
func (ctl *QuestionStorageController) List(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext()).Model(&m.QuestionStorageModel{}).
		Where("question_storage_tutor_id = ?", tutorID)

	if raw := strings.TrimSpace(c.Query("subject_id")); raw != "" {
		subjectID, perr := uuid.Parse(raw)
		if perr != nil {
			return helper.Error(c, fiber.StatusBadRequest, "subject_id invalid")
		}
		db = db.Where("question_storage_subject_id = ?", subjectID)
	}
	if topic := strings.TrimSpace(c.Query("topic")); topic != "" {
		db = db.Where("question_storage_topic = ?", topic)
	}

	var rows []m.QuestionStorageModel
	if err := db.Order("question_storage_created_at DESC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", d.FromModels(rows, true))
}

// PATCH /api/t/questions/:id
func (ctl *QuestionStorageController) Update(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	var req d.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var row m.QuestionStorageModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("question_storage_id = ? AND question_storage_tutor_id = ?", id, tutorID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Soal tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := req.ApplyTo(&row); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "options tidak valid")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(&row).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Soal diperbarui", d.FromModel(&row, true))
}

// DELETE /api/t/questions/:id
func (ctl *QuestionStorageController) Delete(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id invalid")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("question_storage_id = ? AND question_storage_tutor_id = ?", id, tutorID).
		Delete(&m.QuestionStorageModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Soal tidak ditemukan")
	}
	return helper.Success(c, "Soal dihapus", fiber.Map{"question_id": id})
}
