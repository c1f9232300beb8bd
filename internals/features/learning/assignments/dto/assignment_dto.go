package dto

import (
	"time"

	"github.com/google/uuid"

	m "tutorhub_backend/internals/features/learning/assignments/model"
)

/* =========================
   Requests
   ========================= */

type CreateTemplateRequest struct {
	SubjectID   uuid.UUID `json:"subject_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=150"`
	Description string    `json:"description" validate:"required"`
}

type AssignItem struct {
	TemplateID uuid.UUID `json:"template_id" validate:"required"`
	OpenTime   time.Time `json:"open_time" validate:"required"`
	Deadline   time.Time `json:"deadline" validate:"required"`
}

// Fan-out: tiap booking mendapat tiap assignment di daftar.
type AssignMultipleRequest struct {
	BookingIDs  []uuid.UUID  `json:"booking_ids" validate:"required,min=1,max=50"`
	Assignments []AssignItem `json:"assignments" validate:"required,min=1,max=20,dive"`
}

type SubmitAssignmentRequest struct {
	FileURL string `json:"file_url" validate:"required,url"`
	Note    string `json:"note" validate:"omitempty,max=1000"`
}

type GradeSubmissionRequest struct {
	Grade    *int16 `json:"grade" validate:"required,min=0,max=10"`
	Feedback string `json:"feedback" validate:"omitempty,max=2000"`
}

/* =========================
   Responses
   ========================= */

type TemplateResponse struct {
	AssignmentTemplateID uuid.UUID  `json:"assignment_template_id"`
	SubjectID            uuid.UUID  `json:"subject_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

func FromTemplateModel(t *m.AssignmentTemplateModel) TemplateResponse {
	return TemplateResponse{
		AssignmentTemplateID: t.AssignmentTemplateID,
		SubjectID:            t.AssignmentTemplateSubjectID,
		Title:                t.AssignmentTemplateTitle,
		Description:          t.AssignmentTemplateDescription,
		CreatedAt:            t.AssignmentTemplateCreatedAt,
		UpdatedAt:            t.AssignmentTemplateUpdatedAt,
	}
}

func FromTemplateModels(rows []m.AssignmentTemplateModel) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromTemplateModel(&rows[i]))
	}
	return out
}

type AssignmentResponse struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	TemplateID   uuid.UUID `json:"template_id"`
	BookingID    uuid.UUID `json:"booking_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	OpenTime     time.Time `json:"open_time"`
	Deadline     time.Time `json:"deadline"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromAssignmentModel(a *m.AssignmentModel) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID: a.AssignmentID,
		TemplateID:   a.AssignmentTemplateID,
		BookingID:    a.AssignmentBookingID,
		Title:        a.AssignmentTitle,
		Description:  a.AssignmentDescription,
		OpenTime:     a.AssignmentOpenTime,
		Deadline:     a.AssignmentDeadline,
		CreatedAt:    a.AssignmentCreatedAt,
	}
}

func FromAssignmentModels(rows []m.AssignmentModel) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromAssignmentModel(&rows[i]))
	}
	return out
}

type SubmissionResponse struct {
	AssignmentSubmissionID uuid.UUID  `json:"assignment_submission_id"`
	AssignmentID           uuid.UUID  `json:"assignment_id"`
	LearnerID              uuid.UUID  `json:"learner_id"`
	FileURL                string     `json:"file_url"`
	Note                   string     `json:"note,omitempty"`
	SubmittedAt            time.Time  `json:"submitted_at"`
	Grade                  *int16     `json:"grade,omitempty"`
	Feedback               *string    `json:"feedback,omitempty"`
	GradedAt               *time.Time `json:"graded_at,omitempty"`
}

func FromSubmissionModel(s *m.AssignmentSubmissionModel) SubmissionResponse {
	return SubmissionResponse{
		AssignmentSubmissionID: s.AssignmentSubmissionID,
		AssignmentID:           s.AssignmentSubmissionAssignmentID,
		LearnerID:              s.AssignmentSubmissionLearnerID,
		FileURL:                s.AssignmentSubmissionFileURL,
		Note:                   s.AssignmentSubmissionNote,
		SubmittedAt:            s.AssignmentSubmissionSubmittedAt,
		Grade:                  s.AssignmentSubmissionGrade,
		Feedback:               s.AssignmentSubmissionFeedback,
		GradedAt:               s.AssignmentSubmissionGradedAt,
	}
}

func FromSubmissionModels(rows []m.AssignmentSubmissionModel) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromSubmissionModel(&rows[i]))
	}
	return out
}
