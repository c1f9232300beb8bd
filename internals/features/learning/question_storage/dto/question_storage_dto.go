package dto

import (
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "tutorhub_backend/internals/features/learning/question_storage/model"
)

/* =============== REQUESTS =============== */

type CreateQuestionRequest struct {
	SubjectID     uuid.UUID `json:"subject_id" validate:"required"`
	Topic         string    `json:"topic" validate:"required,min=1,max=100"`
	Text          string    `json:"text" validate:"required,min=1"`
	Options       []string  `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer int16     `json:"correct_answer" validate:"gte=0,lte=3"`
}

func (r CreateQuestionRequest) ToModel(tutorID uuid.UUID) (*m.QuestionStorageModel, error) {
	opts, err := sonic.Marshal(r.Options)
	if err != nil {
		return nil, err
	}
	return &m.QuestionStorageModel{
		QuestionStorageTutorID:       tutorID,
		QuestionStorageSubjectID:     r.SubjectID,
		QuestionStorageTopic:         r.Topic,
		QuestionStorageText:          r.Text,
		QuestionStorageOptions:       datatypes.JSON(opts),
		QuestionStorageCorrectAnswer: r.CorrectAnswer,
	}, nil
}

// Update (partial)
type UpdateQuestionRequest struct {
	Topic         *string  `json:"topic" validate:"omitempty,min=1,max=100"`
	Text          *string  `json:"text" validate:"omitempty,min=1"`
	Options       []string `json:"options" validate:"omitempty,len=4,dive,required"`
	CorrectAnswer *int16   `json:"correct_answer" validate:"omitempty,gte=0,lte=3"`
}

func (r UpdateQuestionRequest) ApplyTo(mo *m.QuestionStorageModel) error {
	if r.Topic != nil {
		mo.QuestionStorageTopic = *r.Topic
	}
	if r.Text != nil {
		mo.QuestionStorageText = *r.Text
	}
	if len(r.Options) == 4 {
		opts, err := sonic.Marshal(r.Options)
		if err != nil {
			return err
		}
		mo.QuestionStorageOptions = datatypes.JSON(opts)
	}
	if r.CorrectAnswer != nil {
		mo.QuestionStorageCorrectAnswer = *r.CorrectAnswer
	}
	return nil
}

/* =============== RESPONSES =============== */

// WithAnswer: hanya untuk tutor pemilik; learner tidak pernah
// menerima correct_answer lewat response manapun.
type QuestionResponse struct {
	QuestionID    uuid.UUID `json:"question_id"`
	SubjectID     uuid.UUID `json:"subject_id"`
	Topic         string    `json:"topic"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectAnswer *int16    `json:"correct_answer,omitempty"`
}

func FromModel(q *m.QuestionStorageModel, withAnswer bool) QuestionResponse {
	var opts []string
	_ = sonic.Unmarshal(q.QuestionStorageOptions, &opts)

	resp := QuestionResponse{
		QuestionID: q.QuestionStorageID,
		SubjectID:  q.QuestionStorageSubjectID,
		Topic:      q.QuestionStorageTopic,
		Text:       q.QuestionStorageText,
		Options:    opts,
	}
	if withAnswer {
		ca := q.QuestionStorageCorrectAnswer
		resp.CorrectAnswer = &ca
	}
	return resp
}

func FromModels(list []m.QuestionStorageModel, withAnswer bool) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i], withAnswer))
	}
	return out
}
