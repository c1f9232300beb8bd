package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorhub_backend/internals/constants"
	m "tutorhub_backend/internals/features/scheduling/change_requests/model"
)

/* =============== REQUESTS =============== */

type CreateChangeRequestRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id" validate:"required"`
	NewDate    string    `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewBand    int16     `json:"new_band" validate:"required,min=1,max=6"`
	Reason     string    `json:"reason" validate:"required,min=3"`
}

func (r CreateChangeRequestRequest) ParsedDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.NewDate)
}

/* =============== RESPONSES =============== */

type ChangeRequestResponse struct {
	ChangeRequestID uuid.UUID  `json:"change_request_id"`
	ScheduleID      uuid.UUID  `json:"schedule_id"`
	LearnerID       uuid.UUID  `json:"learner_id"`
	NewDate         string     `json:"new_date"`
	NewBand         int16      `json:"new_band"`
	NewBandLabel    string     `json:"new_band_label"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func FromModel(r *m.ChangeRequestModel) ChangeRequestResponse {
	return ChangeRequestResponse{
		ChangeRequestID: r.ChangeRequestID,
		ScheduleID:      r.ChangeRequestScheduleID,
		LearnerID:       r.ChangeRequestLearnerID,
		NewDate:         r.ChangeRequestNewDate.Format("2006-01-02"),
		NewBand:         r.ChangeRequestNewBand,
		NewBandLabel:    constants.BandLabel(r.ChangeRequestNewBand),
		Reason:          r.ChangeRequestReason,
		Status:          r.ChangeRequestStatus,
		ResolvedAt:      r.ChangeRequestResolvedAt,
		CreatedAt:       r.ChangeRequestCreatedAt,
	}
}

func FromModels(list []m.ChangeRequestModel) []ChangeRequestResponse {
	out := make([]ChangeRequestResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
