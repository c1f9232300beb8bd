package dto

import (
	"github.com/google/uuid"

	"tutorhub_backend/internals/constants"
	m "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
)

/* =============== REQUESTS =============== */

type MarkAttendanceRequest struct {
	Attended *bool `json:"attended" validate:"required"`
	Version  *int  `json:"version" validate:"omitempty,gte=1"`
}

/* =============== RESPONSES =============== */

type ScheduleSlotResponse struct {
	ScheduleSlotID uuid.UUID `json:"schedule_slot_id"`
	BookingID      uuid.UUID `json:"booking_id"`
	LearnerID      uuid.UUID `json:"learner_id"`
	TutorID        uuid.UUID `json:"tutor_id"`
	Date           string    `json:"date"`
	Band           int16     `json:"band"`
	BandLabel      string    `json:"band_label"`
	Status         string    `json:"status"`
	Attended       bool      `json:"attended"`
	Version        int       `json:"version"`
}

func FromModel(s *m.ScheduleSlotModel) ScheduleSlotResponse {
	return ScheduleSlotResponse{
		ScheduleSlotID: s.ScheduleSlotID,
		BookingID:      s.ScheduleSlotBookingID,
		LearnerID:      s.ScheduleSlotLearnerID,
		TutorID:        s.ScheduleSlotTutorID,
		Date:           s.ScheduleSlotDate.Format("2006-01-02"),
		Band:           s.ScheduleSlotBand,
		BandLabel:      constants.BandLabel(s.ScheduleSlotBand),
		Status:         s.ScheduleSlotStatus,
		Attended:       s.ScheduleSlotAttended,
		Version:        s.ScheduleSlotVersion,
	}
}

func FromModels(list []m.ScheduleSlotModel) []ScheduleSlotResponse {
	out := make([]ScheduleSlotResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
