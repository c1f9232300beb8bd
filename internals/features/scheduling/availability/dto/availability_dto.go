package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorhub_backend/internals/constants"
	m "tutorhub_backend/internals/features/scheduling/availability/model"
)

/* =============== REQUESTS =============== */

// Satu entry slot dalam bulk add
type AvailabilitySlotInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Band int16  `json:"band" validate:"required,min=1,max=6"`
}

type AddAvailabilityRequest struct {
	Slots []AvailabilitySlotInput `json:"slots" validate:"required,min=1,max=42,dive"`
}

/* =============== RESPONSES =============== */

type AvailabilityResponse struct {
	AvailabilityID uuid.UUID `json:"availability_id"`
	TutorID        uuid.UUID `json:"tutor_id"`
	Date           string    `json:"date"`
	Band           int16     `json:"band"`
	BandLabel      string    `json:"band_label"`
}

func FromModel(a *m.AvailabilityModel) AvailabilityResponse {
	return AvailabilityResponse{
		AvailabilityID: a.AvailabilityID,
		TutorID:        a.AvailabilityTutorID,
		Date:           a.AvailabilityDate.Format("2006-01-02"),
		Band:           a.AvailabilityBand,
		BandLabel:      constants.BandLabel(a.AvailabilityBand),
	}
}

func FromModels(list []m.AvailabilityModel) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

// WeekAvailabilityResponse: configured=false artinya tutor belum mengisi
// minggu itu (bukan "full sibuk").
type WeekAvailabilityResponse struct {
	WeekStart  string                 `json:"week_start"`
	Configured bool                   `json:"configured"`
	Slots      []AvailabilityResponse `json:"slots"`
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
