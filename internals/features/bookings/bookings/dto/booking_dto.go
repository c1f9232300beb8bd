package dto

import (
	"time"

	"github.com/google/uuid"

	m "tutorhub_backend/internals/features/bookings/bookings/model"
	svc "tutorhub_backend/internals/features/bookings/bookings/service"
)

/* =============== REQUESTS =============== */

type CreateBookingRequest struct {
	TutorID          uuid.UUID   `json:"tutor_id" validate:"required"`
	SubjectID        uuid.UUID   `json:"subject_id" validate:"required"`
	NumberOfMonths   int16       `json:"number_of_months" validate:"required,min=1,max=24"`
	NumberOfSessions int16       `json:"number_of_sessions" validate:"required,min=1,max=200"`
	Amount           int64       `json:"amount" validate:"required,gt=0"`
	Deposit          int64       `json:"deposit" validate:"gte=0"`
	MonthlyPayment   int64       `json:"monthly_payment" validate:"required,gt=0"`
	AvailabilityIDs  []uuid.UUID `json:"availability_ids" validate:"required,min=1,max=7"`
}

func (r CreateBookingRequest) ToInput() svc.CreateBookingInput {
	return svc.CreateBookingInput{
		TutorID:          r.TutorID,
		SubjectID:        r.SubjectID,
		NumberOfMonths:   r.NumberOfMonths,
		NumberOfSessions: r.NumberOfSessions,
		Amount:           r.Amount,
		Deposit:          r.Deposit,
		MonthlyPayment:   r.MonthlyPayment,
		AvailabilityIDs:  r.AvailabilityIDs,
	}
}

type RespondBookingRequest struct {
	Action  string `json:"action" validate:"required,oneof=approve rejected"`
	Version *int   `json:"version" validate:"omitempty,gte=1"`
}

type CancelBookingRequest struct {
	Reason  string `json:"reason" validate:"required,min=3"`
	Version *int   `json:"version" validate:"omitempty,gte=1"`
}

type VersionedRequest struct {
	Version *int `json:"version" validate:"omitempty,gte=1"`
}

type ReportBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

/* =============== RESPONSES =============== */

type BookingResponse struct {
	BookingID        uuid.UUID `json:"booking_id"`
	LearnerID        uuid.UUID `json:"learner_id"`
	TutorID          uuid.UUID `json:"tutor_id"`
	SubjectID        uuid.UUID `json:"subject_id"`
	NumberOfMonths   int16     `json:"number_of_months"`
	NumberOfSessions int16     `json:"number_of_sessions"`
	Amount           int64     `json:"amount"`
	Deposit          int64     `json:"deposit"`
	MonthlyPayment   int64     `json:"monthly_payment"`
	PaidMonths       int16     `json:"paid_months"`
	Status           string    `json:"status"`
	CancelReason     *string   `json:"cancel_reason,omitempty"`
	Reported         bool      `json:"reported"`
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromModel(b *m.BookingModel) BookingResponse {
	return BookingResponse{
		BookingID:        b.BookingID,
		LearnerID:        b.BookingLearnerID,
		TutorID:          b.BookingTutorID,
		SubjectID:        b.BookingSubjectID,
		NumberOfMonths:   b.BookingNumberOfMonths,
		NumberOfSessions: b.BookingNumberOfSessions,
		Amount:           b.BookingAmount,
		Deposit:          b.BookingDeposit,
		MonthlyPayment:   b.BookingMonthlyPayment,
		PaidMonths:       b.BookingPaidMonths,
		Status:           b.BookingStatus,
		CancelReason:     b.BookingCancelReason,
		Reported:         b.BookingReported,
		Version:          b.BookingVersion,
		CreatedAt:        b.BookingCreatedAt,
	}
}

func FromModels(list []m.BookingModel) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
