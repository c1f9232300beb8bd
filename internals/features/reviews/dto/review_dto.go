package dto

import (
	"time"

	"github.com/google/uuid"

	m "tutorhub_backend/internals/features/reviews/model"
)

type CreateReviewRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Rating    int16     `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ReviewID  uuid.UUID `json:"review_id"`
	BookingID uuid.UUID `json:"booking_id"`
	LearnerID uuid.UUID `json:"learner_id"`
	TutorID   uuid.UUID `json:"tutor_id"`
	Rating    int16     `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(r *m.ReviewModel) ReviewResponse {
	return ReviewResponse{
		ReviewID:  r.ReviewID,
		BookingID: r.ReviewBookingID,
		LearnerID: r.ReviewLearnerID,
		TutorID:   r.ReviewTutorID,
		Rating:    r.ReviewRating,
		Comment:   r.ReviewComment,
		CreatedAt: r.ReviewCreatedAt,
	}
}

func FromModels(rows []m.ReviewModel) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// Ringkasan rating tutor untuk halaman publik.
type TutorRatingSummary struct {
	TutorID       uuid.UUID `json:"tutor_id"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int64     `json:"total_reviews"`
}
