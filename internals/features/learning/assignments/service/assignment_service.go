package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	asgModel "tutorhub_backend/internals/features/learning/assignments/model"
	notifModel "tutorhub_backend/internals/features/notifications/model"
	notifService "tutorhub_backend/internals/features/notifications/service"
	helper "tutorhub_backend/internals/helpers"
)

var (
	ErrTemplateNotFound   = errors.New("template tugas tidak ditemukan")
	ErrAssignmentNotFound = errors.New("tugas tidak ditemukan")
	ErrSubmissionNotFound = errors.New("submission tidak ditemukan")
	ErrBookingNotFound    = errors.New("booking tidak ditemukan")
	ErrNotAssignmentTutor = errors.New("bukan tutor dari tugas ini")
	ErrNotAssignmentOwner = errors.New("bukan learner dari tugas ini")
	ErrAssignmentNotOpen  = errors.New("tugas belum dibuka")
	ErrDeadlinePassed     = errors.New("deadline sudah lewat")
	ErrInvalidGrade       = errors.New("nilai harus 0..10")
)

type AssignmentService struct {
	DB *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: db}
}

/* =========================
   Fan-out assign (tutor)
   ========================= */

type AssignSpec struct {
	TemplateID uuid.UUID
	OpenTime   time.Time
	Deadline   time.Time
}

// Hasil per pasangan (booking, template). Partial failure tidak
// menggagalkan pasangan lain; caller merekonsiliasi dari daftar ini.
type AssignResult struct {
	BookingID    uuid.UUID  `json:"booking_id"`
	TemplateID   uuid.UUID  `json:"template_id"`
	AssignmentID *uuid.UUID `json:"assignment_id,omitempty"`
	Assigned     bool       `json:"assigned"`
	Reason       string     `json:"reason,omitempty"`
}

// AssignMultiple membuat satu instance tugas per (booking, template).
// Tiap pasangan ditransaksikan sendiri supaya satu kegagalan tidak
// membatalkan yang lain.
func (s *AssignmentService) AssignMultiple(tutorID uuid.UUID, bookingIDs []uuid.UUID, specs []AssignSpec) []AssignResult {
	results := make([]AssignResult, 0, len(bookingIDs)*len(specs))

	for _, bookingID := range bookingIDs {
		for _, spec := range specs {
			res := AssignResult{BookingID: bookingID, TemplateID: spec.TemplateID}

			err := s.DB.Transaction(func(tx *gorm.DB) error {
				var booking bookingModel.BookingModel
				if err := tx.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrBookingNotFound
					}
					return err
				}
				if booking.BookingTutorID != tutorID {
					return ErrNotAssignmentTutor
				}
				if booking.BookingStatus != bookingModel.BookingStatusApprove {
					return errors.New("booking tidak aktif")
				}

				var tpl asgModel.AssignmentTemplateModel
				if err := tx.Where("assignment_template_id = ? AND assignment_template_tutor_id = ?", spec.TemplateID, tutorID).
					First(&tpl).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrTemplateNotFound
					}
					return err
				}

				row := asgModel.AssignmentModel{
					AssignmentTemplateID:  tpl.AssignmentTemplateID,
					AssignmentBookingID:   booking.BookingID,
					AssignmentTitle:       tpl.AssignmentTemplateTitle,
					AssignmentDescription: tpl.AssignmentTemplateDescription,
					AssignmentOpenTime:    spec.OpenTime,
					AssignmentDeadline:    spec.Deadline,
				}
				if err := tx.Create(&row).Error; err != nil {
					if helper.IsUniqueViolation(err) {
						return errors.New("tugas ini sudah pernah di-assign ke booking tersebut")
					}
					return err
				}

				res.AssignmentID = &row.AssignmentID
				res.Assigned = true

				notifService.Notify(tx, booking.BookingLearnerID, notifModel.NotificationTypeGrading,
					"Tugas baru: "+row.AssignmentTitle,
					"Deadline "+row.AssignmentDeadline.Format("2006-01-02 15:04"),
					map[string]interface{}{"assignment_id": row.AssignmentID.String()})
				return nil
			})
			if err != nil {
				res.Assigned = false
				res.Reason = err.Error()
			}
			results = append(results, res)
		}
	}
	return results
}

/* =========================
   Submission (learner)
   ========================= */

// Submit menerima (atau menimpa) submission selama window masih terbuka.
// Lewat deadline ditolak apa pun isinya.
func (s *AssignmentService) Submit(learnerID, assignmentID uuid.UUID, fileURL, note string, now time.Time) (*asgModel.AssignmentSubmissionModel, error) {
	var out *asgModel.AssignmentSubmissionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		asg, booking, err := s.fetchWithBooking(tx, assignmentID)
		if err != nil {
			return err
		}
		if booking.BookingLearnerID != learnerID {
			return ErrNotAssignmentOwner
		}
		if now.Before(asg.AssignmentOpenTime) {
			return ErrAssignmentNotOpen
		}
		if now.After(asg.AssignmentDeadline) {
			return ErrDeadlinePassed
		}

		var existing asgModel.AssignmentSubmissionModel
		err = tx.Where("assignment_submission_assignment_id = ? AND assignment_submission_learner_id = ?", assignmentID, learnerID).
			First(&existing).Error
		switch {
		case err == nil:
			// Resubmit: timpa file dan reset nilai.
			existing.AssignmentSubmissionFileURL = fileURL
			existing.AssignmentSubmissionNote = note
			existing.AssignmentSubmissionSubmittedAt = now
			existing.AssignmentSubmissionGrade = nil
			existing.AssignmentSubmissionFeedback = nil
			existing.AssignmentSubmissionGradedAt = nil
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			out = &existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := asgModel.AssignmentSubmissionModel{
				AssignmentSubmissionAssignmentID: assignmentID,
				AssignmentSubmissionLearnerID:    learnerID,
				AssignmentSubmissionFileURL:      fileURL,
				AssignmentSubmissionNote:         note,
				AssignmentSubmissionSubmittedAt:  now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			out = &row
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =========================
   Grading (tutor)
   ========================= */

// Grade: nilai 0..10 divalidasi server-side; regrade menimpa.
func (s *AssignmentService) Grade(tutorID, submissionID uuid.UUID, grade int16, feedback string, now time.Time) (*asgModel.AssignmentSubmissionModel, error) {
	if grade < 0 || grade > 10 {
		return nil, ErrInvalidGrade
	}

	var out *asgModel.AssignmentSubmissionModel
	var learnerID uuid.UUID
	var title string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub asgModel.AssignmentSubmissionModel
		if err := tx.Where("assignment_submission_id = ?", submissionID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}

		asg, booking, err := s.fetchWithBooking(tx, sub.AssignmentSubmissionAssignmentID)
		if err != nil {
			return err
		}
		if booking.BookingTutorID != tutorID {
			return ErrNotAssignmentTutor
		}
		learnerID = sub.AssignmentSubmissionLearnerID
		title = asg.AssignmentTitle

		sub.AssignmentSubmissionGrade = &grade
		sub.AssignmentSubmissionFeedback = &feedback
		sub.AssignmentSubmissionGradedAt = &now
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}
		out = &sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, learnerID, notifModel.NotificationTypeGrading,
		"Tugas dinilai: "+title,
		"Nilai kamu: "+strconv.Itoa(int(grade))+"/10",
		map[string]interface{}{"submission_id": out.AssignmentSubmissionID.String()})

	return out, nil
}

func (s *AssignmentService) fetchWithBooking(tx *gorm.DB, assignmentID uuid.UUID) (*asgModel.AssignmentModel, *bookingModel.BookingModel, error) {
	var asg asgModel.AssignmentModel
	if err := tx.Where("assignment_id = ?", assignmentID).First(&asg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAssignmentNotFound
		}
		return nil, nil, err
	}
	var booking bookingModel.BookingModel
	if err := tx.Where("booking_id = ?", asg.AssignmentBookingID).First(&booking).Error; err != nil {
		return nil, nil, err
	}
	return &asg, &booking, nil
}
