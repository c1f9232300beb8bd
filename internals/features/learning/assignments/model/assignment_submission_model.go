package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Satu submission per (assignment, learner); resubmit sebelum deadline
// menimpa baris yang sama.
type AssignmentSubmissionModel struct {
	AssignmentSubmissionID uuid.UUID `gorm:"column:assignment_submission_id;type:uuid;primaryKey" json:"assignment_submission_id"`

	AssignmentSubmissionAssignmentID uuid.UUID `gorm:"column:assignment_submission_assignment_id;type:uuid;not null;uniqueIndex:uq_submission_assignment_learner,priority:1" json:"assignment_submission_assignment_id"`
	AssignmentSubmissionLearnerID    uuid.UUID `gorm:"column:assignment_submission_learner_id;type:uuid;not null;uniqueIndex:uq_submission_assignment_learner,priority:2" json:"assignment_submission_learner_id"`

	AssignmentSubmissionFileURL string `gorm:"column:assignment_submission_file_url;type:text;not null" json:"assignment_submission_file_url"`
	AssignmentSubmissionNote    string `gorm:"column:assignment_submission_note;type:text" json:"assignment_submission_note,omitempty"`

	AssignmentSubmissionSubmittedAt time.Time `gorm:"column:assignment_submission_submitted_at;not null" json:"assignment_submission_submitted_at"`

	// Nilai 0..10; nil = belum dinilai. Regrade menimpa.
	AssignmentSubmissionGrade    *int16  `gorm:"column:assignment_submission_grade;type:smallint" json:"assignment_submission_grade,omitempty"`
	AssignmentSubmissionFeedback *string `gorm:"column:assignment_submission_feedback;type:text" json:"assignment_submission_feedback,omitempty"`

	AssignmentSubmissionGradedAt *time.Time `gorm:"column:assignment_submission_graded_at" json:"assignment_submission_graded_at,omitempty"`
}

func (AssignmentSubmissionModel) TableName() string { return "assignment_submissions" }

func (s *AssignmentSubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if s.AssignmentSubmissionID == uuid.Nil {
		s.AssignmentSubmissionID = uuid.New()
	}
	return nil
}
