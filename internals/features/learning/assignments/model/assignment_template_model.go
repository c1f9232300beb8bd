package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bank tugas milik tutor, siap dipakai ulang lintas booking.
type AssignmentTemplateModel struct {
	AssignmentTemplateID uuid.UUID `gorm:"column:assignment_template_id;type:uuid;primaryKey" json:"assignment_template_id"`

	AssignmentTemplateTutorID   uuid.UUID `gorm:"column:assignment_template_tutor_id;type:uuid;not null;index" json:"assignment_template_tutor_id"`
	AssignmentTemplateSubjectID uuid.UUID `gorm:"column:assignment_template_subject_id;type:uuid;not null;index" json:"assignment_template_subject_id"`

	AssignmentTemplateTitle       string `gorm:"column:assignment_template_title;type:varchar(150);not null" json:"assignment_template_title"`
	AssignmentTemplateDescription string `gorm:"column:assignment_template_description;type:text;not null" json:"assignment_template_description"`

	AssignmentTemplateCreatedAt time.Time  `gorm:"column:assignment_template_created_at;autoCreateTime" json:"assignment_template_created_at"`
	AssignmentTemplateUpdatedAt *time.Time `gorm:"column:assignment_template_updated_at;autoUpdateTime" json:"assignment_template_updated_at,omitempty"`
}

func (AssignmentTemplateModel) TableName() string { return "assignment_templates" }

func (a *AssignmentTemplateModel) BeforeCreate(tx *gorm.DB) error {
	if a.AssignmentTemplateID == uuid.Nil {
		a.AssignmentTemplateID = uuid.New()
	}
	return nil
}
