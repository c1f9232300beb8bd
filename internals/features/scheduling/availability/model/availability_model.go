package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityModel struct {
	AvailabilityID uuid.UUID `gorm:"column:availability_id;type:uuid;primaryKey" json:"availability_id"`

	AvailabilityTutorID uuid.UUID `gorm:"column:availability_tutor_id;type:uuid;not null;uniqueIndex:uq_availability_tutor_date_band" json:"availability_tutor_id"`

	// Satu slot = satu tanggal + satu band tetap (1..6)
	AvailabilityDate time.Time `gorm:"column:availability_date;type:date;not null;uniqueIndex:uq_availability_tutor_date_band" json:"availability_date"`
	AvailabilityBand int16     `gorm:"column:availability_band;type:smallint;not null;uniqueIndex:uq_availability_tutor_date_band" json:"availability_band"`

	AvailabilityCreatedAt time.Time `gorm:"column:availability_created_at;autoCreateTime" json:"availability_created_at"`
}

func (AvailabilityModel) TableName() string { return "availabilities" }

func (a *AvailabilityModel) BeforeCreate(tx *gorm.DB) error {
	if a.AvailabilityID == uuid.Nil {
		a.AvailabilityID = uuid.New()
	}
	return nil
}
