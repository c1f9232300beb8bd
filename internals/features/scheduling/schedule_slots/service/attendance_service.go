package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
)

var (
	ErrSlotNotFound    = errors.New("schedule slot tidak ditemukan")
	ErrSlotNotApproved = errors.New("slot belum approved, absensi belum bisa diisi")
	ErrSlotNotStarted  = errors.New("sesi belum dimulai, absensi belum bisa diisi")
	ErrNotParticipant  = errors.New("bukan peserta sesi ini")
	ErrStaleVersion    = errors.New("slot sudah berubah, muat ulang dulu")
)

type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

// Progress booking yang dihitung ulang setiap kali absensi berubah.
type BookingProgress struct {
	BookingID     uuid.UUID `json:"booking_id"`
	TotalSessions int64     `json:"total_sessions"`
	Attended      int64     `json:"attended"`
	Percent       int       `json:"percent"`
}

// MarkAttendance: set flag hadir pada satu slot.
// Precondition server-side: slot approved DAN jam mulai sesi <= now.
// Idempotent by overwrite: nilai boolean sama bukan error.
func (s *AttendanceService) MarkAttendance(callerID, slotID uuid.UUID, attended bool, now time.Time, clientVersion *int) (*slotModel.ScheduleSlotModel, *BookingProgress, error) {
	var slot slotModel.ScheduleSlotModel
	var progress BookingProgress

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_slot_id = ?", slotID).First(&slot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.ScheduleSlotTutorID != callerID && slot.ScheduleSlotLearnerID != callerID {
			return ErrNotParticipant
		}
		if slot.ScheduleSlotStatus != slotModel.ScheduleSlotStatusApproved {
			return ErrSlotNotApproved
		}
		if now.Before(constants.BandStartAt(slot.ScheduleSlotDate, slot.ScheduleSlotBand)) {
			return ErrSlotNotStarted
		}
		if clientVersion != nil && *clientVersion != slot.ScheduleSlotVersion {
			return ErrStaleVersion
		}

		res := tx.Model(&slotModel.ScheduleSlotModel{}).
			Where("schedule_slot_id = ? AND schedule_slot_version = ?", slot.ScheduleSlotID, slot.ScheduleSlotVersion).
			Updates(map[string]interface{}{
				"schedule_slot_attended": attended,
				"schedule_slot_version":  gorm.Expr("schedule_slot_version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}
		slot.ScheduleSlotAttended = attended
		slot.ScheduleSlotVersion++

		return s.computeProgress(tx, slot.ScheduleSlotBookingID, &progress)
	})
	if err != nil {
		return nil, nil, err
	}
	return &slot, &progress, nil
}

func (s *AttendanceService) computeProgress(tx *gorm.DB, bookingID uuid.UUID, out *BookingProgress) error {
	var total, attended int64
	if err := tx.Model(&slotModel.ScheduleSlotModel{}).
		Where("schedule_slot_booking_id = ?", bookingID).
		Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&slotModel.ScheduleSlotModel{}).
		Where("schedule_slot_booking_id = ? AND schedule_slot_attended = ?", bookingID, true).
		Count(&attended).Error; err != nil {
		return err
	}
	out.BookingID = bookingID
	out.TotalSessions = total
	out.Attended = attended
	if total > 0 {
		out.Percent = int(attended * 100 / total)
	}
	return nil
}
