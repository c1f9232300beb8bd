package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	notifModel "tutorhub_backend/internals/features/notifications/model"
	notifService "tutorhub_backend/internals/features/notifications/service"
	crModel "tutorhub_backend/internals/features/scheduling/change_requests/model"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
)

var (
	ErrRequestNotFound  = errors.New("change request tidak ditemukan")
	ErrRequestResolved  = errors.New("change request sudah diputuskan")
	ErrSlotNotFound     = errors.New("schedule slot tidak ditemukan")
	ErrSlotNotApproved  = errors.New("hanya slot approved yang bisa diminta pindah")
	ErrSameSlot         = errors.New("jadwal baru sama dengan jadwal lama")
	ErrInvalidBand      = errors.New("band harus 1..6")
	ErrSlotConflict     = errors.New("jadwal baru bentrok dengan sesi lain tutor")
	ErrNotSlotOwner     = errors.New("bukan pemilik slot ini")
	ErrNotSlotTutor     = errors.New("bukan tutor dari slot ini")
)

type ChangeRequestService struct {
	DB *gorm.DB
}

func NewChangeRequestService(db *gorm.DB) *ChangeRequestService {
	return &ChangeRequestService{DB: db}
}

/* =========================
   Create (learner)
   ========================= */

func (s *ChangeRequestService) Create(learnerID, scheduleID uuid.UUID, newDate time.Time, newBand int16, reason string) (*crModel.ChangeRequestModel, error) {
	if !constants.IsValidBand(newBand) {
		return nil, ErrInvalidBand
	}

	var out *crModel.ChangeRequestModel
	var tutorID uuid.UUID
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var slot slotModel.ScheduleSlotModel
		if err := tx.Where("schedule_slot_id = ?", scheduleID).First(&slot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.ScheduleSlotLearnerID != learnerID {
			return ErrNotSlotOwner
		}
		if slot.ScheduleSlotStatus != slotModel.ScheduleSlotStatusApproved {
			return ErrSlotNotApproved
		}
		if slot.ScheduleSlotDate.Equal(newDate) && slot.ScheduleSlotBand == newBand {
			return ErrSameSlot
		}
		tutorID = slot.ScheduleSlotTutorID

		row := crModel.ChangeRequestModel{
			ChangeRequestScheduleID: scheduleID,
			ChangeRequestLearnerID:  learnerID,
			ChangeRequestNewDate:    newDate,
			ChangeRequestNewBand:    newBand,
			ChangeRequestReason:     reason,
			ChangeRequestStatus:     crModel.ChangeRequestStatusPending,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		out = &row
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, tutorID, notifModel.NotificationTypeChangeRequest,
		"Permintaan pindah jadwal",
		"Learner minta pindah sesi ke "+newDate.Format("2006-01-02")+" "+constants.BandLabel(newBand),
		map[string]interface{}{"change_request_id": out.ChangeRequestID.String()})

	return out, nil
}

/* =========================
   Resolve (tutor)
   ========================= */

// Accept: tulis ulang date/band slot persis ke nilai baru, set request
// approved, dan auto-reject pending request lain untuk slot yang sama.
// Bentrok dengan sesi tutor lain di (new_date, new_band) → ErrSlotConflict.
func (s *ChangeRequestService) Accept(tutorID, requestID uuid.UUID) (*crModel.ChangeRequestModel, error) {
	var out *crModel.ChangeRequestModel
	var learnerID uuid.UUID

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		req, slot, err := s.fetchPendingWithSlot(tx, requestID)
		if err != nil {
			return err
		}
		if slot.ScheduleSlotTutorID != tutorID {
			return ErrNotSlotTutor
		}
		// Slot yang booking-nya sudah batal tidak bisa dipindah lagi.
		if slot.ScheduleSlotStatus != slotModel.ScheduleSlotStatusApproved {
			return ErrSlotNotApproved
		}
		learnerID = slot.ScheduleSlotLearnerID

		// Cek bentrok: slot hidup lain milik tutor di koordinat tujuan.
		var clash int64
		if err := tx.Model(&slotModel.ScheduleSlotModel{}).
			Where("schedule_slot_tutor_id = ?", tutorID).
			Where("schedule_slot_date = ? AND schedule_slot_band = ?", req.ChangeRequestNewDate, req.ChangeRequestNewBand).
			Where("schedule_slot_id <> ?", slot.ScheduleSlotID).
			Where("schedule_slot_status <> ?", slotModel.ScheduleSlotStatusCancelled).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrSlotConflict
		}

		// Pindahkan slot (CAS via version).
		res := tx.Model(&slotModel.ScheduleSlotModel{}).
			Where("schedule_slot_id = ? AND schedule_slot_version = ?", slot.ScheduleSlotID, slot.ScheduleSlotVersion).
			Updates(map[string]interface{}{
				"schedule_slot_date":    req.ChangeRequestNewDate,
				"schedule_slot_band":    req.ChangeRequestNewBand,
				"schedule_slot_version": gorm.Expr("schedule_slot_version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSlotConflict
		}

		now := time.Now()
		if err := s.resolve(tx, req, crModel.ChangeRequestStatusApproved, now); err != nil {
			return err
		}

		// Request pending lain untuk slot yang sama jadi tidak relevan.
		if err := tx.Model(&crModel.ChangeRequestModel{}).
			Where("change_request_schedule_id = ?", slot.ScheduleSlotID).
			Where("change_request_status = ?", crModel.ChangeRequestStatusPending).
			Where("change_request_id <> ?", req.ChangeRequestID).
			Updates(map[string]interface{}{
				"change_request_status":      crModel.ChangeRequestStatusRejected,
				"change_request_resolved_at": now,
			}).Error; err != nil {
			return err
		}

		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, learnerID, notifModel.NotificationTypeChangeRequest,
		"Pindah jadwal disetujui",
		"Sesi kamu dipindah ke "+out.ChangeRequestNewDate.Format("2006-01-02")+" "+constants.BandLabel(out.ChangeRequestNewBand),
		map[string]interface{}{"change_request_id": out.ChangeRequestID.String()})

	return out, nil
}

// Reject: request → rejected, slot tidak disentuh.
func (s *ChangeRequestService) Reject(tutorID, requestID uuid.UUID) (*crModel.ChangeRequestModel, error) {
	var out *crModel.ChangeRequestModel
	var learnerID uuid.UUID

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		req, slot, err := s.fetchPendingWithSlot(tx, requestID)
		if err != nil {
			return err
		}
		if slot.ScheduleSlotTutorID != tutorID {
			return ErrNotSlotTutor
		}
		learnerID = slot.ScheduleSlotLearnerID

		if err := s.resolve(tx, req, crModel.ChangeRequestStatusRejected, time.Now()); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, learnerID, notifModel.NotificationTypeChangeRequest,
		"Pindah jadwal ditolak", "Tutor menolak permintaan pindah jadwal kamu.",
		map[string]interface{}{"change_request_id": out.ChangeRequestID.String()})

	return out, nil
}

/* =========================
   Internal
   ========================= */

func (s *ChangeRequestService) fetchPendingWithSlot(tx *gorm.DB, requestID uuid.UUID) (*crModel.ChangeRequestModel, *slotModel.ScheduleSlotModel, error) {
	var req crModel.ChangeRequestModel
	if err := tx.Where("change_request_id = ?", requestID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRequestNotFound
		}
		return nil, nil, err
	}
	if req.ChangeRequestStatus != crModel.ChangeRequestStatusPending {
		return nil, nil, ErrRequestResolved
	}

	var slot slotModel.ScheduleSlotModel
	if err := tx.Where("schedule_slot_id = ?", req.ChangeRequestScheduleID).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSlotNotFound
		}
		return nil, nil, err
	}
	return &req, &slot, nil
}

// resolve: transisi pending → terminal dengan guard status di WHERE,
// supaya dua resolve bersamaan tidak dua-duanya menang.
func (s *ChangeRequestService) resolve(tx *gorm.DB, req *crModel.ChangeRequestModel, status string, now time.Time) error {
	res := tx.Model(&crModel.ChangeRequestModel{}).
		Where("change_request_id = ? AND change_request_status = ?", req.ChangeRequestID, crModel.ChangeRequestStatusPending).
		Updates(map[string]interface{}{
			"change_request_status":      status,
			"change_request_resolved_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestResolved
	}
	req.ChangeRequestStatus = status
	req.ChangeRequestResolvedAt = &now
	return nil
}
