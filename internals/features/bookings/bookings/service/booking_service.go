package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	notifService "tutorhub_backend/internals/features/notifications/service"
	availModel "tutorhub_backend/internals/features/scheduling/availability/model"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
	walletModel "tutorhub_backend/internals/features/payment/wallet/model"
	walletService "tutorhub_backend/internals/features/payment/wallet/service"
	notifModel "tutorhub_backend/internals/features/notifications/model"
)

var (
	ErrBookingNotFound   = errors.New("booking tidak ditemukan")
	ErrInvalidTransition = errors.New("status booking tidak mengizinkan aksi ini")
	ErrStaleVersion      = errors.New("booking sudah berubah, muat ulang dulu")
	ErrNotOwner          = errors.New("bukan pemilik booking")
	ErrAvailabilityGone  = errors.New("slot availability sudah tidak tersedia")
	ErrPaymentNotDue     = errors.New("pembayaran bulan ini belum jatuh tempo")
	ErrAllMonthsPaid     = errors.New("semua bulan sudah dibayar")
	ErrReasonRequired    = errors.New("alasan wajib diisi")
)

const (
	ActionApprove = "approve"
	ActionReject  = "rejected"
)

type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

/* =========================
   Create (learner)
   ========================= */

type CreateBookingInput struct {
	TutorID          uuid.UUID
	SubjectID        uuid.UUID
	NumberOfMonths   int16
	NumberOfSessions int16
	Amount           int64
	Deposit          int64
	MonthlyPayment   int64
	AvailabilityIDs  []uuid.UUID
}

// CreateBooking: request booking baru. Deposit langsung ditahan
// dari wallet learner (escrow) sampai booking selesai/batal.
func (s *BookingService) CreateBooking(learnerID uuid.UUID, in CreateBookingInput) (*bookingModel.BookingModel, error) {
	if len(in.AvailabilityIDs) == 0 {
		return nil, fmt.Errorf("%w: pilih minimal satu slot", ErrAvailabilityGone)
	}

	var out *bookingModel.BookingModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Semua availability harus milik tutor yang sama & masih ada.
		var avails []availModel.AvailabilityModel
		if err := tx.Where("availability_id IN ?", in.AvailabilityIDs).Find(&avails).Error; err != nil {
			return err
		}
		if len(avails) != len(in.AvailabilityIDs) {
			return ErrAvailabilityGone
		}
		for _, a := range avails {
			if a.AvailabilityTutorID != in.TutorID {
				return ErrAvailabilityGone
			}
		}

		ids := make(pq.StringArray, 0, len(in.AvailabilityIDs))
		for _, id := range in.AvailabilityIDs {
			ids = append(ids, id.String())
		}

		b := bookingModel.BookingModel{
			BookingLearnerID:        learnerID,
			BookingTutorID:          in.TutorID,
			BookingSubjectID:        in.SubjectID,
			BookingNumberOfMonths:   in.NumberOfMonths,
			BookingNumberOfSessions: in.NumberOfSessions,
			BookingAmount:           in.Amount,
			BookingDeposit:          in.Deposit,
			BookingMonthlyPayment:   in.MonthlyPayment,
			BookingAvailabilityIDs:  ids,
			BookingStatus:           bookingModel.BookingStatusPending,
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}

		if in.Deposit > 0 {
			if _, err := walletService.Debit(tx, learnerID, in.Deposit, walletService.Entry{
				Type:      walletModel.TxTypeDepositHold,
				BookingID: &b.BookingID,
			}); err != nil {
				return err
			}
		}

		out = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, in.TutorID, notifModel.NotificationTypeBooking,
		"Booking baru", "Ada request booking baru menunggu respon kamu.",
		map[string]interface{}{"booking_id": out.BookingID.String()})

	return out, nil
}

/* =========================
   Respond (tutor): pending → approve | rejected
   ========================= */

func (s *BookingService) RespondBooking(tutorID, bookingID uuid.UUID, action string, clientVersion *int) (*bookingModel.BookingModel, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, fmt.Errorf("%w: action harus approve/rejected", ErrInvalidTransition)
	}

	var out *bookingModel.BookingModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.lockedFetch(tx, bookingID, clientVersion)
		if err != nil {
			return err
		}
		if b.BookingTutorID != tutorID {
			return ErrNotOwner
		}
		if b.BookingStatus != bookingModel.BookingStatusPending {
			return ErrInvalidTransition
		}

		next := bookingModel.BookingStatusApprove
		if action == ActionReject {
			next = bookingModel.BookingStatusRejected
		}
		if err := s.casUpdate(tx, b, map[string]interface{}{"booking_status": next}); err != nil {
			return err
		}

		if action == ActionApprove {
			if err := s.generateSlots(tx, b); err != nil {
				return err
			}
		} else if b.BookingDeposit > 0 {
			// reject → deposit kembali ke learner
			if _, err := walletService.Credit(tx, b.BookingLearnerID, b.BookingDeposit, walletService.Entry{
				Type:      walletModel.TxTypeDepositRefund,
				BookingID: &b.BookingID,
			}); err != nil {
				return err
			}
		}

		b.BookingStatus = next
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	title, body := "Booking disetujui", "Tutor menyetujui booking kamu, jadwal sesi sudah dibuat."
	if action == ActionReject {
		title, body = "Booking ditolak", "Tutor menolak booking kamu, deposit sudah dikembalikan."
	}
	notifService.Notify(s.DB, out.BookingLearnerID, notifModel.NotificationTypeBooking, title, body,
		map[string]interface{}{"booking_id": out.BookingID.String()})

	return out, nil
}

// generateSlots: satu slot per sesi, pola mingguan dari availability
// yang dipilih saat create. Slot langsung approved.
func (s *BookingService) generateSlots(tx *gorm.DB, b *bookingModel.BookingModel) error {
	var pattern []availModel.AvailabilityModel
	if err := tx.Where("availability_id IN ?", []string(b.BookingAvailabilityIDs)).
		Order("availability_date ASC, availability_band ASC").
		Find(&pattern).Error; err != nil {
		return err
	}
	if len(pattern) != len(b.BookingAvailabilityIDs) {
		return ErrAvailabilityGone
	}

	total := int(b.BookingNumberOfSessions)
	slots := make([]slotModel.ScheduleSlotModel, 0, total)
	for week := 0; len(slots) < total; week++ {
		for _, p := range pattern {
			if len(slots) >= total {
				break
			}
			slots = append(slots, slotModel.ScheduleSlotModel{
				ScheduleSlotBookingID: b.BookingID,
				ScheduleSlotLearnerID: b.BookingLearnerID,
				ScheduleSlotTutorID:   b.BookingTutorID,
				ScheduleSlotDate:      p.AvailabilityDate.AddDate(0, 0, 7*week),
				ScheduleSlotBand:      p.AvailabilityBand,
				ScheduleSlotStatus:    slotModel.ScheduleSlotStatusApproved,
			})
		}
	}
	return tx.Create(&slots).Error
}

/* =========================
   Cancel
   ========================= */

// CancelByLearner: hanya selama pending. Deposit dikembalikan.
func (s *BookingService) CancelByLearner(learnerID, bookingID uuid.UUID, clientVersion *int) (*bookingModel.BookingModel, error) {
	var out *bookingModel.BookingModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.lockedFetch(tx, bookingID, clientVersion)
		if err != nil {
			return err
		}
		if b.BookingLearnerID != learnerID {
			return ErrNotOwner
		}
		if b.BookingStatus != bookingModel.BookingStatusPending {
			return ErrInvalidTransition
		}

		if err := s.casUpdate(tx, b, map[string]interface{}{
			"booking_status": bookingModel.BookingStatusCancelled,
		}); err != nil {
			return err
		}
		if b.BookingDeposit > 0 {
			if _, err := walletService.Credit(tx, learnerID, b.BookingDeposit, walletService.Entry{
				Type:      walletModel.TxTypeDepositRefund,
				BookingID: &b.BookingID,
			}); err != nil {
				return err
			}
		}
		b.BookingStatus = bookingModel.BookingStatusCancelled
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, out.BookingTutorID, notifModel.NotificationTypeBooking,
		"Booking dibatalkan", "Learner membatalkan request booking.",
		map[string]interface{}{"booking_id": out.BookingID.String()})
	return out, nil
}

// CancelByTutor: membatalkan booking yang sudah approve, alasan wajib.
// Deposit kembali ke learner; bulan yang sudah dibayar dilepas ke tutor
// (sesi bulan itu sudah berjalan).
func (s *BookingService) CancelByTutor(tutorID, bookingID uuid.UUID, reason string, clientVersion *int) (*bookingModel.BookingModel, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var out *bookingModel.BookingModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.lockedFetch(tx, bookingID, clientVersion)
		if err != nil {
			return err
		}
		if b.BookingTutorID != tutorID {
			return ErrNotOwner
		}
		if b.BookingStatus != bookingModel.BookingStatusApprove {
			return ErrInvalidTransition
		}

		if err := s.casUpdate(tx, b, map[string]interface{}{
			"booking_status":        bookingModel.BookingStatusCancelled,
			"booking_cancel_reason": reason,
		}); err != nil {
			return err
		}

		// Sesi yang sudah digenerate ikut berhenti: tidak bisa diabsen,
		// tidak menghalangi availability, tidak dihitung bentrok.
		if err := tx.Model(&slotModel.ScheduleSlotModel{}).
			Where("schedule_slot_booking_id = ?", b.BookingID).
			Where("schedule_slot_status <> ?", slotModel.ScheduleSlotStatusCancelled).
			Updates(map[string]interface{}{
				"schedule_slot_status":  slotModel.ScheduleSlotStatusCancelled,
				"schedule_slot_version": gorm.Expr("schedule_slot_version + 1"),
			}).Error; err != nil {
			return err
		}

		if b.BookingDeposit > 0 {
			if _, err := walletService.Credit(tx, b.BookingLearnerID, b.BookingDeposit, walletService.Entry{
				Type:      walletModel.TxTypeDepositRefund,
				BookingID: &b.BookingID,
			}); err != nil {
				return err
			}
		}
		if paid := int64(b.BookingPaidMonths) * b.BookingMonthlyPayment; paid > 0 {
			if _, err := walletService.Credit(tx, b.BookingTutorID, paid, walletService.Entry{
				Type:      walletModel.TxTypeEscrowRelease,
				BookingID: &b.BookingID,
			}); err != nil {
				return err
			}
		}

		b.BookingStatus = bookingModel.BookingStatusCancelled
		b.BookingCancelReason = &reason
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, out.BookingLearnerID, notifModel.NotificationTypeBooking,
		"Booking dibatalkan tutor", "Tutor membatalkan booking: "+reason,
		map[string]interface{}{"booking_id": out.BookingID.String()})
	return out, nil
}

/* =========================
   Finish: approve → completed
   ========================= */

// FinishBooking melepas seluruh dana escrow (deposit + bulan terbayar)
// ke tutor dan membuka eligibility review.
func (s *BookingService) FinishBooking(tutorID, bookingID uuid.UUID, clientVersion *int) (*bookingModel.BookingModel, error) {
	var out *bookingModel.BookingModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.lockedFetch(tx, bookingID, clientVersion)
		if err != nil {
			return err
		}
		if b.BookingTutorID != tutorID {
			return ErrNotOwner
		}
		if b.BookingStatus != bookingModel.BookingStatusApprove {
			return ErrInvalidTransition
		}

		if err := s.casUpdate(tx, b, map[string]interface{}{
			"booking_status": bookingModel.BookingStatusCompleted,
		}); err != nil {
			return err
		}

		release := b.BookingDeposit + int64(b.BookingPaidMonths)*b.BookingMonthlyPayment
		if release > 0 {
			if _, err := walletService.Credit(tx, b.BookingTutorID, release, walletService.Entry{
				Type:      walletModel.TxTypeEscrowRelease,
				BookingID: &b.BookingID,
			}); err != nil {
				return err
			}
		}

		b.BookingStatus = bookingModel.BookingStatusCompleted
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, out.BookingLearnerID, notifModel.NotificationTypeBooking,
		"Booking selesai", "Booking selesai, kamu sudah bisa memberi review.",
		map[string]interface{}{"booking_id": out.BookingID.String()})
	return out, nil
}

/* =========================
   Pay monthly
   ========================= */

// PayMonthly menaikkan paid_months tepat satu, hanya kalau sudah jatuh
// tempo: due = created_at + paid_months bulan. Submit ulang sebelum
// boundary berikutnya ditolak (bukan no-op) supaya exactly-once.
func (s *BookingService) PayMonthly(learnerID, bookingID uuid.UUID, now time.Time, clientVersion *int) (*bookingModel.BookingModel, error) {
	var out *bookingModel.BookingModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.lockedFetch(tx, bookingID, clientVersion)
		if err != nil {
			return err
		}
		if b.BookingLearnerID != learnerID {
			return ErrNotOwner
		}
		if b.BookingStatus != bookingModel.BookingStatusApprove {
			return ErrInvalidTransition
		}
		if b.BookingPaidMonths >= b.BookingNumberOfMonths {
			return ErrAllMonthsPaid
		}

		due := b.BookingCreatedAt.AddDate(0, int(b.BookingPaidMonths), 0)
		if now.Before(due) {
			return ErrPaymentNotDue
		}

		if _, err := walletService.Debit(tx, learnerID, b.BookingMonthlyPayment, walletService.Entry{
			Type:      walletModel.TxTypeMonthlyPayment,
			BookingID: &b.BookingID,
		}); err != nil {
			return err
		}

		if err := s.casUpdate(tx, b, map[string]interface{}{
			"booking_paid_months": gorm.Expr("booking_paid_months + 1"),
		}); err != nil {
			return err
		}

		b.BookingPaidMonths++
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(s.DB, out.BookingTutorID, notifModel.NotificationTypePayment,
		"Pembayaran bulanan", "Learner membayar bulan berikutnya.",
		map[string]interface{}{"booking_id": out.BookingID.String(), "paid_months": out.BookingPaidMonths})
	return out, nil
}

/* =========================
   Report
   ========================= */

func (s *BookingService) ReportBooking(learnerID, bookingID uuid.UUID, reason string) (*bookingModel.BookingModel, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var out *bookingModel.BookingModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.lockedFetch(tx, bookingID, nil)
		if err != nil {
			return err
		}
		if b.BookingLearnerID != learnerID {
			return ErrNotOwner
		}
		if b.IsTerminal() {
			return ErrInvalidTransition
		}

		if err := s.casUpdate(tx, b, map[string]interface{}{
			"booking_reported":      true,
			"booking_report_reason": reason,
		}); err != nil {
			return err
		}
		b.BookingReported = true
		b.BookingReportReason = &reason
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =========================
   Internal: fetch + CAS
   ========================= */

func (s *BookingService) lockedFetch(tx *gorm.DB, bookingID uuid.UUID, clientVersion *int) (*bookingModel.BookingModel, error) {
	var b bookingModel.BookingModel
	if err := tx.Where("booking_id = ?", bookingID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if clientVersion != nil && *clientVersion != b.BookingVersion {
		return nil, ErrStaleVersion
	}
	return &b, nil
}

// casUpdate: update kondisional pada (id, version). RowsAffected 0
// berarti ada write lain yang menang duluan.
func (s *BookingService) casUpdate(tx *gorm.DB, b *bookingModel.BookingModel, changes map[string]interface{}) error {
	changes["booking_version"] = gorm.Expr("booking_version + 1")
	res := tx.Model(&bookingModel.BookingModel{}).
		Where("booking_id = ? AND booking_version = ?", b.BookingID, b.BookingVersion).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	b.BookingVersion++
	return nil
}
