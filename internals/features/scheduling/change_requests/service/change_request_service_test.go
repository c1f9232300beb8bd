package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	notifModel "tutorhub_backend/internals/features/notifications/model"
	crModel "tutorhub_backend/internals/features/scheduling/change_requests/model"
	svc "tutorhub_backend/internals/features/scheduling/change_requests/service"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&slotModel.ScheduleSlotModel{},
		&crModel.ChangeRequestModel{},
		&notifModel.NotificationModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedSlot(t *testing.T, db *gorm.DB, learnerID, tutorID uuid.UUID, d time.Time, band int16) slotModel.ScheduleSlotModel {
	t.Helper()
	sl := slotModel.ScheduleSlotModel{
		ScheduleSlotBookingID: uuid.New(),
		ScheduleSlotLearnerID: learnerID,
		ScheduleSlotTutorID:   tutorID,
		ScheduleSlotDate:      d,
		ScheduleSlotBand:      band,
		ScheduleSlotStatus:    slotModel.ScheduleSlotStatusApproved,
	}
	if err := db.Create(&sl).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return sl
}

func TestCreateRejectsSameCoordinates(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)

	if _, err := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 7), 2, "salah pilih"); !errors.Is(err, svc.ErrSameSlot) {
		t.Fatalf("expected ErrSameSlot, got %v", err)
	}
	if _, err := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 8), 7, "band ngaco"); !errors.Is(err, svc.ErrInvalidBand) {
		t.Fatalf("expected ErrInvalidBand, got %v", err)
	}
	if _, err := s.Create(uuid.New(), slot.ScheduleSlotID, date(2026, 9, 8), 2, "bukan punyaku"); !errors.Is(err, svc.ErrNotSlotOwner) {
		t.Fatalf("expected ErrNotSlotOwner, got %v", err)
	}
}

func TestAcceptMovesSlotExactly(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)

	req, err := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 10), 4, "bentrok les lain")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req, err = s.Accept(tutorID, req.ChangeRequestID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if req.ChangeRequestStatus != crModel.ChangeRequestStatusApproved {
		t.Errorf("expected approved, got %s", req.ChangeRequestStatus)
	}
	if req.ChangeRequestResolvedAt == nil {
		t.Error("expected resolved_at set")
	}

	var moved slotModel.ScheduleSlotModel
	if err := db.Where("schedule_slot_id = ?", slot.ScheduleSlotID).First(&moved).Error; err != nil {
		t.Fatalf("reload slot: %v", err)
	}
	if !moved.ScheduleSlotDate.Equal(date(2026, 9, 10)) || moved.ScheduleSlotBand != 4 {
		t.Errorf("expected slot moved to 2026-09-10 band 4, got %v band %d", moved.ScheduleSlotDate, moved.ScheduleSlotBand)
	}
}

func TestAcceptConflictingTargetRejected(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)
	// sesi tutor lain sudah menempati koordinat tujuan
	seedSlot(t, db, uuid.New(), tutorID, date(2026, 9, 10), 4)

	req, err := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 10), 4, "pindah")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Accept(tutorID, req.ChangeRequestID); !errors.Is(err, svc.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	// request tetap pending, slot tidak bergeser
	var fresh crModel.ChangeRequestModel
	db.Where("change_request_id = ?", req.ChangeRequestID).First(&fresh)
	if fresh.ChangeRequestStatus != crModel.ChangeRequestStatusPending {
		t.Errorf("expected request still pending, got %s", fresh.ChangeRequestStatus)
	}
}

func TestResolveIsTerminalXOR(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)

	req, _ := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 10), 4, "pindah")
	if _, err := s.Reject(tutorID, req.ChangeRequestID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// sudah terminal: accept maupun reject ulang ditolak
	if _, err := s.Accept(tutorID, req.ChangeRequestID); !errors.Is(err, svc.ErrRequestResolved) {
		t.Fatalf("expected ErrRequestResolved on accept-after-reject, got %v", err)
	}
	if _, err := s.Reject(tutorID, req.ChangeRequestID); !errors.Is(err, svc.ErrRequestResolved) {
		t.Fatalf("expected ErrRequestResolved on double reject, got %v", err)
	}
}

func TestAcceptAutoRejectsOtherPending(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)

	first, _ := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 10), 4, "opsi A")
	second, _ := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 11), 5, "opsi B")

	if _, err := s.Accept(tutorID, first.ChangeRequestID); err != nil {
		t.Fatalf("accept first: %v", err)
	}

	var other crModel.ChangeRequestModel
	db.Where("change_request_id = ?", second.ChangeRequestID).First(&other)
	if other.ChangeRequestStatus != crModel.ChangeRequestStatusRejected {
		t.Errorf("expected sibling pending auto-rejected, got %s", other.ChangeRequestStatus)
	}
}

func TestAcceptByWrongTutor(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)

	req, _ := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 10), 4, "pindah")
	if _, err := s.Accept(uuid.New(), req.ChangeRequestID); !errors.Is(err, svc.ErrNotSlotTutor) {
		t.Fatalf("expected ErrNotSlotTutor, got %v", err)
	}
}

func TestAcceptIgnoresCancelledSlotAtTarget(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)

	// Slot di koordinat tujuan ada, tapi booking-nya sudah batal.
	ghost := seedSlot(t, db, uuid.New(), tutorID, date(2026, 9, 10), 4)
	db.Model(&slotModel.ScheduleSlotModel{}).
		Where("schedule_slot_id = ?", ghost.ScheduleSlotID).
		Update("schedule_slot_status", slotModel.ScheduleSlotStatusCancelled)

	req, err := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 10), 4, "bentrok les lain")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Accept(tutorID, req.ChangeRequestID); err != nil {
		t.Fatalf("cancelled slot must not count as a clash: %v", err)
	}

	var moved slotModel.ScheduleSlotModel
	db.Where("schedule_slot_id = ?", slot.ScheduleSlotID).First(&moved)
	if !moved.ScheduleSlotDate.Equal(date(2026, 9, 10)) || moved.ScheduleSlotBand != 4 {
		t.Errorf("slot not moved: %s band %d", moved.ScheduleSlotDate, moved.ScheduleSlotBand)
	}
}

func TestAcceptRefusesCancelledSlot(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewChangeRequestService(db)
	learnerID, tutorID := uuid.New(), uuid.New()
	slot := seedSlot(t, db, learnerID, tutorID, date(2026, 9, 7), 2)

	req, err := s.Create(learnerID, slot.ScheduleSlotID, date(2026, 9, 10), 4, "pindah")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Booking batal di antara create dan accept.
	db.Model(&slotModel.ScheduleSlotModel{}).
		Where("schedule_slot_id = ?", slot.ScheduleSlotID).
		Update("schedule_slot_status", slotModel.ScheduleSlotStatusCancelled)

	if _, err := s.Accept(tutorID, req.ChangeRequestID); !errors.Is(err, svc.ErrSlotNotApproved) {
		t.Fatalf("expected ErrSlotNotApproved for cancelled slot, got %v", err)
	}
}
