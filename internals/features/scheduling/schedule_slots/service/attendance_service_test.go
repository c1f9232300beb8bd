package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bookingModel "tutorhub_backend/internals/features/bookings/bookings/model"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
	svc "tutorhub_backend/internals/features/scheduling/schedule_slots/service"
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
		&bookingModel.BookingModel{},
		&slotModel.ScheduleSlotModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	learnerID uuid.UUID
	tutorID   uuid.UUID
	bookingID uuid.UUID
	slots     []slotModel.ScheduleSlotModel
}

// seedBookingWithSlots: booking approve dengan n slot mingguan band 2 (09-11).
func seedBookingWithSlots(t *testing.T, db *gorm.DB, n int) fixture {
	t.Helper()
	f := fixture{learnerID: uuid.New(), tutorID: uuid.New()}

	b := bookingModel.BookingModel{
		BookingLearnerID:        f.learnerID,
		BookingTutorID:          f.tutorID,
		BookingSubjectID:        uuid.New(),
		BookingNumberOfMonths:   1,
		BookingNumberOfSessions: int16(n),
		BookingStatus:           bookingModel.BookingStatusApprove,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	f.bookingID = b.BookingID

	base := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		sl := slotModel.ScheduleSlotModel{
			ScheduleSlotBookingID: b.BookingID,
			ScheduleSlotLearnerID: f.learnerID,
			ScheduleSlotTutorID:   f.tutorID,
			ScheduleSlotDate:      base.AddDate(0, 0, 7*i),
			ScheduleSlotBand:      2,
			ScheduleSlotStatus:    slotModel.ScheduleSlotStatusApproved,
		}
		if err := db.Create(&sl).Error; err != nil {
			t.Fatalf("seed slot: %v", err)
		}
		f.slots = append(f.slots, sl)
	}
	return f
}

func TestMarkAttendanceBeforeBandStart(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAttendanceService(db)
	f := seedBookingWithSlots(t, db, 1)

	// band 2 mulai 09:00; jam 08:59 masih terlalu awal
	early := time.Date(2026, 9, 7, 8, 59, 0, 0, time.UTC)
	if _, _, err := s.MarkAttendance(f.tutorID, f.slots[0].ScheduleSlotID, true, early, nil); !errors.Is(err, svc.ErrSlotNotStarted) {
		t.Fatalf("expected ErrSlotNotStarted, got %v", err)
	}

	// jam 09:00 tepat sudah boleh
	onTime := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	slot, _, err := s.MarkAttendance(f.tutorID, f.slots[0].ScheduleSlotID, true, onTime, nil)
	if err != nil {
		t.Fatalf("mark at band start: %v", err)
	}
	if !slot.ScheduleSlotAttended {
		t.Error("expected attended true")
	}
}

func TestMarkAttendanceProgress(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAttendanceService(db)
	f := seedBookingWithSlots(t, db, 4)

	late := time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)

	_, progress, err := s.MarkAttendance(f.learnerID, f.slots[0].ScheduleSlotID, true, late, nil)
	if err != nil {
		t.Fatalf("mark slot 1: %v", err)
	}
	if progress.TotalSessions != 4 || progress.Attended != 1 {
		t.Fatalf("expected 1/4, got %d/%d", progress.Attended, progress.TotalSessions)
	}
	if progress.Percent != 25 {
		t.Errorf("expected 25%%, got %d", progress.Percent)
	}

	_, progress, err = s.MarkAttendance(f.learnerID, f.slots[1].ScheduleSlotID, true, late, nil)
	if err != nil {
		t.Fatalf("mark slot 2: %v", err)
	}
	if progress.Attended != 2 || progress.Percent != 50 {
		t.Errorf("expected 2 attended (50%%), got %d (%d%%)", progress.Attended, progress.Percent)
	}

	// idempotent: tandai ulang slot yang sama tidak menggandakan hitungan
	_, progress, err = s.MarkAttendance(f.learnerID, f.slots[1].ScheduleSlotID, true, late, nil)
	if err != nil {
		t.Fatalf("re-mark slot 2: %v", err)
	}
	if progress.Attended != 2 {
		t.Errorf("expected attended stays 2 on re-mark, got %d", progress.Attended)
	}

	// unmark menurunkan lagi
	_, progress, err = s.MarkAttendance(f.learnerID, f.slots[0].ScheduleSlotID, false, late, nil)
	if err != nil {
		t.Fatalf("unmark slot 1: %v", err)
	}
	if progress.Attended != 1 {
		t.Errorf("expected attended back to 1, got %d", progress.Attended)
	}
}

func TestMarkAttendanceOnlyParticipants(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAttendanceService(db)
	f := seedBookingWithSlots(t, db, 1)

	late := time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)
	if _, _, err := s.MarkAttendance(uuid.New(), f.slots[0].ScheduleSlotID, true, late, nil); !errors.Is(err, svc.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestMarkAttendancePendingSlotRejected(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAttendanceService(db)
	f := seedBookingWithSlots(t, db, 1)

	if err := db.Model(&slotModel.ScheduleSlotModel{}).
		Where("schedule_slot_id = ?", f.slots[0].ScheduleSlotID).
		Update("schedule_slot_status", slotModel.ScheduleSlotStatusPending).Error; err != nil {
		t.Fatalf("downgrade slot: %v", err)
	}

	late := time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)
	if _, _, err := s.MarkAttendance(f.tutorID, f.slots[0].ScheduleSlotID, true, late, nil); !errors.Is(err, svc.ErrSlotNotApproved) {
		t.Fatalf("expected ErrSlotNotApproved, got %v", err)
	}
}

func TestMarkAttendanceStaleVersion(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAttendanceService(db)
	f := seedBookingWithSlots(t, db, 1)

	late := time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)
	stale := f.slots[0].ScheduleSlotVersion - 1
	if _, _, err := s.MarkAttendance(f.tutorID, f.slots[0].ScheduleSlotID, true, late, &stale); !errors.Is(err, svc.ErrStaleVersion) {
		t.Fatalf("expected ErrStaleVersion, got %v", err)
	}
}
