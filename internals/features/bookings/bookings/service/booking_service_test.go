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
	svc "tutorhub_backend/internals/features/bookings/bookings/service"
	notifModel "tutorhub_backend/internals/features/notifications/model"
	walletModel "tutorhub_backend/internals/features/payment/wallet/model"
	walletService "tutorhub_backend/internals/features/payment/wallet/service"
	availModel "tutorhub_backend/internals/features/scheduling/availability/model"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
	slotService "tutorhub_backend/internals/features/scheduling/schedule_slots/service"
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
		&availModel.AvailabilityModel{},
		&bookingModel.BookingModel{},
		&slotModel.ScheduleSlotModel{},
		&walletModel.WalletModel{},
		&walletModel.WalletTransactionModel{},
		&notifModel.NotificationModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func fundWallet(t *testing.T, db *gorm.DB, userID uuid.UUID, amount int64) {
	t.Helper()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := walletService.Credit(tx, userID, amount, walletService.Entry{Type: walletModel.TxTypeTopup})
		return err
	})
	if err != nil {
		t.Fatalf("fund wallet: %v", err)
	}
}

func walletBalance(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var w walletModel.WalletModel
	if err := db.Where("wallet_user_id = ?", userID).First(&w).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return w.WalletBalance
}

func seedAvailability(t *testing.T, db *gorm.DB, tutorID uuid.UUID, dates []time.Time, band int16) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(dates))
	for _, d := range dates {
		row := availModel.AvailabilityModel{
			AvailabilityTutorID: tutorID,
			AvailabilityDate:    d,
			AvailabilityBand:    band,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed availability: %v", err)
		}
		ids = append(ids, row.AvailabilityID)
	}
	return ids
}

func newBookingInput(tutorID uuid.UUID, availIDs []uuid.UUID) svc.CreateBookingInput {
	return svc.CreateBookingInput{
		TutorID:          tutorID,
		SubjectID:        uuid.New(),
		NumberOfMonths:   3,
		NumberOfSessions: 5,
		Amount:           900_000,
		Deposit:          100_000,
		MonthlyPayment:   300_000,
		AvailabilityIDs:  availIDs,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateBookingHoldsDeposit(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)

	fundWallet(t, db, learnerID, 500_000)

	b, err := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if b.BookingStatus != bookingModel.BookingStatusPending {
		t.Errorf("expected pending, got %s", b.BookingStatus)
	}
	if got := walletBalance(t, db, learnerID); got != 400_000 {
		t.Errorf("expected balance 400000 after deposit hold, got %d", got)
	}

	var holds int64
	db.Model(&walletModel.WalletTransactionModel{}).
		Where("wallet_transaction_type = ?", walletModel.TxTypeDepositHold).
		Count(&holds)
	if holds != 1 {
		t.Errorf("expected 1 deposit_hold entry, got %d", holds)
	}
}

func TestCreateBookingInsufficientBalance(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)

	fundWallet(t, db, learnerID, 50_000) // kurang dari deposit

	_, err := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	if !errors.Is(err, walletService.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	var count int64
	db.Model(&bookingModel.BookingModel{}).Count(&count)
	if count != 0 {
		t.Errorf("expected booking rolled back, got %d rows", count)
	}
}

func TestCreateBookingForeignAvailability(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, otherTutor, learnerID := uuid.New(), uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, otherTutor, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 500_000)

	_, err := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	if !errors.Is(err, svc.ErrAvailabilityGone) {
		t.Fatalf("expected ErrAvailabilityGone, got %v", err)
	}
}

func TestApproveGeneratesWeeklySlots(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	// pola dua hari per minggu, 5 sesi → minggu ketiga cuma satu slot
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7), date(2026, 9, 9)}, 2)
	fundWallet(t, db, learnerID, 500_000)

	b, err := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	b, err = s.RespondBooking(tutorID, b.BookingID, svc.ActionApprove, nil)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if b.BookingStatus != bookingModel.BookingStatusApprove {
		t.Fatalf("expected approve, got %s", b.BookingStatus)
	}

	var slots []slotModel.ScheduleSlotModel
	if err := db.Order("schedule_slot_date ASC").Find(&slots).Error; err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(slots))
	}
	// slot kelima = availability pertama + 2 minggu
	want := date(2026, 9, 21)
	last := slots[4].ScheduleSlotDate
	if !last.Equal(want) {
		t.Errorf("expected last slot %v, got %v", want, last)
	}
	for _, sl := range slots {
		if sl.ScheduleSlotStatus != slotModel.ScheduleSlotStatusApproved {
			t.Errorf("expected slot approved, got %s", sl.ScheduleSlotStatus)
		}
	}
}

func TestRejectRefundsDeposit(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 500_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	if got := walletBalance(t, db, learnerID); got != 400_000 {
		t.Fatalf("expected 400000 held, got %d", got)
	}

	b, err := s.RespondBooking(tutorID, b.BookingID, svc.ActionReject, nil)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if b.BookingStatus != bookingModel.BookingStatusRejected {
		t.Errorf("expected rejected, got %s", b.BookingStatus)
	}
	if got := walletBalance(t, db, learnerID); got != 500_000 {
		t.Errorf("expected full refund to 500000, got %d", got)
	}
}

func TestCancelByLearnerOnlyWhilePending(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 500_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	b, err := s.CancelByLearner(learnerID, b.BookingID, nil)
	if err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if b.BookingStatus != bookingModel.BookingStatusCancelled {
		t.Errorf("expected cancelled, got %s", b.BookingStatus)
	}
	if got := walletBalance(t, db, learnerID); got != 500_000 {
		t.Errorf("expected deposit refunded, got %d", got)
	}

	// booking kedua: sudah approve → learner tidak bisa cancel
	b2, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	if _, err := s.RespondBooking(tutorID, b2.BookingID, svc.ActionApprove, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := s.CancelByLearner(learnerID, b2.BookingID, nil); !errors.Is(err, svc.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelByTutorRequiresReasonAndSettles(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 1_000_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	b, _ = s.RespondBooking(tutorID, b.BookingID, svc.ActionApprove, nil)
	if _, err := s.PayMonthly(learnerID, b.BookingID, time.Now(), nil); err != nil {
		t.Fatalf("pay month 1: %v", err)
	}

	if _, err := s.CancelByTutor(tutorID, b.BookingID, "", nil); !errors.Is(err, svc.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	b, err := s.CancelByTutor(tutorID, b.BookingID, "pindah kota", nil)
	if err != nil {
		t.Fatalf("cancel by tutor: %v", err)
	}
	if b.BookingCancelReason == nil || *b.BookingCancelReason != "pindah kota" {
		t.Errorf("expected cancel reason persisted")
	}
	// learner: 1_000_000 - 100_000 deposit - 300_000 bulan 1 + 100_000 refund = 700_000
	if got := walletBalance(t, db, learnerID); got != 700_000 {
		t.Errorf("expected learner balance 700000, got %d", got)
	}
	// tutor: bulan terbayar dilepas = 300_000
	if got := walletBalance(t, db, tutorID); got != 300_000 {
		t.Errorf("expected tutor balance 300000, got %d", got)
	}
}

func TestCancelByTutorVoidsGeneratedSlots(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7), date(2026, 9, 9)}, 2)
	fundWallet(t, db, learnerID, 1_000_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	b, err := s.RespondBooking(tutorID, b.BookingID, svc.ActionApprove, nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if _, err := s.CancelByTutor(tutorID, b.BookingID, "pindah kota", nil); err != nil {
		t.Fatalf("cancel by tutor: %v", err)
	}

	// Seluruh sesi booking ikut berhenti.
	var slots []slotModel.ScheduleSlotModel
	if err := db.Where("schedule_slot_booking_id = ?", b.BookingID).Find(&slots).Error; err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected generated slots to exist")
	}
	for _, sl := range slots {
		if sl.ScheduleSlotStatus != slotModel.ScheduleSlotStatusCancelled {
			t.Errorf("slot %s: expected status cancelled, got %s", sl.ScheduleSlotID, sl.ScheduleSlotStatus)
		}
	}

	// Absensi di sesi booking batal ditolak, walau jamnya sudah lewat.
	att := slotService.NewAttendanceService(db)
	late := slots[0].ScheduleSlotDate.AddDate(0, 0, 1)
	if _, _, err := att.MarkAttendance(tutorID, slots[0].ScheduleSlotID, true, late, nil); !errors.Is(err, slotService.ErrSlotNotApproved) {
		t.Fatalf("expected ErrSlotNotApproved on cancelled booking's slot, got %v", err)
	}
}

func TestPayMonthlyDueGateAndExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 2_000_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	b, _ = s.RespondBooking(tutorID, b.BookingID, svc.ActionApprove, nil)

	created := b.BookingCreatedAt

	// bulan 1: jatuh tempo sejak created_at
	b, err := s.PayMonthly(learnerID, b.BookingID, created, nil)
	if err != nil {
		t.Fatalf("pay month 1: %v", err)
	}
	if b.BookingPaidMonths != 1 {
		t.Fatalf("expected paid_months 1, got %d", b.BookingPaidMonths)
	}

	// submit ulang sebelum boundary bulan 2 → ditolak, bukan no-op
	if _, err := s.PayMonthly(learnerID, b.BookingID, created.AddDate(0, 0, 10), nil); !errors.Is(err, svc.ErrPaymentNotDue) {
		t.Fatalf("expected ErrPaymentNotDue, got %v", err)
	}

	// bulan 2 dan 3 pada boundary masing-masing
	if _, err := s.PayMonthly(learnerID, b.BookingID, created.AddDate(0, 1, 0), nil); err != nil {
		t.Fatalf("pay month 2: %v", err)
	}
	b, err = s.PayMonthly(learnerID, b.BookingID, created.AddDate(0, 2, 0), nil)
	if err != nil {
		t.Fatalf("pay month 3: %v", err)
	}
	if b.BookingPaidMonths != 3 {
		t.Fatalf("expected paid_months 3, got %d", b.BookingPaidMonths)
	}

	// semua bulan lunas
	if _, err := s.PayMonthly(learnerID, b.BookingID, created.AddDate(0, 3, 0), nil); !errors.Is(err, svc.ErrAllMonthsPaid) {
		t.Fatalf("expected ErrAllMonthsPaid, got %v", err)
	}
}

func TestFinishReleasesEscrowAndBlocksFurtherActions(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 2_000_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	b, _ = s.RespondBooking(tutorID, b.BookingID, svc.ActionApprove, nil)
	created := b.BookingCreatedAt
	s.PayMonthly(learnerID, b.BookingID, created, nil)
	s.PayMonthly(learnerID, b.BookingID, created.AddDate(0, 1, 0), nil)

	b, err := s.FinishBooking(tutorID, b.BookingID, nil)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if b.BookingStatus != bookingModel.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", b.BookingStatus)
	}
	// tutor menerima deposit 100_000 + 2 bulan * 300_000 = 700_000
	if got := walletBalance(t, db, tutorID); got != 700_000 {
		t.Errorf("expected tutor balance 700000, got %d", got)
	}

	// terminal state menolak aksi lanjutan
	if _, err := s.PayMonthly(learnerID, b.BookingID, created.AddDate(0, 2, 0), nil); !errors.Is(err, svc.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on pay after complete, got %v", err)
	}
	if _, err := s.CancelByTutor(tutorID, b.BookingID, "telat", nil); !errors.Is(err, svc.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on cancel after complete, got %v", err)
	}
	if _, err := s.FinishBooking(tutorID, b.BookingID, nil); !errors.Is(err, svc.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on double finish, got %v", err)
	}
}

func TestStaleClientVersionRejected(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 500_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))

	stale := b.BookingVersion - 1
	if _, err := s.RespondBooking(tutorID, b.BookingID, svc.ActionApprove, &stale); !errors.Is(err, svc.ErrStaleVersion) {
		t.Fatalf("expected ErrStaleVersion, got %v", err)
	}

	current := b.BookingVersion
	if _, err := s.RespondBooking(tutorID, b.BookingID, svc.ActionApprove, &current); err != nil {
		t.Fatalf("expected approve with current version, got %v", err)
	}
}

func TestRespondByWrongTutor(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewBookingService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	availIDs := seedAvailability(t, db, tutorID, []time.Time{date(2026, 9, 7)}, 1)
	fundWallet(t, db, learnerID, 500_000)

	b, _ := s.CreateBooking(learnerID, newBookingInput(tutorID, availIDs))
	if _, err := s.RespondBooking(uuid.New(), b.BookingID, svc.ActionApprove, nil); !errors.Is(err, svc.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
