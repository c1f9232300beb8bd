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
	asgModel "tutorhub_backend/internals/features/learning/assignments/model"
	svc "tutorhub_backend/internals/features/learning/assignments/service"
	notifModel "tutorhub_backend/internals/features/notifications/model"
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
		&asgModel.AssignmentTemplateModel{},
		&asgModel.AssignmentModel{},
		&asgModel.AssignmentSubmissionModel{},
		&notifModel.NotificationModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBooking(t *testing.T, db *gorm.DB, tutorID, learnerID uuid.UUID, status string) uuid.UUID {
	t.Helper()
	b := bookingModel.BookingModel{
		BookingLearnerID:        learnerID,
		BookingTutorID:          tutorID,
		BookingSubjectID:        uuid.New(),
		BookingNumberOfMonths:   1,
		BookingNumberOfSessions: 4,
		BookingStatus:           status,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b.BookingID
}

func seedTemplate(t *testing.T, db *gorm.DB, tutorID uuid.UUID) uuid.UUID {
	t.Helper()
	tpl := asgModel.AssignmentTemplateModel{
		AssignmentTemplateTutorID:     tutorID,
		AssignmentTemplateSubjectID:   uuid.New(),
		AssignmentTemplateTitle:       "Latihan Persamaan Linear",
		AssignmentTemplateDescription: "Kerjakan 10 soal terlampir",
	}
	if err := db.Create(&tpl).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	return tpl.AssignmentTemplateID
}

func openSpec(templateID uuid.UUID) svc.AssignSpec {
	now := time.Now()
	return svc.AssignSpec{
		TemplateID: templateID,
		OpenTime:   now.Add(-time.Hour),
		Deadline:   now.Add(72 * time.Hour),
	}
}

func TestAssignMultiplePartialFailure(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAssignmentService(db)
	tutorID := uuid.New()

	active := seedBooking(t, db, tutorID, uuid.New(), bookingModel.BookingStatusApprove)
	pending := seedBooking(t, db, tutorID, uuid.New(), bookingModel.BookingStatusPending)
	foreign := seedBooking(t, db, uuid.New(), uuid.New(), bookingModel.BookingStatusApprove)
	tplID := seedTemplate(t, db, tutorID)

	results := s.AssignMultiple(tutorID, []uuid.UUID{active, pending, foreign}, []svc.AssignSpec{openSpec(tplID)})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byBooking := make(map[uuid.UUID]svc.AssignResult, 3)
	for _, r := range results {
		byBooking[r.BookingID] = r
	}
	if !byBooking[active].Assigned || byBooking[active].AssignmentID == nil {
		t.Errorf("active booking should be assigned: %+v", byBooking[active])
	}
	if byBooking[pending].Assigned || byBooking[pending].Reason == "" {
		t.Errorf("pending booking should fail with reason: %+v", byBooking[pending])
	}
	if byBooking[foreign].Assigned {
		t.Errorf("foreign booking should fail: %+v", byBooking[foreign])
	}

	// Satu pasangan gagal tidak membatalkan pasangan lain.
	var n int64
	db.Model(&asgModel.AssignmentModel{}).Count(&n)
	if n != 1 {
		t.Errorf("expected exactly 1 assignment row, got %d", n)
	}
}

func TestAssignMultipleDuplicatePairRejected(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAssignmentService(db)
	tutorID := uuid.New()
	bookingID := seedBooking(t, db, tutorID, uuid.New(), bookingModel.BookingStatusApprove)
	tplID := seedTemplate(t, db, tutorID)

	first := s.AssignMultiple(tutorID, []uuid.UUID{bookingID}, []svc.AssignSpec{openSpec(tplID)})
	if !first[0].Assigned {
		t.Fatalf("first assign should succeed: %+v", first[0])
	}
	second := s.AssignMultiple(tutorID, []uuid.UUID{bookingID}, []svc.AssignSpec{openSpec(tplID)})
	if second[0].Assigned {
		t.Fatalf("duplicate (booking, template) pair must be rejected")
	}
	if second[0].Reason == "" {
		t.Error("rejection should carry a reason")
	}

	var n int64
	db.Model(&asgModel.AssignmentModel{}).Count(&n)
	if n != 1 {
		t.Errorf("expected 1 assignment row after duplicate attempt, got %d", n)
	}
}

func TestSubmitGatesAndResubmitResetsGrade(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAssignmentService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	bookingID := seedBooking(t, db, tutorID, learnerID, bookingModel.BookingStatusApprove)
	tplID := seedTemplate(t, db, tutorID)

	spec := openSpec(tplID)
	res := s.AssignMultiple(tutorID, []uuid.UUID{bookingID}, []svc.AssignSpec{spec})
	asgID := *res[0].AssignmentID

	// belum buka
	if _, err := s.Submit(learnerID, asgID, "https://files/x.pdf", "", spec.OpenTime.Add(-time.Minute)); !errors.Is(err, svc.ErrAssignmentNotOpen) {
		t.Fatalf("expected ErrAssignmentNotOpen, got %v", err)
	}
	// lewat deadline
	if _, err := s.Submit(learnerID, asgID, "https://files/x.pdf", "", spec.Deadline.Add(time.Minute)); !errors.Is(err, svc.ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
	// bukan pemilik
	if _, err := s.Submit(uuid.New(), asgID, "https://files/x.pdf", "", time.Now()); !errors.Is(err, svc.ErrNotAssignmentOwner) {
		t.Fatalf("expected ErrNotAssignmentOwner, got %v", err)
	}

	sub, err := s.Submit(learnerID, asgID, "https://files/v1.pdf", "versi pertama", time.Now())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// dinilai dulu, lalu resubmit: nilai harus ke-reset
	if _, err := s.Grade(tutorID, sub.AssignmentSubmissionID, 8, "bagus", time.Now()); err != nil {
		t.Fatalf("grade: %v", err)
	}
	resub, err := s.Submit(learnerID, asgID, "https://files/v2.pdf", "revisi", time.Now())
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resub.AssignmentSubmissionID != sub.AssignmentSubmissionID {
		t.Error("resubmit must overwrite the same row")
	}
	if resub.AssignmentSubmissionGrade != nil || resub.AssignmentSubmissionGradedAt != nil {
		t.Error("resubmit must reset grade and graded_at")
	}
	if resub.AssignmentSubmissionFileURL != "https://files/v2.pdf" {
		t.Errorf("file_url not overwritten: %s", resub.AssignmentSubmissionFileURL)
	}

	var n int64
	db.Model(&asgModel.AssignmentSubmissionModel{}).Where("assignment_submission_assignment_id = ?", asgID).Count(&n)
	if n != 1 {
		t.Errorf("expected 1 submission row, got %d", n)
	}
}

func TestGradeBoundsAndRegrade(t *testing.T) {
	db := openTestDB(t)
	s := svc.NewAssignmentService(db)
	tutorID, learnerID := uuid.New(), uuid.New()
	bookingID := seedBooking(t, db, tutorID, learnerID, bookingModel.BookingStatusApprove)
	tplID := seedTemplate(t, db, tutorID)

	res := s.AssignMultiple(tutorID, []uuid.UUID{bookingID}, []svc.AssignSpec{openSpec(tplID)})
	sub, err := s.Submit(learnerID, *res[0].AssignmentID, "https://files/x.pdf", "", time.Now())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := s.Grade(tutorID, sub.AssignmentSubmissionID, 11, "", time.Now()); !errors.Is(err, svc.ErrInvalidGrade) {
		t.Fatalf("expected ErrInvalidGrade for 11, got %v", err)
	}
	if _, err := s.Grade(tutorID, sub.AssignmentSubmissionID, -1, "", time.Now()); !errors.Is(err, svc.ErrInvalidGrade) {
		t.Fatalf("expected ErrInvalidGrade for -1, got %v", err)
	}
	if _, err := s.Grade(uuid.New(), sub.AssignmentSubmissionID, 7, "", time.Now()); !errors.Is(err, svc.ErrNotAssignmentTutor) {
		t.Fatalf("expected ErrNotAssignmentTutor, got %v", err)
	}

	graded, err := s.Grade(tutorID, sub.AssignmentSubmissionID, 7, "cukup", time.Now())
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if graded.AssignmentSubmissionGrade == nil || *graded.AssignmentSubmissionGrade != 7 {
		t.Fatalf("expected grade 7, got %v", graded.AssignmentSubmissionGrade)
	}

	// regrade menimpa
	regraded, err := s.Grade(tutorID, sub.AssignmentSubmissionID, 9, "setelah revisi", time.Now())
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}
	if *regraded.AssignmentSubmissionGrade != 9 {
		t.Errorf("expected regrade 9, got %d", *regraded.AssignmentSubmissionGrade)
	}
}
