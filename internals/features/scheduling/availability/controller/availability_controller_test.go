package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	availController "tutorhub_backend/internals/features/scheduling/availability/controller"
	availModel "tutorhub_backend/internals/features/scheduling/availability/model"
	slotModel "tutorhub_backend/internals/features/scheduling/schedule_slots/model"
	helper "tutorhub_backend/internals/helpers"
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
		&slotModel.ScheduleSlotModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// App test dengan Locals user_id terisi, tanpa lewat JWT middleware.
func newTestApp(db *gorm.DB, tutorID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, tutorID)
		return c.Next()
	})
	ctl := availController.NewAvailabilityController(db)
	app.Get("/availability", ctl.ListWeek)
	app.Post("/availability", ctl.Add)
	app.Delete("/availability/:id", ctl.Remove)
	return app
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func nextMonday() time.Time {
	now := time.Now()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7)
}

func TestAddSkipsDuplicates(t *testing.T) {
	db := openTestDB(t)
	tutorID := uuid.New()
	app := newTestApp(db, tutorID)

	day := nextMonday().Format("2006-01-02")
	body := `{"slots":[{"date":"` + day + `","band":2},{"date":"` + day + `","band":2},{"date":"` + day + `","band":4}]}`
	resp, err := app.Test(jsonReq(http.MethodPost, "/availability", body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var n int64
	db.Model(&availModel.AvailabilityModel{}).Where("availability_tutor_id = ?", tutorID).Count(&n)
	if n != 2 {
		t.Errorf("expected 2 rows (duplicate skipped), got %d", n)
	}
}

func TestAddRejectsPastDateAndBadBand(t *testing.T) {
	db := openTestDB(t)
	app := newTestApp(db, uuid.New())

	past := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	resp, _ := app.Test(jsonReq(http.MethodPost, "/availability", `{"slots":[{"date":"`+past+`","band":1}]}`))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("past date: expected 422, got %d", resp.StatusCode)
	}

	day := nextMonday().Format("2006-01-02")
	resp, _ = app.Test(jsonReq(http.MethodPost, "/availability", `{"slots":[{"date":"`+day+`","band":7}]}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("band 7: expected 400, got %d", resp.StatusCode)
	}
}

func TestRemoveGuardedByBookedSlot(t *testing.T) {
	db := openTestDB(t)
	tutorID := uuid.New()
	app := newTestApp(db, tutorID)

	day := nextMonday()
	avail := availModel.AvailabilityModel{
		AvailabilityTutorID: tutorID,
		AvailabilityDate:    day,
		AvailabilityBand:    3,
	}
	if err := db.Create(&avail).Error; err != nil {
		t.Fatalf("seed availability: %v", err)
	}

	// Slot booking aktif menempati (tutor, tanggal, band) yang sama.
	slot := slotModel.ScheduleSlotModel{
		ScheduleSlotBookingID: uuid.New(),
		ScheduleSlotLearnerID: uuid.New(),
		ScheduleSlotTutorID:   tutorID,
		ScheduleSlotDate:      day,
		ScheduleSlotBand:      3,
		ScheduleSlotStatus:    slotModel.ScheduleSlotStatusApproved,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/availability/"+avail.AvailabilityID.String(), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 while slot occupies the band, got %d", resp.StatusCode)
	}
	var n int64
	db.Model(&availModel.AvailabilityModel{}).Where("availability_id = ?", avail.AvailabilityID).Count(&n)
	if n != 1 {
		t.Error("availability row must survive a guarded delete")
	}

	// Booking-nya batal → slot cancelled tidak lagi menghalangi.
	db.Model(&slotModel.ScheduleSlotModel{}).
		Where("schedule_slot_id = ?", slot.ScheduleSlotID).
		Update("schedule_slot_status", slotModel.ScheduleSlotStatusCancelled)
	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/availability/"+avail.AvailabilityID.String(), nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 once the occupying slot is cancelled, got %d", resp.StatusCode)
	}
	db.Model(&availModel.AvailabilityModel{}).Where("availability_id = ?", avail.AvailabilityID).Count(&n)
	if n != 0 {
		t.Error("availability row should be gone")
	}
}

func TestRemoveForeignAvailability(t *testing.T) {
	db := openTestDB(t)
	owner := uuid.New()
	avail := availModel.AvailabilityModel{
		AvailabilityTutorID: owner,
		AvailabilityDate:    nextMonday(),
		AvailabilityBand:    1,
	}
	if err := db.Create(&avail).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Tutor lain tidak bisa menghapus punya orang.
	app := newTestApp(db, uuid.New())
	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/availability/"+avail.AvailabilityID.String(), nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign availability, got %d", resp.StatusCode)
	}
}
