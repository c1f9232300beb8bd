package seeds

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	availModel "tutorhub_backend/internals/features/scheduling/availability/model"
)

// ID demo tetap supaya seed idempotent dan gampang dipakai di Postman.
var (
	DemoTutorID   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	DemoLearnerID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

// Run mengisi data development: availability seminggu ke depan untuk
// tutor demo. Aman dipanggil berulang (duplikat dilewati).
func Run(db *gorm.DB) error {
	log.Println("[INFO] Seeding demo availability...")

	monday := mondayOf(time.Now().AddDate(0, 0, 7))
	for day := 0; day < 5; day++ {
		date := monday.AddDate(0, 0, day)
		for _, band := range []int16{1, 3, 5} {
			if !constants.IsValidBand(band) {
				continue
			}
			row := availModel.AvailabilityModel{
				AvailabilityTutorID: DemoTutorID,
				AvailabilityDate:    date,
				AvailabilityBand:    band,
			}
			if err := db.Where("availability_tutor_id = ? AND availability_date = ? AND availability_band = ?",
				DemoTutorID, date, band).
				FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
	}

	log.Println("[INFO] Seeding selesai ✅")
	return nil
}

func mondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
