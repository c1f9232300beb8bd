package constants

import (
	"fmt"
	"time"
)

// Band jadwal tetap: 6 slot 2 jam per hari.
// Semua jadwal (availability, schedule slot, change request) memakai band ini.
const (
	BandMin int16 = 1
	BandMax int16 = 6
)

type TimeBand struct {
	Band      int16
	StartHour int
	EndHour   int
}

var TimeBands = []TimeBand{
	{Band: 1, StartHour: 7, EndHour: 9},
	{Band: 2, StartHour: 9, EndHour: 11},
	{Band: 3, StartHour: 13, EndHour: 15},
	{Band: 4, StartHour: 15, EndHour: 17},
	{Band: 5, StartHour: 17, EndHour: 19},
	{Band: 6, StartHour: 19, EndHour: 21},
}

func IsValidBand(b int16) bool {
	return b >= BandMin && b <= BandMax
}

func BandByNumber(b int16) (TimeBand, bool) {
	for _, tb := range TimeBands {
		if tb.Band == b {
			return tb, true
		}
	}
	return TimeBand{}, false
}

// BandLabel: "07:00-09:00" dst, dipakai di response & notifikasi.
func BandLabel(b int16) string {
	tb, ok := BandByNumber(b)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d:00-%02d:00", tb.StartHour, tb.EndHour)
}

// BandStartAt: jam mulai band pada tanggal tertentu (lokasi mengikuti date).
func BandStartAt(date time.Time, b int16) time.Time {
	tb, ok := BandByNumber(b)
	if !ok {
		return time.Time{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), tb.StartHour, 0, 0, 0, date.Location())
}

func BandEndAt(date time.Time, b int16) time.Time {
	tb, ok := BandByNumber(b)
	if !ok {
		return time.Time{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), tb.EndHour, 0, 0, 0, date.Location())
}
