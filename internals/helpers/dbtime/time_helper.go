// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"yogacenter_backend/internals/configs"
)

// Semua waktu disimpan UTC; tanggal kalender (filter ?date=, laporan bulanan)
// dihitung di timezone center (CENTER_TIMEZONE).

var (
	locMu    sync.Mutex
	locCache = map[string]*time.Location{}
)

// CenterLocation: timezone dari config, fallback UTC.
func CenterLocation() *time.Location {
	name := strings.TrimSpace(configs.CenterTimezone)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC
	}
	locMu.Lock()
	defer locMu.Unlock()
	if loc, ok := locCache[name]; ok {
		return loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	locCache[name] = loc
	return loc
}

func NowUTC() time.Time { return time.Now().UTC() }

// ParseDate: "2006-01-02" di loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseMonth: "2006-01" di loc, hasil = awal bulan.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t, nil
}

// DayRange: [awal hari, awal hari berikutnya) dari t di zonanya sendiri, dikembalikan UTC.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// MonthRange: [awal bulan, awal bulan berikutnya) dalam UTC.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}
