package service

import (
	"testing"
	"time"
)

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2025, 8, 15, 3, 0, 0, 0, time.UTC)

	cutoff := RetentionCutoff(now)
	if !cutoff.Equal(time.Date(2025, 2, 15, 3, 0, 0, 0, time.UTC)) {
		t.Fatalf("ожидалась отсечка 2025-02-15, получено %v", cutoff)
	}

	// запись семимесячной давности старше отсечки и подлежит удалению
	old := now.AddDate(0, -7, 0)
	if !old.Before(cutoff) {
		t.Fatalf("запись возрастом 7 месяцев должна попадать под очистку")
	}

	// запись пятимесячной давности внутри окна хранения
	recent := now.AddDate(0, -5, 0)
	if recent.Before(cutoff) {
		t.Fatalf("запись возрастом 5 месяцев должна сохраняться")
	}
}
