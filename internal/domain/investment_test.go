package domain

import (
	"testing"
	"time"
)

func TestInvestmentStatusTransitions(t *testing.T) {
	// единственный разрешенный переход
	if !InvestmentActive.CanTransitionTo(InvestmentCompleted) {
		t.Fatalf("переход active -> completed должен быть разрешен")
	}

	// обратный переход и повторное закрытие запрещены
	if InvestmentCompleted.CanTransitionTo(InvestmentActive) {
		t.Fatalf("переход completed -> active должен быть запрещен")
	}
	if InvestmentCompleted.CanTransitionTo(InvestmentCompleted) {
		t.Fatalf("переход completed -> completed должен быть запрещен")
	}
	if InvestmentActive.CanTransitionTo(InvestmentActive) {
		t.Fatalf("переход active -> active должен быть запрещен")
	}
}

func TestEarningDay(t *testing.T) {
	moment := time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)

	day := EarningDay(moment)
	if !day.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ожидалось начало дня 2025-03-15, получено %v", day)
	}

	// момент в другом часовом поясе приводится к календарному дню UTC
	msk := time.FixedZone("MSK", 3*60*60)
	late := time.Date(2025, 3, 16, 1, 30, 0, 0, msk) // 2025-03-15 22:30 UTC
	day = EarningDay(late)
	if !day.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ожидался день 2025-03-15 UTC, получено %v", day)
	}
}
