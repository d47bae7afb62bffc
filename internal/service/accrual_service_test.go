package service

import (
	"testing"
	"time"
)

func TestAccrualReportAllFailed(t *testing.T) {
	// все попытки упали, ничего не обработано - прогон считается сбойным
	r := &AccrualReport{Failed: 5}
	if !r.allFailed() {
		t.Fatalf("прогон без единой обработанной инвестиции должен считаться сбойным")
	}

	// частичный сбой - прогон успешен, ошибки попадают только в отчет
	r = &AccrualReport{VipProcessed: 3, Failed: 2}
	if r.allFailed() {
		t.Fatalf("частичный сбой не должен валить весь прогон")
	}

	// повторный прогон: все пропущено, ошибок нет
	r = &AccrualReport{Skipped: 4}
	if r.allFailed() {
		t.Fatalf("прогон из одних пропусков не сбойный")
	}
}

func TestStakingAccruable(t *testing.T) {
	unlock := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	// до даты разблокировки начисляется
	if !StakingAccruable(unlock, time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("день до разблокировки должен начисляться")
	}

	// граница включающая: сам день разблокировки еще начисляется
	if !StakingAccruable(unlock, time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("день разблокировки должен начисляться")
	}

	// после разблокировки - заморожено до погашения
	if StakingAccruable(unlock, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("день после разблокировки не должен начисляться")
	}
}
