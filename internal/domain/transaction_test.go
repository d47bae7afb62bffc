package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestShortID(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-4789-8abc-def012345678")

	short := ShortID(id)
	if short != "a1b2c3d4" {
		t.Fatalf("ожидалось a1b2c3d4, получено %s", short)
	}
}

func TestNewReference(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-4789-8abc-def012345678")

	ref := NewReference(RefVipEarning, id)
	if ref != "VIP-EARN-a1b2c3d4" {
		t.Fatalf("неверный тег журнала: %s", ref)
	}

	ref = NewReference(RefStakingRefund, id)
	if !strings.HasPrefix(ref, "STAKE-REFUND-") {
		t.Fatalf("ожидался префикс STAKE-REFUND-, получено %s", ref)
	}
}

func TestReferralReference(t *testing.T) {
	referred := uuid.MustParse("deadbeef-0000-4000-8000-000000000000")

	for level := 1; level <= 3; level++ {
		ref := ReferralReference(level, referred)
		want := map[int]string{
			1: "REF-L1-deadbeef",
			2: "REF-L2-deadbeef",
			3: "REF-L3-deadbeef",
		}[level]
		if ref != want {
			t.Fatalf("уровень %d: ожидалось %s, получено %s", level, want, ref)
		}
	}
}

func TestTransactionStatusIsFinal(t *testing.T) {
	if !TransactionCompleted.IsFinal() {
		t.Fatalf("completed должен быть финальным статусом")
	}
	if !TransactionRejected.IsFinal() {
		t.Fatalf("rejected должен быть финальным статусом")
	}
	if TransactionPending.IsFinal() {
		t.Fatalf("pending не финальный статус")
	}
	if TransactionApproved.IsFinal() {
		t.Fatalf("approved не финальный статус")
	}
}
