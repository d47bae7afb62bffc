package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"invest_webapp/internal/domain"

	"github.com/google/uuid"
)

func TestParseReferralRates(t *testing.T) {
	// корректная настройка читается как есть
	rates := ParseReferralRates(json.RawMessage(`{"level1": 10, "level2": 3, "level3": 0.5}`))
	if rates.Level1 != 10 || rates.Level2 != 3 || rates.Level3 != 0.5 {
		t.Fatalf("неверные проценты: %+v", rates)
	}

	// отсутствующая настройка -> значения по умолчанию
	rates = ParseReferralRates(nil)
	if rates != domain.DefaultReferralRates {
		t.Fatalf("ожидались значения по умолчанию, получено %+v", rates)
	}

	// битый JSON -> значения по умолчанию целиком
	rates = ParseReferralRates(json.RawMessage(`{"level1": "много"`))
	if rates != domain.DefaultReferralRates {
		t.Fatalf("битая настройка должна откатываться на значения по умолчанию, получено %+v", rates)
	}

	// неположительный первый уровень -> значения по умолчанию целиком
	rates = ParseReferralRates(json.RawMessage(`{"level1": 0, "level2": 2, "level3": 1}`))
	if rates != domain.DefaultReferralRates {
		t.Fatalf("нулевой первый уровень должен откатываться целиком, получено %+v", rates)
	}
}

// lookup по карте заменяет запрос referred_by к базе
func chainLookup(m map[uuid.UUID]uuid.UUID) referrerLookup {
	return func(_ context.Context, userID uuid.UUID) (*uuid.UUID, error) {
		ref, ok := m[userID]
		if !ok {
			return nil, nil
		}
		return &ref, nil
	}
}

func TestCollectReferralChain(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	d := uuid.New()
	e := uuid.New()

	// e -> d -> c -> b -> a, но глубина ограничена тремя уровнями
	links := map[uuid.UUID]uuid.UUID{e: d, d: c, c: b, b: a}

	chain, err := CollectReferralChain(context.Background(), chainLookup(links), e, domain.MaxReferralDepth)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("ожидалось 3 уровня, получено %d", len(chain))
	}
	if chain[0] != d || chain[1] != c || chain[2] != b {
		t.Fatalf("неверный порядок цепочки: %v", chain)
	}
}

func TestCollectReferralChainShort(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	// только один пригласивший
	chain, err := CollectReferralChain(context.Background(), chainLookup(map[uuid.UUID]uuid.UUID{b: a}), b, domain.MaxReferralDepth)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(chain) != 1 || chain[0] != a {
		t.Fatalf("ожидался один уровень [%s], получено %v", a, chain)
	}

	// пригласившего нет вовсе
	chain, err = CollectReferralChain(context.Background(), chainLookup(nil), a, domain.MaxReferralDepth)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("ожидалась пустая цепочка, получено %v", chain)
	}
}

func TestCollectReferralChainCycle(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	// a пригласил b, b пригласил a - обход должен остановиться, а не зациклиться
	links := map[uuid.UUID]uuid.UUID{a: b, b: a}

	chain, err := CollectReferralChain(context.Background(), chainLookup(links), a, domain.MaxReferralDepth)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(chain) != 1 || chain[0] != b {
		t.Fatalf("цикл должен давать один уровень [%s], получено %v", b, chain)
	}

	// петля на себя
	chain, err = CollectReferralChain(context.Background(), chainLookup(map[uuid.UUID]uuid.UUID{a: a}), a, domain.MaxReferralDepth)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("петля на себя должна давать пустую цепочку, получено %v", chain)
	}
}

// неположительная сумма отклоняется до любых обращений к базе
func TestCascadeBonusInvalidAmount(t *testing.T) {
	s := NewReferralService(nil)

	for _, amount := range []float64{0, -100} {
		_, err := s.CascadeBonus(context.Background(), uuid.New(), amount)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("сумма %v: ожидалась ErrInvalidAmount, получено %v", amount, err)
		}
	}
}

func TestComputeBonus(t *testing.T) {
	cases := []struct {
		amount float64
		pct    float64
		want   float64
	}{
		{1000, 11, 110},
		{1000, 2, 20},
		{1000, 1, 10},
		{333.33, 11, 36.67}, // 36.6663 -> округление до копеек
		{0.01, 1, 0},
		{500, 0, 0},
	}

	for _, tc := range cases {
		got := ComputeBonus(tc.amount, tc.pct)
		if got != tc.want {
			t.Errorf("ComputeBonus(%v, %v) = %v, ожидалось %v", tc.amount, tc.pct, got, tc.want)
		}
	}
}
