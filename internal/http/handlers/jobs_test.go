package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invest_webapp/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// лок-заглушка вместо redis
type stubLock struct {
	busy bool
	jobs []string
}

func (l *stubLock) Acquire(_ context.Context, job string, _ time.Duration) (bool, func(), error) {
	l.jobs = append(l.jobs, job)
	if l.busy {
		return false, nil, nil
	}
	return true, func() {}, nil
}

// занятый лок: триггер не трогает сервис и отвечает 200 с пометкой skipped
func TestJobTriggersSkipWhenLockBusy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lock := &stubLock{busy: true}
	h := &Handler{Lock: lock} // сервисы nil: при занятом локе до них не доходит

	cases := []struct {
		job string
		fn  gin.HandlerFunc
	}{
		{scheduler.JobDailyAccrual, h.RunDailyEarnings},
		{scheduler.JobStakingMaturity, h.RunStakingMaturity},
		{scheduler.JobRetentionPurge, h.RunRetention},
	}

	for i, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

		tc.fn(c)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: ожидался 200, получено %d", tc.job, w.Code)
		}

		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: битый ответ: %v", tc.job, err)
		}
		if body["success"] != true || body["skipped"] != true {
			t.Fatalf("%s: ожидался конверт success+skipped, получено %v", tc.job, body)
		}

		// лок берется под тем же именем задачи, что и в cron-цикле
		if lock.jobs[i] != tc.job {
			t.Fatalf("ожидался лок %s, взят %s", tc.job, lock.jobs[i])
		}
	}
}
