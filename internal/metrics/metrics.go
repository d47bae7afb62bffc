package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	earningsCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_earnings_credited_total",
		Help: "Сумма начисленного дневного дохода по типам инвестиций",
	}, []string{"investment_type"})

	bonusesPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_referral_bonuses_paid_total",
		Help: "Сумма выплаченных реферальных бонусов по уровням",
	}, []string{"level"})

	principalRefunded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invest_staking_principal_refunded_total",
		Help: "Сумма возвращенного тела по погашенным стейкингам",
	})

	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_job_runs_total",
		Help: "Количество прогонов фоновых задач",
	}, []string{"job", "success"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invest_job_duration_seconds",
		Help:    "Длительность прогонов фоновых задач",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_http_requests_total",
		Help: "Количество HTTP-запросов",
	}, []string{"method", "path", "status"})
)

// EarningCredited учитывает одно дневное начисление
func EarningCredited(investmentType string, amount float64) {
	earningsCredited.WithLabelValues(investmentType).Add(amount)
}

// BonusPaid учитывает выплату реферального бонуса
func BonusPaid(level int, amount float64) {
	bonusesPaid.WithLabelValues(strconv.Itoa(level)).Add(amount)
}

// PrincipalRefunded учитывает возврат тела стейкинга
func PrincipalRefunded(amount float64) {
	principalRefunded.Add(amount)
}

// ObserveJobRun учитывает прогон фоновой задачи
func ObserveJobRun(job string, success bool, duration time.Duration) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// HTTPRequest учитывает обработанный HTTP-запрос
func HTTPRequest(method, path string, status int) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
