package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BusinessMetrics 定义钱包业务监控指标
type BusinessMetrics struct {
	CommandsTotal     *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	SignaturesTotal   *prometheus.CounterVec
	AccountsGauge     *prometheus.GaugeVec
	DecryptFailsTotal prometheus.Counter
}

// Business 全局业务指标。未注册时也可以安全写入，只是不会被导出。
var Business = newBusinessMetrics()

func newBusinessMetrics() *BusinessMetrics {
	return &BusinessMetrics{
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_commands_total",
			Help: "Wallet commands by name and result",
		}, []string{"command", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_command_duration_seconds",
			Help:    "Duration of wallet commands, including key stretching",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1.0, 2.0, 5.0},
		}, []string{"command"}),
		SignaturesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_signatures_total",
			Help: "Signatures produced and verified",
		}, []string{"op", "result"}),
		AccountsGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wallet_accounts",
			Help: "Number of accounts in the loaded wallet",
		}, []string{"wallet"}),
		DecryptFailsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_decrypt_failures_total",
			Help: "Private key decryptions rejected (wrong password or corrupted data)",
		}),
	}
}

func (m *BusinessMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CommandsTotal,
		m.CommandDuration,
		m.SignaturesTotal,
		m.AccountsGauge,
		m.DecryptFailsTotal,
	}
}

// ObserveCommand 记录一次命令执行
func ObserveCommand(command string, seconds float64, err error) {
	Business.CommandsTotal.WithLabelValues(command, result(err)).Inc()
	Business.CommandDuration.WithLabelValues(command).Observe(seconds)
}

// ObserveSignature 记录签名或验签，op 为 sign 或 verify
func ObserveSignature(op string, ok bool) {
	r := "ok"
	if !ok {
		r = "fail"
	}
	Business.SignaturesTotal.WithLabelValues(op, r).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
