package loader

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Bootstrap 是 configs/config.yaml 的强类型映射。
type Bootstrap struct {
	Server    Server    `json:"server"`
	Data      Data      `json:"data"`
	Telegram  Telegram  `json:"telegram"`
	Session   Session   `json:"session"`
	Broadcast Broadcast `json:"broadcast"`
	Log       Log       `json:"log"`
}

// Server 描述 HTTP 旁路服务（健康检查与指标）。
type Server struct {
	HTTP HTTP `json:"http"`
}

// HTTP 监听配置。
type HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data 聚合外部存储配置。
type Data struct {
	Postgres Postgres `json:"postgres"`
	Redis    Redis    `json:"redis"`
}

// Postgres 连接池参数。
type Postgres struct {
	DSN                      string   `json:"dsn"`
	MaxOpenConns             int32    `json:"max_open_conns"`
	MinOpenConns             int32    `json:"min_open_conns"`
	MaxConnLifetime          Duration `json:"max_conn_lifetime"`
	MaxConnIdleTime          Duration `json:"max_conn_idle_time"`
	HealthCheckPeriod        Duration `json:"health_check_period"`
	Schema                   string   `json:"schema"`
	EnablePreparedStatements bool     `json:"enable_prepared_statements"`
	ConnectRetries           int      `json:"connect_retries"`
	ConnectRetryDelay        Duration `json:"connect_retry_delay"`
	ProbeAttempts            int      `json:"probe_attempts"`
	ProbeDelay               Duration `json:"probe_delay"`
	AutoMigrate              bool     `json:"auto_migrate"`
}

// Redis 会话存储（可选）。
type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// Telegram Bot API 凭据与轮询参数。
type Telegram struct {
	Token       string  `json:"token"`
	Username    string  `json:"username"`
	PollTimeout int     `json:"poll_timeout"`
	Debug       bool    `json:"debug"`
	SeedAdmins  []int64 `json:"seed_admins"`
}

// Session 配置向导会话存储。
type Session struct {
	Backend   string   `json:"backend"`
	TTL       Duration `json:"ttl"`
	SweepSpec string   `json:"sweep_spec"`
	KeyPrefix string   `json:"key_prefix"`
}

// Broadcast 群发节流参数。
type Broadcast struct {
	BatchSize         int      `json:"batch_size"`
	PerRecipientDelay Duration `json:"per_recipient_delay"`
	BatchDelay        Duration `json:"batch_delay"`
	MaxAttempts       int      `json:"max_attempts"`
	RetryBuffer       Duration `json:"retry_buffer"`
}

// Log 日志级别。
type Log struct {
	Level string `json:"level"`
}

// Duration accepts "2s"-style strings or integer nanoseconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		d.Duration = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		d.Duration = parsed
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parse duration %s: %w", raw, err)
	}
	d.Duration = time.Duration(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
