// Package loader 负责加载 bootstrap 配置、应用环境变量覆盖并推导服务元信息。
package loader

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/joho/godotenv"
)

const (
	envServiceName    = "SERVICE_NAME"
	envServiceVersion = "SERVICE_VERSION"
	envAppEnv         = "APP_ENV"
	envDatabaseURL    = "DATABASE_URL"
	envAPIToken       = "API_TOKEN"
	envBotToken       = "BOT_TOKEN"
	envBotUsername    = "BOT_USERNAME"
	envRedisURL       = "REDIS_URL"
	envPort           = "PORT"
	envLogLevel       = "LOG_LEVEL"
)

var envFileNames = []string{".env.local", ".env"}

// Params 包含构造配置 Bundle 所需的运行时输入参数。
type Params struct {
	ConfPath string // 配置文件路径（可为空，使用默认值）
}

// ServiceMetadata 保存服务标识信息，供日志和指标组件使用。
type ServiceMetadata struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
}

// Bundle 聚合强类型的配置片段，供下游 Wire 注入使用。
type Bundle struct {
	Bootstrap *Bootstrap
	Service   ServiceMetadata
}

// BuildError 捕获配置构建过程中的上下文错误信息。
type BuildError struct {
	Stage string
	Path  string
	Err   error
}

// Error 实现 error 接口，提供包含上下文的错误信息。
func (e BuildError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("config %s at %q: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Stage, e.Err)
}

// Unwrap 暴露底层错误，支持 errors.Is/As 链式查询。
func (e BuildError) Unwrap() error {
	return e.Err
}

// Build 从 bootstrap 配置文件构建 Bundle。
//
// 流程：
// 1. 解析配置路径（应用回退规则）并加载 .env 文件
// 2. 加载 YAML，扫描到 Bootstrap，应用环境变量覆盖与默认值
// 3. 校验必填项（数据库 DSN、Bot Token）
// 4. 推导服务元信息
func Build(params Params) (*Bundle, error) {
	confPath := ResolveConfPath(params.ConfPath)
	loadEnvFiles(confPath)

	bootstrap, err := loadBootstrap(confPath)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Bootstrap: bootstrap,
		Service:   buildServiceMetadata(),
	}, nil
}

// ResolveConfPath 应用回退规则确定要加载的配置目录/文件路径。
// 优先级：显式传入路径 > CONF_PATH 环境变量 > 默认路径。
func ResolveConfPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envConfPath); env != "" {
		return env
	}
	return defaultConfPath
}

// loadBootstrap 从指定路径加载并解析 Bootstrap 配置。
//
// 错误阶段：
//   - "load": 文件读取失败
//   - "scan": YAML 解析失败或类型不匹配
//   - "validate": 必填字段缺失
func loadBootstrap(confPath string) (*Bootstrap, error) {
	c := config.New(config.WithSource(file.NewSource(confPath)))
	if err := c.Load(); err != nil {
		return nil, BuildError{Stage: "load", Path: confPath, Err: err}
	}
	defer c.Close()

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, BuildError{Stage: "scan", Path: confPath, Err: err}
	}
	applyEnvOverrides(&bc)
	applyDefaults(&bc)

	if err := validate(&bc); err != nil {
		return nil, BuildError{Stage: "validate", Path: confPath, Err: err}
	}
	return &bc, nil
}

// applyEnvOverrides 应用环境变量覆盖配置文件中的特定字段。
//
// 支持的环境变量：
//   - DATABASE_URL: 覆盖 data.postgres.dsn
//   - API_TOKEN / BOT_TOKEN: 覆盖 telegram.token（API_TOKEN 优先）
//   - BOT_USERNAME: 覆盖 telegram.username
//   - REDIS_URL: 覆盖 data.redis.addr，并把会话后端切换为 redis
//   - PORT: 覆盖 server.http.addr 的端口部分（保留 host）
//   - LOG_LEVEL: 覆盖 log.level
//
// 环境变量为空时不覆盖，保留配置文件原值。
func applyEnvOverrides(bc *Bootstrap) {
	if bc == nil {
		return
	}
	if dsn := os.Getenv(envDatabaseURL); dsn != "" {
		bc.Data.Postgres.DSN = dsn
	}
	if token := firstNonEmpty(os.Getenv(envAPIToken), os.Getenv(envBotToken)); token != "" {
		bc.Telegram.Token = token
	}
	if username := os.Getenv(envBotUsername); username != "" {
		bc.Telegram.Username = strings.TrimPrefix(username, "@")
	}
	if addr := os.Getenv(envRedisURL); addr != "" {
		bc.Data.Redis.Addr = addr
		bc.Session.Backend = SessionBackendRedis
	}
	if port := os.Getenv(envPort); port != "" {
		bc.Server.HTTP.Addr = replacePort(bc.Server.HTTP.Addr, port)
	}
	if level := os.Getenv(envLogLevel); level != "" {
		bc.Log.Level = level
	}
}

// applyDefaults 为缺省字段填充默认值。
func applyDefaults(bc *Bootstrap) {
	if bc.Server.HTTP.Addr == "" {
		bc.Server.HTTP.Addr = defaultHTTPAddr
	}
	pg := &bc.Data.Postgres
	if pg.MaxOpenConns <= 0 {
		pg.MaxOpenConns = defaultMaxOpenConns
	}
	if pg.MinOpenConns <= 0 {
		pg.MinOpenConns = defaultMinOpenConns
	}
	if pg.ConnectRetries <= 0 {
		pg.ConnectRetries = defaultConnectRetries
	}
	if pg.ConnectRetryDelay.Duration <= 0 {
		pg.ConnectRetryDelay.Duration = defaultConnectRetryDelay
	}
	if pg.ProbeAttempts <= 0 {
		pg.ProbeAttempts = defaultProbeAttempts
	}
	if pg.ProbeDelay.Duration <= 0 {
		pg.ProbeDelay.Duration = defaultProbeDelay
	}
	if bc.Telegram.PollTimeout <= 0 {
		bc.Telegram.PollTimeout = defaultPollTimeout
	}
	if len(bc.Telegram.SeedAdmins) == 0 {
		bc.Telegram.SeedAdmins = append([]int64(nil), defaultSeedAdmins...)
	}
	if bc.Session.Backend == "" {
		bc.Session.Backend = SessionBackendMemory
	}
	if bc.Session.TTL.Duration <= 0 {
		bc.Session.TTL.Duration = defaultSessionTTL
	}
	if bc.Session.SweepSpec == "" {
		bc.Session.SweepSpec = defaultSweepSpec
	}
	if bc.Session.KeyPrefix == "" {
		bc.Session.KeyPrefix = defaultSessionKeyPrefix
	}
	b := &bc.Broadcast
	if b.BatchSize <= 0 {
		b.BatchSize = defaultBatchSize
	}
	if b.PerRecipientDelay.Duration <= 0 {
		b.PerRecipientDelay.Duration = defaultPerRecipientDelay
	}
	if b.BatchDelay.Duration <= 0 {
		b.BatchDelay.Duration = defaultBatchDelay
	}
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = defaultMaxAttempts
	}
	if b.RetryBuffer.Duration <= 0 {
		b.RetryBuffer.Duration = defaultRetryBuffer
	}
	if bc.Log.Level == "" {
		bc.Log.Level = defaultLogLevel
	}
}

// validate 校验启动必需的配置项，缺失任意一项进程即退出。
func validate(bc *Bootstrap) error {
	var errs []error
	if strings.TrimSpace(bc.Data.Postgres.DSN) == "" {
		errs = append(errs, errors.New("data.postgres.dsn is required (set DATABASE_URL)"))
	}
	if strings.TrimSpace(bc.Telegram.Token) == "" {
		errs = append(errs, errors.New("telegram.token is required (set API_TOKEN)"))
	}
	switch bc.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if bc.Data.Redis.Addr == "" {
			errs = append(errs, errors.New("data.redis.addr is required for redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", bc.Session.Backend))
	}
	return errors.Join(errs...)
}

// buildServiceMetadata 构建服务元信息，用于日志和指标标签。
// 数据来源：SERVICE_NAME、SERVICE_VERSION、APP_ENV 环境变量，缺省回退默认值。
func buildServiceMetadata() ServiceMetadata {
	host, _ := os.Hostname()
	return ServiceMetadata{
		Name:        firstNonEmpty(os.Getenv(envServiceName), defaultServiceName),
		Version:     firstNonEmpty(os.Getenv(envServiceVersion), defaultServiceVersion),
		Environment: firstNonEmpty(os.Getenv(envAppEnv), defaultEnvironment),
		InstanceID:  firstNonEmpty(host, "unknown"),
	}
}

// loadEnvFiles best-effort 加载配置相关的 .env 文件，失败时忽略以保持幂等。
func loadEnvFiles(confPath string) {
	files := envFileCandidates(confPath)
	if len(files) == 0 {
		return
	}
	_ = godotenv.Load(files...)
}

// envFileCandidates 按目录优先级（confPath 目录 -> 当前工作目录）返回存在的 .env 文件。
// godotenv 按顺序加载，已设置的变量不会被后续文件覆盖。
func envFileCandidates(confPath string) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, dir := range orderedDirs(confPath) {
		for _, name := range envFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			files = append(files, candidate)
			seen[candidate] = struct{}{}
		}
	}
	return files
}

// orderedDirs 返回用于搜索 .env 文件的目录列表（已去重）。
func orderedDirs(confPath string) []string {
	var dirs []string
	appendUnique := func(path string) {
		if path == "" {
			return
		}
		clean := filepath.Clean(path)
		for _, existing := range dirs {
			if existing == clean {
				return
			}
		}
		dirs = append(dirs, clean)
	}

	if confPath != "" {
		if info, err := os.Stat(confPath); err == nil {
			if info.IsDir() {
				appendUnique(confPath)
			} else {
				appendUnique(filepath.Dir(confPath))
			}
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		appendUnique(cwd)
	}
	return dirs
}

// replacePort 替换地址中的端口部分，保留 host。
//   - "0.0.0.0:8080" -> "0.0.0.0:9000"
//   - "[::1]:8080" -> "[::1]:9000"
//   - 空值或无法解析 -> "0.0.0.0:9000"
func replacePort(addr, newPort string) string {
	if addr == "" {
		return "0.0.0.0:" + newPort
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "0.0.0.0:" + newPort
	}
	return net.JoinHostPort(host, newPort)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
