// Package server 组装进程对外暴露的传输层：Bot 长轮询与健康检查/指标 HTTP 旁路。
package server

import (
	"context"
	stdhttp "net/http"
	"time"

	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/database"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readinessTimeout = 3 * time.Second

// NewHTTPServer 创建健康检查与指标服务。/readyz 在数据库不可达时返回 503。
func NewHTTPServer(c loader.Server, db database.Pinger, probe database.ProbePolicy, tel *Telemetry, logger log.Logger) *http.Server {
	opts := []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			kmetrics.Server(
				kmetrics.WithRequests(tel.RequestCounter),
				kmetrics.WithSeconds(tel.SecondsHistogram),
			),
			logging.Server(logger),
		),
	}
	if c.HTTP.Network != "" {
		opts = append(opts, http.Network(c.HTTP.Network))
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.HTTP.Addr))
	}
	if c.HTTP.Timeout.Duration > 0 {
		opts = append(opts, http.Timeout(c.HTTP.Timeout.Duration))
	}

	srv := http.NewServer(opts...)
	srv.Handle("/healthz", healthz())
	srv.Handle("/readyz", readyz(db, probe, log.NewHelper(logger)))
	srv.Handle("/metrics", promhttp.HandlerFor(tel.PrometheusRegistry, promhttp.HandlerOpts{}))
	return srv
}

func healthz() stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func readyz(db database.Pinger, probe database.ProbePolicy, helper *log.Helper) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if _, err := probe.Probe(ctx, db); err != nil {
			helper.WithContext(ctx).Warnw("msg", "readiness probe failed", "error", err)
			w.WriteHeader(stdhttp.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
}
