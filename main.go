package main

import (
	"classhub/biz/infrastructure/util/log"
	"classhub/provider"

	"github.com/cloudwego/hertz/pkg/app/server"
	prometheus "github.com/hertz-contrib/monitor-prometheus"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
)

func main() {
	provider.Init()
	c := provider.Get().Config

	tracer, cfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(c.ListenOn),
		server.WithTracer(prometheus.NewServerTracer(c.MetricsListenOn, "/metrics")),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(cfg))

	customizedRegister(h)

	log.Info("classhub listening on %s", c.ListenOn)
	h.Spin()
}
