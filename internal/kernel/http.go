// Package kernel assembles the HTTP middleware stack around the application
// routes. The stack order matters: metrics wraps everything so recovered
// panics are still counted, recovery sits above logging so a panic is logged
// with the request id already in context.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/sahyog/pkg/metrics"
	"github.com/shashiranjanraj/sahyog/pkg/middleware"
	"github.com/shashiranjanraj/sahyog/pkg/reqid"
	"github.com/shashiranjanraj/sahyog/pkg/router"
)

type HTTPKernel struct {
	Router *router.Router
}

func NewHTTPKernel() *HTTPKernel {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(200, time.Minute),
	)

	r.HandleFunc("/metrics", metrics.Handler())

	return &HTTPKernel{Router: r}
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.Router.Handler()
}
