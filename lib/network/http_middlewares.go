package network

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/metrics"
	"agora.network/agora/lib/network/httputils"
)

func RecoverMiddleware(printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", r)
					}
					httputils.WriteJSONError(w, err)
					log.Error("recover an panic", "err", err)
					if printStack == true {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware throttles by client ip; `rule.ByIPAddress` overrides
// the default rate per address.
func RateLimitMiddleware(logger logging.Logger, rule common.RateLimitRule) mux.MiddlewareFunc {
	if logger == nil {
		logger = log
	}

	defaultLimiter := limiter.New(memory.NewStore(), rule.Default)

	byIPAddress := map[string]*limiter.Limiter{}
	for ip, rate := range rule.ByIPAddress {
		byIPAddress[ip] = limiter.New(memory.NewStore(), rate)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			li := defaultLimiter
			if l, ok := byIPAddress[host]; ok {
				li = l
			}

			if li.Rate.Limit < 1 { // unlimited
				next.ServeHTTP(w, r)
				return
			}

			context, err := li.Get(r.Context(), host)
			if err != nil {
				httputils.WriteJSONError(w, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				logger.Warn("request reached the rate limit", "remote", r.RemoteAddr, "uri", r.RequestURI)
				httputils.WriteJSONError(w, errors.TooManyRequests.Clone().SetData("remote", r.RemoteAddr))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MetricsMiddleware counts and times requests per route.
func MetricsMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}

			begin := time.Now()
			writer := &ResponseLog15Writer{w: w}
			next.ServeHTTP(writer, r)

			metrics.API.AddRequest(path)
			if writer.Status() >= http.StatusBadRequest {
				metrics.API.AddRequestError(path)
			}
			metrics.API.ObserveRequest(path, time.Since(begin).Seconds())
		})
	}
}
