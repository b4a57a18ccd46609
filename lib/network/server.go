package network

import (
	"fmt"
	goLog "log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"golang.org/x/net/http2"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
)

type Handlers map[string]func(http.ResponseWriter, *http.Request)

const (
	RouterNameAPI    = "api"
	RouterNameMetric = "metric"
)

var (
	UrlPathPrefixAPI    = fmt.Sprintf("/%s", RouterNameAPI)
	UrlPathPrefixMetric = fmt.Sprintf("/%s", RouterNameMetric)
)

type HandlerFunc func(w http.ResponseWriter, r *http.Request)

// Server is the HTTP/2 capable API server; all public surface hangs off the
// `/api` subrouter, operational endpoints off `/metric`.
type Server struct {
	tlsCertFile string
	tlsKeyFile  string

	server    *http.Server
	router    *mux.Router
	rootRoute *mux.Route

	ready bool

	routers map[string]*mux.Router

	config *ServerConfig
	log    logging.Logger
}

func NewServer(config *ServerConfig) (s *Server) {
	httpLog := log.New(logging.Ctx{"module": "http"})
	errorLog := goLog.New(ErrorLog15Writer{httpLog}, "", 0)

	server := &http.Server{
		Addr:              config.Addr,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		ErrorLog:          errorLog,
	}
	server.SetKeepAlivesEnabled(true)

	http2.ConfigureServer(
		server,
		&http2.Server{
			IdleTimeout: config.IdleTimeout,
		},
	)

	baseRouter := mux.NewRouter()

	s = &Server{
		server:      server,
		router:      baseRouter,
		tlsCertFile: config.TLSCertFile,
		tlsKeyFile:  config.TLSKeyFile,
		config:      config,
		log:         httpLog,
	}
	s.routers = map[string]*mux.Router{
		RouterNameAPI:    baseRouter.PathPrefix(UrlPathPrefixAPI).Subrouter(),
		RouterNameMetric: baseRouter.PathPrefix(UrlPathPrefixMetric).Subrouter(),
	}

	s.setNotReadyHandler()

	return
}

func (s *Server) Endpoint() *common.Endpoint {
	return s.config.Endpoint
}

func (s *Server) setNotReadyHandler() {
	s.rootRoute = s.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	})

	s.server.Handler = Log15Handler{log: s.log, handler: s.router}
}

func (s *Server) AddMiddleware(routerName string, mws ...mux.MiddlewareFunc) error {
	var r *mux.Router
	if len(routerName) < 1 {
		r = s.router
	} else {
		var ok bool
		if r, ok = s.routers[routerName]; !ok {
			return errors.BadRequestParameter.Clone().SetData("router", routerName)
		}
	}
	for _, mw := range mws {
		r.Use(mw)
	}
	return nil
}

func (s *Server) AddHandler(pattern string, handler http.HandlerFunc) (route *mux.Route) {
	var routerName string
	var prefix string
	switch {
	case strings.HasPrefix(pattern, UrlPathPrefixAPI):
		routerName = RouterNameAPI
		prefix = pattern[len(UrlPathPrefixAPI):]
	case strings.HasPrefix(pattern, UrlPathPrefixMetric):
		routerName = RouterNameMetric
		prefix = pattern[len(UrlPathPrefixMetric):]
	default:
		if pattern == "" || pattern == "/" {
			return s.rootRoute.Handler(handler)
		}
		return s.router.HandleFunc(pattern, handler)
	}

	r := s.routers[routerName]

	// a trailing * registers a path prefix instead of an exact path
	if strings.HasSuffix(prefix, "*") {
		pathPrefix := strings.TrimSuffix(prefix, "*")
		return r.PathPrefix(pathPrefix).Handler(handler)
	}
	return r.HandleFunc(prefix, handler)
}

func (s *Server) Ready() {
	s.server.Handler = Log15Handler{log: s.log, handler: s.router}

	s.ready = true
}

// Start will start `Server`.
func (s *Server) Start() (err error) {
	if !s.config.IsHTTPS() {
		err = s.server.ListenAndServe()
	} else {
		err = s.server.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile)
	}
	if err == http.ErrServerClosed {
		err = nil
	}

	return
}

func (s *Server) Stop() {
	s.server.Close()
}
