package runner

import (
	"net/http"
	"time"

	ghandlers "github.com/gorilla/handlers"
	logging "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/network"
	"agora.network/agora/lib/network/api"
	"agora.network/agora/lib/network/httpcache"
	"agora.network/agora/lib/storage"
)

// Runner owns the long-lived pieces of a governance server: the storage
// backend, the group directory, the engine and the HTTP surface. `Start`
// wires the handlers and blocks until the server stops.
type Runner struct {
	storage   *storage.LevelDBBackend
	directory *membership.Group
	engine    *governance.Engine
	server    *network.Server

	conf common.Config
	log  logging.Logger
}

// handler wrappers of httpcache.Client and httpcache.NopClient
type cachingClient interface {
	WrapHandlerFunc(http.HandlerFunc) http.HandlerFunc
}

func NewRunner(networkConfig *network.ServerConfig, st *storage.LevelDBBackend, dispatcher governance.Dispatcher, conf common.Config) (*Runner, error) {
	directory := membership.NewGroup(st)
	engine := governance.NewEngine(st, directory, dispatcher, conf)

	r := &Runner{
		storage:   st,
		directory: directory,
		engine:    engine,
		server:    network.NewServer(networkConfig),
		conf:      conf,
		log:       log.New(logging.Ctx{"endpoint": networkConfig.Endpoint.String()}),
	}

	return r, nil
}

func (r *Runner) Engine() *governance.Engine {
	return r.engine
}

func (r *Runner) Storage() *storage.LevelDBBackend {
	return r.storage
}

func (r *Runner) Network() *network.Server {
	return r.server
}

func (r *Runner) newCachingClient() cachingClient {
	if len(r.conf.HTTPCacheAdapter) < 1 {
		return httpcache.NewNopClient()
	}

	adapter, err := httpcache.NewAdapter(r.conf)
	if err != nil {
		r.log.Error("failed to create http cache adapter", "err", err)
		return httpcache.NewNopClient()
	}

	client, err := httpcache.NewClient(
		httpcache.WithAdapter(adapter),
		httpcache.WithExpire(time.Minute),
		httpcache.WithLogger(r.log),
	)
	if err != nil {
		r.log.Error("failed to create http cache client", "err", err)
		return httpcache.NewNopClient()
	}

	return client
}

func (r *Runner) Ready() {
	rateLimitMiddlewareAPI := network.RateLimitMiddleware(r.log, r.conf.RateLimitRuleAPI)
	if err := r.server.AddMiddleware(network.RouterNameAPI, rateLimitMiddlewareAPI); err != nil {
		r.log.Error("`network.RateLimitMiddleware` for `RouterNameAPI` has an error", "err", err)
		return
	}
	if err := r.server.AddMiddleware(network.RouterNameMetric, rateLimitMiddlewareAPI); err != nil {
		r.log.Error("`network.RateLimitMiddleware` for `RouterNameMetric` router has an error", "err", err)
		return
	}
	if err := r.server.AddMiddleware(network.RouterNameAPI, network.MetricsMiddleware()); err != nil {
		r.log.Error("`network.MetricsMiddleware` has an error", "err", err)
		return
	}

	// BaseRouter's middlewares impact all sub routers.
	if err := r.server.AddMiddleware("", network.RecoverMiddleware(false)); err != nil {
		r.log.Error("Middleware has an error", "err", err)
		return
	}

	{ //CORS
		allowedOrigins := ghandlers.AllowedOrigins([]string{"*"})
		allowedMethods := ghandlers.AllowedMethods([]string{"GET", "POST"})
		allowedHeaders := ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"})

		cors := ghandlers.CORS(allowedOrigins, allowedMethods, allowedHeaders)
		if err := r.server.AddMiddleware(network.RouterNameAPI, cors); err != nil {
			r.log.Error("Middleware has an error", "err", err)
			return
		}
	}

	cache := r.newCachingClient()

	apiHandler := api.NewGovernanceHandlerAPI(
		r.engine,
		r.storage,
		network.UrlPathPrefixAPI,
	)

	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.GetProposalsHandlerPattern),
		apiHandler.GetProposalsHandler,
	).Methods("GET", "OPTIONS")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.PostProposalHandlerPattern),
		apiHandler.PostProposalHandler,
	).Methods("POST").
		Headers("Content-Type", "application/json")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.GetProposalHandlerPattern),
		apiHandler.GetProposalHandler,
	).Methods("GET", "OPTIONS")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.GetProposalVotesHandlerPattern),
		cache.WrapHandlerFunc(apiHandler.GetProposalVotesHandler),
	).Methods("GET", "OPTIONS")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.GetVoteHandlerPattern),
		apiHandler.GetVoteHandler,
	).Methods("GET", "OPTIONS")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.PostVoteHandlerPattern),
		apiHandler.PostVoteHandler,
	).Methods("POST").
		Headers("Content-Type", "application/json")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.PostCloseHandlerPattern),
		apiHandler.PostCloseHandler,
	).Methods("POST")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.PostExecuteHandlerPattern),
		apiHandler.PostExecuteHandler,
	).Methods("POST")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.GetMembersHandlerPattern),
		cache.WrapHandlerFunc(apiHandler.GetMembersHandler),
	).Methods("GET", "OPTIONS")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.PostMembersHandlerPattern),
		apiHandler.PostMembersHandler,
	).Methods("POST").
		Headers("Content-Type", "application/json")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.GetMemberHandlerPattern),
		apiHandler.GetMemberHandler,
	).Methods("GET", "OPTIONS")
	r.server.AddHandler(
		apiHandler.HandlerURLPattern(api.GetInfoPattern),
		apiHandler.GetInfoHandler,
	).Methods("GET")

	r.server.AddHandler(network.UrlPathPrefixMetric, promhttp.Handler().ServeHTTP)

	r.server.Ready()
}

func (r *Runner) Start() (err error) {
	r.log.Debug("runner started")
	r.Ready()

	if err = r.server.Start(); err != nil {
		return
	}

	return
}

func (r *Runner) Stop() {
	r.server.Stop()
}
