package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"courierbook/internal/config"
	"courierbook/internal/http-server/handlers/availability"
	"courierbook/internal/http-server/handlers/checkout"
	"courierbook/internal/http-server/handlers/distance"
	"courierbook/internal/http-server/handlers/errors"
	"courierbook/internal/http-server/handlers/quote"
	"courierbook/internal/http-server/handlers/stripewebhook"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"courierbook/internal/http-server/middleware/requestlog"
	"courierbook/internal/http-server/middleware/timeout"
	"courierbook/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	quote.Core
	checkout.Core
	availability.Core
	distance.Core
	stripewebhook.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(15))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Use(requestlog.New(log))
		rootApi.Post("/quote", quote.Calculate(log, handler))
		rootApi.Post("/checkout", checkout.Create(log, handler))
		rootApi.Post("/availability", availability.Check(log, handler))
		rootApi.Get("/distance", distance.Lookup(log, handler))
	})
	router.Route("/webhook", func(rootWH chi.Router) {
		rootWH.Post("/stripe", stripewebhook.Event(log, handler))
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
