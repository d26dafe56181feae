package apiserver

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIServer provides json rpc and web service for the farm ledger
type APIServer struct {
	sync.Mutex
	e       *echo.Echo
	log     *slog.Logger
	subMap  map[string]*JRPCSub
	reqCh   chan *jobRequest
	workers int
	closeWg sync.WaitGroup
	closed  bool
}

type jobRequest struct {
	req   *JRPCRequest
	resCh chan *JRPCResponse
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewAPIServer returns a APIServer with the given worker count
func NewAPIServer(workers int, log *slog.Logger) *APIServer {
	if workers <= 0 {
		workers = 1
	}
	s := &APIServer{
		e:       echo.New(),
		log:     log,
		subMap:  map[string]*JRPCSub{},
		reqCh:   make(chan *jobRequest, workers*2),
		workers: workers,
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.routes()
	for i := 0; i < workers; i++ {
		s.closeWg.Add(1)
		go s.worker()
	}
	return s
}

// Name returns the name of the service
func (s *APIServer) Name() string {
	return "farms.apiserver"
}

// Handler returns the http handler of the server
func (s *APIServer) Handler() http.Handler {
	return s.e
}

// JRPC returns the jrpc sub of the name
func (s *APIServer) JRPC(SubName string) (*JRPCSub, error) {
	s.Lock()
	defer s.Unlock()

	if _, has := s.subMap[SubName]; has {
		return nil, errors.Wrap(ErrExistSubName, SubName)
	}
	sub := NewJRPCSub()
	s.subMap[SubName] = sub
	return sub, nil
}

// Run serves the api until the server is closed
func (s *APIServer) Run(BindAddress string) error {
	s.log.Info("api server listening", "addr", BindAddress)
	if err := s.e.Start(BindAddress); err != nil && err != http.ErrServerClosed {
		return errors.WithStack(err)
	}
	return nil
}

// Close shuts the http server down and stops the workers
func (s *APIServer) Close(ctx context.Context) error {
	s.Lock()
	if s.closed {
		s.Unlock()
		return nil
	}
	s.closed = true
	s.Unlock()

	err := s.e.Shutdown(ctx)
	close(s.reqCh)
	s.closeWg.Wait()
	s.log.Info("api server closed")
	return err
}

func (s *APIServer) routes() {
	s.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	s.e.Use(middleware.Recover())
	s.e.POST("/api/endpoints/http", s.handleHTTP)
	s.e.GET("/api/endpoints/websocket", s.handleWebsocket)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
