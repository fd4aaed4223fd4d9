// Package server wires the API runtime and HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lumeapp/lume/internal/platform/assets/imagecdn"
	"github.com/lumeapp/lume/internal/platform/config"
	"github.com/lumeapp/lume/internal/platform/storage/blobstore"
	"github.com/lumeapp/lume/internal/platform/timeouts"
	"github.com/lumeapp/lume/internal/services/api/auth"
	"github.com/lumeapp/lume/internal/services/api/domain/directory"
	"github.com/lumeapp/lume/internal/services/api/domain/engagement"
	"github.com/lumeapp/lume/internal/services/api/domain/graph"
	"github.com/lumeapp/lume/internal/services/api/domain/notify"
	"github.com/lumeapp/lume/internal/services/api/domain/posts"
	"github.com/lumeapp/lume/internal/services/api/identity"
	module "github.com/lumeapp/lume/internal/services/api/module"
	"github.com/lumeapp/lume/internal/services/api/modules"
	apisqlite "github.com/lumeapp/lume/internal/services/api/storage/sqlite"
)

type serverEnv struct {
	DBPath     string `env:"LUME_API_DB_PATH"`
	MediaPath  string `env:"LUME_API_MEDIA_PATH"`
	CDNBaseURL string `env:"LUME_MEDIA_CDN_BASE_URL"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "api.db")
	}
	if strings.TrimSpace(cfg.MediaPath) == "" {
		cfg.MediaPath = filepath.Join("data", "media")
	}
	return cfg
}

// Options carries explicit server wiring, overriding environment loading.
type Options struct {
	Identity   identity.Config
	DBPath     string
	MediaPath  string
	CDNBaseURL string
}

// Server hosts the API HTTP surface and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *apisqlite.Store
	blobs      *blobstore.DiskStore
}

// New creates a configured API server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured API server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	identityCfg, err := identity.LoadConfigFromEnv(nil)
	if err != nil {
		return nil, fmt.Errorf("load identity config: %w", err)
	}
	srvEnv := loadServerEnv()
	return NewWithOptions(addr, Options{
		Identity:   identityCfg,
		DBPath:     srvEnv.DBPath,
		MediaPath:  srvEnv.MediaPath,
		CDNBaseURL: srvEnv.CDNBaseURL,
	})
}

// NewWithOptions creates a configured API server from explicit options.
func NewWithOptions(addr string, opts Options) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	store, err := openAPIStore(opts.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	blobs, err := blobstore.OpenDisk(opts.MediaPath)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("open media store: %w", err)
	}

	directoryService := directory.NewService(store, nil, nil)
	graphService := graph.NewService(store, nil, nil)
	postsService := posts.NewService(store, store, store, blobs, imageResolver(opts.CDNBaseURL), nil, nil)
	engagementService := engagement.NewService(store, store, store, nil, nil)
	notifyService := notify.NewService(store, store, store)

	handler, err := modules.Compose(module.Dependencies{
		Directory:  directoryService,
		Graph:      graphService,
		Posts:      postsService,
		Engagement: engagementService,
		Notify:     notifyService,
		Media:      blobs,
		Uploads:    store,
	}, modules.Default())
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("compose modules: %w", err)
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", handleHealthz)
	root.Handle("/v1/", auth.Middleware(opts.Identity, directoryService)(handler))

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           otelhttp.NewHandler(root, "api"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
		blobs: blobs,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an API server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("api server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

// Close releases API server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close api store: %v", err)
		}
	}
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func openAPIStore(path string) (*apisqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := apisqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open api sqlite store: %w", err)
	}
	return store, nil
}

// feedImageWidthPX bounds delivered post images to the app's feed width.
const feedImageWidthPX = 1080

// cdnResolver serves post images through the configured CDN base.
type cdnResolver struct {
	cdn *imagecdn.CDN
}

func (r cdnResolver) ImageURL(storageID string) string {
	url, err := r.cdn.URL(imagecdn.Request{
		AssetID:  storageID,
		Delivery: &imagecdn.Delivery{WidthPX: feedImageWidthPX},
	})
	if err != nil {
		return ""
	}
	return url
}

// localResolver serves post images from the API's own media routes.
type localResolver struct{}

func (localResolver) ImageURL(storageID string) string {
	return "/v1/media/" + storageID
}

func imageResolver(cdnBase string) posts.ImageResolver {
	if strings.TrimSpace(cdnBase) == "" {
		return localResolver{}
	}
	return cdnResolver{cdn: imagecdn.New(cdnBase)}
}
