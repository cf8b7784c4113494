// Package server serves the portfolio over HTTP. Every request builds and
// loads a fresh page; query parameters are replayed as the user events a
// browser would raise on it.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ShyamSunder149/portfolio/pkg/blog"
	"github.com/ShyamSunder149/portfolio/pkg/page"
	"github.com/ShyamSunder149/portfolio/pkg/site"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

//go:embed assets
var assetFS embed.FS

// Profile is the static page header.
type Profile struct {
	Name  string
	Title string
	About string
}

// Config holds server configuration.
type Config struct {
	Addr            string
	StaticDir       string // Served under /static/; built-in assets when empty or missing
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Profile         Profile
}

// Server is the portfolio HTTP front end.
type Server struct {
	cfg    Config
	site   site.Options
	router chi.Router
}

// New creates a server building pages from opts. opts.Link is replaced by
// the server's query link builder.
func New(cfg Config, opts site.Options) *Server {
	s := &Server{cfg: cfg, site: opts}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/", s.handleIndex)
	r.Get("/fragments/blog", s.handleBlogFragment)
	r.Get("/articles/{file}", s.handleArticle)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(s.staticFS())))
	return r
}

// staticFS returns the configured static directory, or the built-in
// stylesheet and script when it is unset or does not exist.
func (s *Server) staticFS() http.FileSystem {
	if s.cfg.StaticDir != "" {
		if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
			return http.Dir(s.cfg.StaticDir)
		}
		slog.Info("Static directory not found, serving built-in assets", "dir", s.cfg.StaticDir)
	}
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Portfolio server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		slog.Info("Shutting down portfolio server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type pageData struct {
	Profile    Profile
	Containers map[string]template.HTML
	ModalOpen  bool
	CloseHref  string
}

// query is the page state carried in the URL.
type query struct {
	tag     string
	article string
}

func parseQuery(r *http.Request) query {
	v := r.URL.Query()
	return query{tag: v.Get("tag"), article: v.Get("article")}
}

// link builds hrefs for actions raised on a page rendered for q.
func (q query) link(a page.Action) string {
	v := url.Values{}
	fragment := "#blog"
	switch a.Name {
	case blog.ActionFilter:
		v.Set("tag", a.Arg)
	case blog.ActionAll:
	case blog.ActionOpen:
		if q.tag != "" {
			v.Set("tag", q.tag)
		}
		v.Set("article", a.Arg)
		fragment = ""
	case blog.ActionClose:
		if q.tag != "" {
			v.Set("tag", q.tag)
		}
	default:
		return "#"
	}
	if len(v) == 0 {
		return "/" + fragment
	}
	return "/?" + v.Encode() + fragment
}

// render loads a page with keys, replays q on it and returns its snapshot.
func (s *Server) render(ctx context.Context, keys []string, q query) (*site.Snapshot, error) {
	opts := s.site
	opts.Keys = keys
	opts.SkipAbsent = keys != nil
	opts.Link = q.link

	p := site.New(opts)
	defer p.Close()

	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	p.Wait()

	if q.tag != "" {
		p.Dispatch(blog.ActionFilter, q.tag)
	}
	if q.article != "" {
		p.Dispatch(blog.ActionOpen, q.article)
		p.Wait()
	}
	return p.Snapshot()
}

func containers(snap *site.Snapshot) map[string]template.HTML {
	return map[string]template.HTML{
		"projects":   snap.HTML[site.KeyProjects],
		"tags":       snap.HTML[site.KeyTags],
		"blogs":      snap.HTML[site.KeyBlogs],
		"skills":     snap.HTML[site.KeySkills],
		"experience": snap.HTML[site.KeyExperience],
		"body":       snap.HTML[site.KeyModalBody],
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	snap, err := s.render(r.Context(), nil, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := pageData{
		Profile:    s.cfg.Profile,
		Containers: containers(snap),
		ModalOpen:  snap.ArticleOpen,
		CloseHref:  q.link(page.Action{Name: blog.ActionClose}),
	}
	s.execute(w, "index.html", data)
}

func (s *Server) handleBlogFragment(w http.ResponseWriter, r *http.Request) {
	snap, err := s.render(r.Context(), []string{site.KeyTags, site.KeyBlogs}, parseQuery(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.execute(w, "blog.html", pageData{Containers: containers(snap)})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")

	opts := s.site
	opts.Keys = []string{site.KeyModal, site.KeyModalBody}
	p := site.New(opts)
	defer p.Close()

	if err := p.OpenArticle(r.Context(), file); err != nil {
		s.fail(w, r, err)
		return
	}
	p.Wait()

	snap, err := p.Snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(snap.HTML[site.KeyModalBody]))
}

func (s *Server) execute(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Failed to render page", "template", name, "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("Failed to render page", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// requestLogger logs every request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			slog.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestID", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}
