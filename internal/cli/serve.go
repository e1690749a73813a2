package cli

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treescope/pkg/canvas"
	"github.com/matzehuels/treescope/pkg/nav"
	"github.com/matzehuels/treescope/pkg/pipeline"
	"github.com/matzehuels/treescope/pkg/tree"
)

const (
	sessionCookie = "treescope_session"
	sessionIdle   = 30 * time.Minute
	shutdownGrace = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		source        sourceFlags
		addr          string
		width, height float64
	)

	cmd := &cobra.Command{
		Use:   "serve <file|url|->",
		Short: "Explore a document tree in the browser",
		Long: `Serve starts an HTTP server that shows the document tree as an image map.
Every browser session navigates independently.`,
		Example: `  treescope serve page.html --addr :8080`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], source, addr, width, height)
		},
	}

	source.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().Float64Var(&width, "width", 0, "image width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "image height (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, ref string, source sourceFlags, addr string, width, height float64) error {
	logger := loggerFromContext(ctx)

	ro := c.renderOptions(width, height, false)
	if err := ro.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(source.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	snap, err := c.loadSnapshot(ctx, runner, ref, source, ro.Width)
	if err != nil {
		return err
	}

	srv := newServer(runner, snap, int(ro.Width), int(ro.Height), logger, c.navOptions(logger)...)
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	printSuccess("Serving %s", StyleValue.Render(ref))
	printFile("http://" + displayAddr(addr))
	if exposed(addr) {
		printWarning("Listening on all interfaces; sessions are not authenticated")
	}
	printNextStep("Stop with", "Ctrl+C")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// exposed reports whether addr listens beyond the loopback interface.
func exposed(addr string) bool {
	return strings.HasPrefix(addr, ":") || strings.HasPrefix(addr, "0.0.0.0:") || strings.HasPrefix(addr, "[::]:")
}

// =============================================================================
// Server
// =============================================================================

// server hands every browser session its own raster surface and
// navigation controller over one shared initial snapshot.
type server struct {
	runner        *pipeline.Runner
	initial       *tree.Snapshot
	width, height int
	navOpts       []nav.Option
	logger        *log.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	ctrl     *nav.Controller
	pointer  *nav.Dispatcher
	surface  *canvas.Raster
	lastSeen time.Time
}

func newServer(runner *pipeline.Runner, initial *tree.Snapshot, width, height int, logger *log.Logger, opts ...nav.Option) *server {
	return &server{
		runner:   runner,
		initial:  initial,
		width:    width,
		height:   height,
		navOpts:  opts,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/click", s.handleClick)
	r.Get("/frame.png", s.handleFrame)
	r.Get("/snapshot.json", s.handleSnapshot)
	r.Post("/back", s.handleBack)
	r.Post("/reset", s.handleReset)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// session returns the caller's session, creating one and setting the
// cookie when the request carries none or an unknown id.
func (s *server) session(w http.ResponseWriter, r *http.Request) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if ck, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[ck.Value]; ok {
			sess.lastSeen = now
			return sess, nil
		}
	}
	s.evictIdle(now)

	surface, err := canvas.NewRaster(s.width, s.height)
	if err != nil {
		return nil, err
	}
	opts := append([]nav.Option{nav.WithBuildOptions(s.runner.BuildOptions()...)}, s.navOpts...)
	ctrl, err := nav.Attach(surface, s.initial, opts...)
	if err != nil {
		return nil, err
	}
	pointer := &nav.Dispatcher{}
	if err := ctrl.Bind(pointer); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sess := &session{ctrl: ctrl, pointer: pointer, surface: surface, lastSeen: now}
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("new session", "id", id, "sessions", len(s.sessions))
	return sess, nil
}

// evictIdle drops sessions unused for sessionIdle. Callers hold s.mu.
func (s *server) evictIdle(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > sessionIdle {
			delete(s.sessions, id)
		}
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>treescope · {{.Path}}</title>
<style>
body { font-family: sans-serif; margin: 1em; color: #222; }
form { display: inline; }
img { border: 1px solid #ddd; }
.meta { color: #777; }
</style>
</head>
<body>
<p><strong>{{.Path}}</strong> <span class="meta">{{.Nodes}} nodes · history {{.Depth}}</span></p>
<a href="/click"><img src="/frame.png?v={{.Version}}" width="{{.Width}}" height="{{.Height}}" ismap alt="{{.Path}}"></a>
<p>
<form method="post" action="/back"><button{{if not .Depth}} disabled{{end}}>Back</button></form>
<form method="post" action="/reset"><button{{if not .Depth}} disabled{{end}}>Reset</button></form>
<a href="/snapshot.json">snapshot.json</a>
</p>
</body>
</html>
`))

type indexData struct {
	Path          string
	Nodes         int
	Depth         int
	Width, Height int
	Version       int64
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sess.mu.Lock()
	cur := sess.ctrl.Current()
	data := indexData{
		Path:    cur.Path(),
		Nodes:   cur.Len(),
		Depth:   sess.ctrl.Depth(),
		Width:   s.width,
		Height:  s.height,
		Version: time.Now().UnixNano(),
	}
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Warn("render index", "err", err)
	}
}

// handleClick receives server-side image map clicks ("/click?x,y").
func (s *server) handleClick(w http.ResponseWriter, r *http.Request) {
	x, y, err := parseMapCoords(r.URL.RawQuery)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sess.mu.Lock()
	sess.pointer.Click(x, y)
	sess.mu.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseMapCoords parses the "x,y" query an ismap image appends.
func parseMapCoords(q string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(q, ",")
	if !ok {
		return 0, 0, errors.New("expected ?x,y")
	}
	xi, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, errors.New("invalid x coordinate")
	}
	yi, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, errors.New("invalid y coordinate")
	}
	return float64(xi), float64(yi), nil
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	sess.mu.Lock()
	err = sess.surface.EncodePNG(&buf)
	sess.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	sess.mu.Lock()
	err = tree.WriteJSON(&buf, sess.ctrl.Current())
	sess.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) { sess.ctrl.Back() })
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) { sess.ctrl.Reset() })
}

// withSession runs fn under the session lock and redirects to the index.
func (s *server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session)) {
	sess, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sess.mu.Lock()
	fn(sess)
	sess.mu.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
