// Package api exposes the screenshot list over HTTP: JSON state
// endpoints, the raw BMP files, a rendered PNG of the two-pane layout,
// and a websocket stream that pushes a fresh frame whenever the model
// changes.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/cmorrow/shotlist/internal/config"
	"github.com/cmorrow/shotlist/internal/logger"
	"github.com/cmorrow/shotlist/internal/render"
	"github.com/cmorrow/shotlist/internal/shotlist"
)

// Default size of rendered preview frames.
const (
	defaultPreviewWidth  = 1024
	defaultPreviewHeight = 600
)

// Server is the HTTP API server. It doubles as the model's host: model
// redraw requests become preview frames pushed to websocket
// subscribers.
type Server struct {
	router    *mux.Router
	list      *shotlist.List
	configMgr *config.Manager
	upgrader  websocket.Upgrader

	// mu serializes all model access; the list itself is not
	// thread-safe.
	mu sync.Mutex

	// dirty coalesces redraw requests for the broadcaster goroutine.
	dirty chan struct{}

	// quit is closed when a client asks the server to shut down.
	quit     chan struct{}
	quitOnce sync.Once

	subMu       sync.Mutex
	subscribers map[chan []byte]struct{}

	scrollMin, scrollMax, scrollPage, scrollPos int
}

var _ shotlist.Host = (*Server)(nil)

// NewServer creates a new API server around the list model. The caller
// must have constructed the list with the returned server as its host.
func NewServer(configMgr *config.Manager) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		configMgr: configMgr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		dirty:       make(chan struct{}, 1),
		quit:        make(chan struct{}),
		subscribers: make(map[chan []byte]struct{}),
	}

	s.setupRoutes()
	return s
}

// SetList attaches the model. Must be called before Start; the split
// exists because the list needs its host at construction time.
func (s *Server) SetList(l *shotlist.List) {
	s.list = l
}

// RequestRedraw implements shotlist.Host. It only marks the frame
// dirty; rendering happens on the broadcaster goroutine so redraws
// issued mid-mutation never re-enter the model.
func (s *Server) RequestRedraw() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// SetScrollInfo implements shotlist.Host.
func (s *Server) SetScrollInfo(min, max, page, pos int) {
	s.scrollMin, s.scrollMax, s.scrollPage, s.scrollPos = min, max, page, pos
}

// Done is closed after a client requests shutdown through the key
// endpoint.
func (s *Server) Done() <-chan struct{} {
	return s.quit
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Screenshot list
	api.HandleFunc("/shots", s.handleGetShots).Methods("GET")
	api.HandleFunc("/shots/{name}", s.handleGetShotFile).Methods("GET")
	api.HandleFunc("/capture", s.handleCapture).Methods("POST")
	api.HandleFunc("/key", s.handleKey).Methods("POST")
	api.HandleFunc("/scroll", s.handleScroll).Methods("POST")
	api.HandleFunc("/select", s.handleSelect).Methods("POST")

	// Rendered layout
	api.HandleFunc("/stream", s.handlePreviewStream)
	s.router.HandleFunc("/preview.png", s.handlePreview).Methods("GET")

	// Configuration
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")

	// Health check
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.PathPrefix("/").HandlerFunc(s.handleIndex)
}

// ServeHTTP makes the server usable as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the HTTP server and the frame broadcaster.
func (s *Server) Start(port int) error {
	go s.broadcastLoop()

	addr := fmt.Sprintf(":%d", port)
	logger.WithComponent("api").Info().
		Str("addr", "http://localhost"+addr).
		Msg("Starting server")
	return http.ListenAndServe(addr, s.enableCORS(s.router))
}

// enableCORS adds CORS headers
func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// broadcastLoop renders a frame whenever the model reports changes and
// fans it out to all websocket subscribers.
func (s *Server) broadcastLoop() {
	for range s.dirty {
		frame, err := s.renderPNG(defaultPreviewWidth, defaultPreviewHeight)
		if err != nil {
			logger.WithComponent("api").Error().Err(err).Msg("Failed to render preview frame")
			continue
		}

		s.subMu.Lock()
		for ch := range s.subscribers {
			select {
			case ch <- frame:
			default:
				// Slow subscriber; drop the frame rather than block the
				// broadcaster.
			}
		}
		s.subMu.Unlock()
	}
}

// renderPNG paints the current layout into a fresh image and encodes
// it.
func (s *Server) renderPNG(w, h int) ([]byte, error) {
	cv := render.NewImageCanvas(w, h)

	s.mu.Lock()
	s.list.RenderMain(render.NewViewport(cv))
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, cv.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTTP Handlers

// shotEntry is the JSON shape of one list item.
type shotEntry struct {
	FileName  string `json:"file_name"`
	Timestamp string `json:"timestamp,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Selected  bool   `json:"selected"`
}

func (s *Server) handleGetShots(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entries := make([]shotEntry, 0, s.list.Len())
	for i := 0; i < s.list.Len(); i++ {
		sh := s.list.At(i)
		entries = append(entries, shotEntry{
			FileName:  sh.FileName,
			Timestamp: sh.Timestamp,
			Width:     sh.Width(),
			Height:    sh.Height(),
			Selected:  i == s.list.SelectedIndex,
		})
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (s *Server) handleGetShotFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	// Look the name up in the list rather than trusting it as a path.
	s.mu.Lock()
	var path string
	for i := 0; i < s.list.Len(); i++ {
		if filepath.Base(s.list.At(i).FileName) == name {
			path = s.list.At(i).FileName
			break
		}
	}
	s.mu.Unlock()

	if path == "" {
		http.Error(w, "No such screenshot", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/bmp")
	http.ServeFile(w, r, path)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.list.CaptureAndPrepend()
	sh := s.list.Selected()
	entry := shotEntry{
		FileName:  sh.FileName,
		Timestamp: sh.Timestamp,
		Width:     sh.Width(),
		Height:    sh.Height(),
		Selected:  true,
	}
	s.mu.Unlock()

	s.saveIndex()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	keys := map[string]shotlist.Key{
		"capture": shotlist.KeyCapture,
		"up":      shotlist.KeyUp,
		"down":    shotlist.KeyDown,
		"delete":  shotlist.KeyDelete,
		"quit":    shotlist.KeyQuit,
	}
	k, ok := keys[req.Key]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown key %q", req.Key), http.StatusBadRequest)
		return
	}

	if k == shotlist.KeyQuit {
		// Quit is host business, not model state.
		s.quitOnce.Do(func() { close(s.quit) })
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "quitting"})
		return
	}

	s.mu.Lock()
	s.list.OnKey(k)
	s.mu.Unlock()

	if k == shotlist.KeyCapture || k == shotlist.KeyDelete {
		s.saveIndex()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
		Pos    int    `json:"pos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actions := map[string]shotlist.ScrollRequest{
		"line_up":   shotlist.ScrollLineUp,
		"line_down": shotlist.ScrollLineDown,
		"page_up":   shotlist.ScrollPageUp,
		"page_down": shotlist.ScrollPageDown,
		"thumb":     shotlist.ScrollThumbPosition,
	}
	a, ok := actions[req.Action]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown scroll action %q", req.Action), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.list.OnScroll(a, req.Pos)
	pos := s.scrollPos
	max := s.scrollMax
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"pos": pos, "max": max})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.list.SelectItem(req.Index)
	selected := s.list.SelectedIndex
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"selected_index": selected})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	width, height := defaultPreviewWidth, defaultPreviewHeight
	if v := r.URL.Query().Get("w"); v != "" {
		fmt.Sscanf(v, "%d", &width)
	}
	if v := r.URL.Query().Get("h"); v != "" {
		fmt.Sscanf(v, "%d", &height)
	}
	if width <= 0 || height <= 0 || width > 8192 || height > 8192 {
		http.Error(w, "Bad preview size", http.StatusBadRequest)
		return
	}

	frame, err := s.renderPNG(width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(frame)
}

func (s *Server) handlePreviewStream(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("api")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}
	defer conn.Close()

	frames := make(chan []byte, 1)
	s.subMu.Lock()
	s.subscribers[frames] = struct{}{}
	s.subMu.Unlock()
	defer func() {
		s.subMu.Lock()
		delete(s.subscribers, frames)
		s.subMu.Unlock()
	}()

	// Send an initial frame so the client has pixels before the first
	// model change.
	frame, err := s.renderPNG(defaultPreviewWidth, defaultPreviewHeight)
	if err == nil {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}

	for frame := range frames {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			log.Debug().Err(err).Msg("WebSocket write error, dropping subscriber")
			return
		}
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// saveIndex persists the list after a mutating operation.
func (s *Server) saveIndex() {
	path := s.configMgr.Get().IndexPath()

	s.mu.Lock()
	err := s.list.SaveToFile(path)
	s.mu.Unlock()

	if err != nil {
		logger.WithComponent("api").Error().Err(err).
			Str("path", path).Msg("Failed to save screenshot index")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>shotlist</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            max-width: 800px;
            margin: 50px auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        h1 {
            color: #333;
            margin-top: 0;
        }
        img.preview {
            max-width: 100%;
            border: 1px solid #ccc;
        }
        code {
            background: #f5f5f5;
            padding: 2px 6px;
            border-radius: 3px;
            font-family: 'Courier New', monospace;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>shotlist</h1>
        <p><img class="preview" id="preview" src="/preview.png" alt="preview"></p>
        <ul>
            <li><a href="/api/shots">/api/shots</a> - Screenshot list</li>
            <li><a href="/api/config">/api/config</a> - View configuration</li>
            <li><a href="/api/health">/api/health</a> - Server health check</li>
        </ul>
        <p>Capture with <code>curl -X POST localhost/api/capture</code>;
           navigate with <code>POST /api/key {"key": "up"}</code>.</p>
    </div>
    <script>
        const ws = new WebSocket('ws://' + location.host + '/api/stream');
        ws.binaryType = 'blob';
        ws.onmessage = (ev) => {
            const url = URL.createObjectURL(ev.data);
            const img = document.getElementById('preview');
            const old = img.src;
            img.src = url;
            if (old.startsWith('blob:')) URL.revokeObjectURL(old);
        };
    </script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
