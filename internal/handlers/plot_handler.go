package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/koios/plotbox/internal/gallery"
	"github.com/koios/plotbox/internal/view"
	"github.com/koios/plotbox/pkg/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static/index.html
var staticFS embed.FS

// PlotHandler serves plugins and plot boxes over HTTP and WebSocket
type PlotHandler struct {
	gallery  *gallery.Gallery
	plugins  *models.PluginRegistry
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewPlotHandler creates a new plot handler
func NewPlotHandler(g *gallery.Gallery, plugins *models.PluginRegistry, logger *zap.Logger) *PlotHandler {
	return &PlotHandler{
		gallery: g,
		plugins: plugins,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

// RegisterRoutes registers the plot routes
func (h *PlotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/plugins", h.handlePlugins)
	mux.HandleFunc("/plots", h.handlePlots)
	mux.HandleFunc("/plots/", h.handlePlotBox)
	mux.HandleFunc("/ws", h.handleView)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", h.handleIndex)
}

// handleHealth handles GET /health - returns service health status
func (h *PlotHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "plotbox",
		"version": "1.0.0",
	})
}

// handlePlugins handles GET /plugins - returns every registered plugin descriptor
func (h *PlotHandler) handlePlugins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plugins := h.plugins.List()
	writeJSON(w, http.StatusOK, plugins)
	h.logger.Debug("Served plugins", zap.Int("count", len(plugins)))
}

// handlePlots handles GET /plots - lists the gallery
func (h *PlotHandler) handlePlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.gallery.Items())
}

// handlePlotBox handles GET /plots/{id} - returns the encoded box
func (h *PlotHandler) handlePlotBox(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/plots/"), "/")
	if id == "" {
		http.Error(w, "Plot ID required", http.StatusBadRequest)
		return
	}

	box, err := h.gallery.Box(r.Context(), id)
	if err != nil {
		if errors.Is(err, gallery.ErrUnknownPlot) {
			http.Error(w, "Plot not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to encode plot", zap.String("plot_id", id), zap.Error(err))
		http.Error(w, "Failed to encode plot", http.StatusInternalServerError)
		return
	}

	if _, err := h.plugins.Resolve(box); err != nil {
		h.logger.Error("Plot box has no registered plugin", zap.String("plot_id", id), zap.String("mode", box.Mode))
		http.Error(w, "No plugin registered for plot", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, box)
	h.logger.Debug("Served plot box", zap.String("plot_id", id), zap.Int("png_b64_size", len(box.Data["png"])))
}

// handleView handles GET /ws - streams the plugins and the gallery to a client
func (h *PlotHandler) handleView(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	sock := view.NewSocket(conn)
	defer sock.Close()

	if err := h.gallery.Show(r.Context(), sock, h.plugins.List()...); err != nil {
		h.logger.Error("Failed to show gallery", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	h.logger.Info("Gallery streamed", zap.String("remote", r.RemoteAddr))
}

// handleIndex handles GET / - serves the browser client
func (h *PlotHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
