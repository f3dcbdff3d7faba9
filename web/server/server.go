package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/df07/ascii-raytracer/pkg/pattern"
	"github.com/df07/ascii-raytracer/pkg/renderer"
	"github.com/df07/ascii-raytracer/pkg/scene"
)

// Server serves renders of the configured scene over HTTP
type Server struct {
	port      int
	cfg       *config.Config
	scenesDir string
}

// NewServer creates a new web server rendering cfg
func NewServer(port int, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{port: port, cfg: cfg, scenesDir: "scenes"}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/probe", s.handleProbe)
	mux.HandleFunc("/api/ring", s.handleRing)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConfig returns the server's scene configuration as YAML
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	data, err := s.cfg.Marshal()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleScenes lists the built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleRing draws the ring board as plain text
func (s *Server) handleRing(w http.ResponseWriter, r *http.Request) {
	board := pattern.DefaultRingBoard()

	var err error
	if board.Radius, err = parseIntParam(r.URL.Query(), "radius", board.Radius, 0, 1000); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if board.Thickness, err = parseIntParam(r.URL.Query(), "thickness", board.Thickness, 0, 1000); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(board.Render().String()))
}

// RenderRequest holds the per-request overrides of the server config
type RenderRequest struct {
	Format  string // "text", "png" or "json"
	Scene   string // Scene ID from /api/scenes; empty renders the server config
	Mirror  bool
	Workers int

	cfg *config.Config
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Format: "json"}

	if format := query.Get("format"); format != "" {
		switch format {
		case "text", "png", "json":
			req.Format = format
		default:
			return nil, fmt.Errorf("unknown format: %s", format)
		}
	}

	var err error
	req.Scene = query.Get("scene")
	if req.cfg, err = s.resolveScene(req.Scene); err != nil {
		return nil, err
	}
	if req.Mirror, err = parseBoolParam(query, "mirror", req.cfg.Render.MirrorX); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", req.cfg.Render.Workers, 0, 256); err != nil {
		return nil, err
	}
	return req, nil
}

// resolveScene returns the config for a scene ID, or the server config when id is empty
func (s *Server) resolveScene(id string) (*config.Config, error) {
	if id == "" {
		return s.cfg, nil
	}
	return scene.LoadScene(id, s.scenesDir, s.cfg)
}

// setupRenderingPipeline builds the scene and raytracer for one request
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*scene.Scene, *renderer.Raytracer, error) {
	sceneObj, err := scene.NewSceneFromConfig(req.cfg.Scene)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build scene: %w", err)
	}
	if req.Mirror {
		sceneObj = sceneObj.MirrorX()
	}

	renderConfig := renderer.RenderConfigFrom(req.cfg.Render)
	renderConfig.NumWorkers = req.Workers

	camera := renderer.NewCamera(renderer.CameraConfigFrom(req.cfg.Camera))
	raytracer := renderer.NewRaytracer(sceneObj, camera, renderConfig)
	raytracer.SetLogger(logger)
	return sceneObj, raytracer, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseVecParam parses an "x,y,z" parameter from URL query
func parseVecParam(values url.Values, key string, defaultValue core.Vec3) (core.Vec3, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("%s needs three components, got: %s", key, value)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid %s: %s", key, value)
		}
		xyz[i] = f
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
