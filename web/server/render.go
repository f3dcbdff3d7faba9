package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/df07/ascii-raytracer/pkg/framebuffer"
	"github.com/df07/ascii-raytracer/pkg/renderer"
)

// RenderResponse is the JSON body of a completed render
type RenderResponse struct {
	Rows      []string         `json:"rows"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
	ElapsedMs int64            `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	TotalPixels int     `json:"totalPixels"`
	HitPixels   int     `json:"hitPixels"`
	Coverage    float64 `json:"coverage"`
	Workers     int     `json:"workers"`
}

// RowUpdate is one scanline sent via SSE
type RowUpdate struct {
	Row       int    `json:"row"`
	TotalRows int    `json:"totalRows"`
	Text      string `json:"text"`
	Hits      int    `json:"hits"`
}

// handleRender renders the whole grid and returns it as text, PNG or JSON
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, logger := s.setupConsoleLogging()
	_, raytracer, err := s.setupRenderingPipeline(req, logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	startTime := time.Now()
	grid, stats := raytracer.Render()

	switch req.Format {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := framebuffer.NewTextSink(w).Write(r.Context(), grid); err != nil {
			log.Printf("Failed to write text render: %v", err)
		}

	case "png":
		data, err := framebuffer.PNGBytes(grid, imageConfig(req.cfg))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(data)

	default:
		data, err := framebuffer.PNGBytes(grid, imageConfig(req.cfg))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
			return
		}
		rows := make([]string, grid.Height())
		for i, row := range grid {
			rows[i] = string(row)
		}
		writeJSON(w, http.StatusOK, RenderResponse{
			Rows:      rows,
			ImageData: base64.StdEncoding.EncodeToString(data),
			Stats:     toStats(stats),
			Console:   drainConsole(consoleChan),
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
	}
}

// handleStream renders row by row, sending each scanline as an SSE event.
// Rendering stops when the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	_, raytracer, err := s.setupRenderingPipeline(req, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()

	camera := raytracer.Camera()
	rows, cols := camera.Rows(), camera.Cols()
	cells := make([]byte, cols)
	totalHits := 0

	for row := 0; row < rows; row++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		hits := raytracer.RenderRow(row, cells)
		totalHits += hits

		data, err := json.Marshal(RowUpdate{Row: row, TotalRows: rows, Text: string(cells), Hits: hits})
		if err != nil {
			s.sendSSEEvent(w, "error", err.Error())
			return
		}
		if err := s.sendSSEEvent(w, "row", string(data)); err != nil {
			return
		}
	}

	s.sendSSEEvent(w, "complete", fmt.Sprintf("%d/%d cells hit", totalHits, rows*cols))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEEvent writes one SSE event and flushes it
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

func imageConfig(cfg *config.Config) framebuffer.ImageConfig {
	return framebuffer.ImageConfig{
		PixelScale:  cfg.Output.PixelScale,
		AspectScale: cfg.Camera.AspectScale,
		Background:  cfg.Render.MissSymbol[0],
	}
}

func toStats(st renderer.RenderStats) Stats {
	return Stats{
		Rows:        st.Rows,
		Columns:     st.Columns,
		TotalPixels: st.TotalPixels,
		HitPixels:   st.HitPixels,
		Coverage:    st.Coverage,
		Workers:     st.Workers,
	}
}
