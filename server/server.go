package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RyanBlaney/sonido-pitch/logging"
	"github.com/RyanBlaney/sonido-pitch/pitch"
)

// Version reported by the health endpoint
const Version = "0.2.0"

// Server exposes the pitch analyzer over HTTP. The core stays unaware of
// transport concerns; this layer owns framing, encoding and the
// last-result session state.
type Server struct {
	cfg      *Config
	analyzer *pitch.Analyzer
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu         sync.Mutex
	lastResult *pitch.AnalysisResult
}

// New creates a server around an analyzer. A nil config selects defaults.
func New(cfg *Config, analyzer *pitch.Analyzer) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if analyzer == nil {
		analyzer = pitch.NewAnalyzer(nil, nil)
	}
	return &Server{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logging.GetGlobalLogger().WithFields(logging.Fields{"component": "server"}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/last-result", s.handleLastResult)
	mux.HandleFunc("/stream", s.handleStream)
	return mux
}

// ListenAndServe blocks serving requests on the configured address
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting sonido-pitch server", logging.Fields{
		"addr":     s.cfg.Addr,
		"max_body": s.cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// analyzeRequest is the /analyze wire format: base64 PCM plus metadata
type analyzeRequest struct {
	AudioData  string `json:"audio_data"`
	SampleRate uint32 `json:"sample_rate"`
	Profile    string `json:"profile,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error(err, "JSON parsing error")
		writeError(w, http.StatusBadRequest, "JSON parse error: "+err.Error())
		return
	}

	// The core assumes a valid positive rate; reject here
	if req.SampleRate == 0 {
		s.logger.Error(nil, "invalid sample_rate: 0")
		writeError(w, http.StatusBadRequest, "sample_rate must be greater than 0")
		return
	}

	profile, err := s.resolveProfile(req.Profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	audioBytes, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio decode error: "+err.Error())
		return
	}

	result := s.analyze(audioBytes, req.SampleRate, profile)
	s.storeLastResult(result)

	s.logger.Info("analyze request", logging.Fields{
		"bytes":    len(audioBytes),
		"notes":    len(result.Notes),
		"total_ms": time.Since(start).Milliseconds(),
	})

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLastResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.Lock()
	last := s.lastResult
	s.mu.Unlock()

	if last == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, last)
}

// handleStream upgrades to a WebSocket and analyzes each binary frame of
// raw PCM as an independent chunk, answering with a JSON result per frame.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sampleRate, err := strconv.ParseUint(r.URL.Query().Get("sample_rate"), 10, 32)
	if err != nil || sampleRate == 0 {
		writeError(w, http.StatusBadRequest, "sample_rate query parameter must be a positive integer")
		return
	}

	profile, err := s.resolveProfile(r.URL.Query().Get("profile"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(err, "websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.logger.Info("stream opened", logging.Fields{
		"remote":      conn.RemoteAddr().String(),
		"sample_rate": sampleRate,
		"profile":     profile.String(),
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Error(err, "stream read failed")
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		result := s.analyze(data, uint32(sampleRate), profile)
		s.storeLastResult(result)

		if err := conn.WriteJSON(result); err != nil {
			s.logger.Error(err, "stream write failed")
			return
		}
	}
}

// analyze runs detection plus ranking and assembles the wire result.
// Empty audio yields an empty note list so UI callers can poll cheaply.
func (s *Server) analyze(audioBytes []byte, sampleRate uint32, profile pitch.VoiceProfile) pitch.AnalysisResult {
	var ranked []pitch.DetectedNote
	if len(audioBytes) > 0 {
		notes := s.analyzer.AnalyzeRawBytes(audioBytes, sampleRate, profile)
		ranked = pitch.RankNotes(notes)
	}
	// 16-bit samples are 2 bytes each
	return pitch.NewAnalysisResult(ranked, sampleRate, len(audioBytes)/2)
}

func (s *Server) resolveProfile(raw string) (pitch.VoiceProfile, error) {
	if raw == "" {
		raw = s.cfg.DefaultProfile
	}
	return pitch.ParseProfile(raw)
}

func (s *Server) storeLastResult(result pitch.AnalysisResult) {
	s.mu.Lock()
	s.lastResult = &result
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.GetGlobalLogger().Error(err, "encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
