package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"nfagent/config"
	"nfagent/internal/agent"
	"nfagent/internal/dataset"
	"nfagent/internal/models"
)

// ProgressEvent defines the structure for streaming progress events.
type ProgressEvent struct {
	Type    string `json:"type"`    // "progress", "step", "result", "error"
	Step    string `json:"step"`    // Current step description
	Message string `json:"message"` // Progress message
	Data    string `json:"data"`    // Additional data (final answer, etc.)
}

// server holds the HTTP handlers around one shared agent.
type server struct {
	agent *agent.Agent
}

// runServer starts the HTTP front end.
func runServer(ag *agent.Agent) error {
	s := &server{agent: ag}
	r := newRouter(s)

	addr := fmt.Sprintf(":%d", config.AppConfig.Server.Port)
	logrus.Infof("Starting server on %s...", addr)
	return http.ListenAndServe(addr, r)
}

func newRouter(s *server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ask", corsMiddleware(s.askHandler)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/ask-stream", corsMiddleware(s.askStreamHandler)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/upload", corsMiddleware(s.uploadHandler)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/metadata", corsMiddleware(s.metadataHandler)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", corsMiddleware(healthCheckHandler)).Methods(http.MethodGet, http.MethodOptions)
	return r
}

// CORS middleware to handle cross-origin requests.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Cache-Control")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// askHandler answers one question over the already-loaded data.
func (s *server) askHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "Missing 'question' field", http.StatusBadRequest)
		return
	}

	answer, err := s.agent.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, dataset.ErrNoData) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Error answering question: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(answer)
}

// askStreamHandler answers one question, streaming progress as
// Server-Sent Events.
func (s *server) askStreamHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendSSEError(w, "Invalid JSON body")
		return
	}
	if req.Question == "" {
		sendSSEError(w, "Missing 'question' field")
		return
	}

	sendSSEEvent(w, ProgressEvent{Type: "progress", Step: "init", Message: "Analisando pergunta..."})
	sendSSEEvent(w, ProgressEvent{Type: "step", Step: "ask", Message: "Consultando o especialista..."})

	answer, err := s.agent.Ask(r.Context(), req.Question)
	if err != nil {
		sendSSEError(w, fmt.Sprintf("Erro ao responder: %v", err))
		return
	}

	sendSSEEvent(w, ProgressEvent{
		Type:    "result",
		Step:    string(answer.Source),
		Message: "Pergunta respondida",
		Data:    answer.Text,
	})
}

// uploadHandler loads CSV/ZIP files sent as multipart form data into the
// shared store.
func (s *server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max memory
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	tempDir, err := os.MkdirTemp("", "uploaded-nf-")
	if err != nil {
		http.Error(w, "Error creating temporary directory", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tempDir)

	var loaded []string
	for _, fileHeader := range files {
		destPath, err := saveUpload(fileHeader, tempDir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		names, err := s.agent.Store().LoadFile(destPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error loading '%s': %v", fileHeader.Filename, err), http.StatusBadRequest)
			return
		}
		loaded = append(loaded, names...)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"loaded": loaded})
}

func saveUpload(fileHeader *multipart.FileHeader, tempDir string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("error opening uploaded file")
	}
	defer file.Close()

	destPath := filepath.Join(tempDir, filepath.Base(fileHeader.Filename))
	destFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("error creating file in temporary directory")
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		return "", fmt.Errorf("error copying file content")
	}
	return destPath, nil
}

// metadataHandler returns the per-file metadata view.
func (s *server) metadataHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.agent.Store().Metadata())
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// SSE helper functions.
func sendSSEEvent(w http.ResponseWriter, event ProgressEvent) {
	data, _ := json.Marshal(event)
	fmt.Fprintf(w, "data: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func sendSSEError(w http.ResponseWriter, message string) {
	sendSSEEvent(w, ProgressEvent{
		Type:    "error",
		Message: message,
	})
}
