package daemon

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"brickforge/internal/api"
	"brickforge/internal/jobs"
	"brickforge/internal/logging"
	"brickforge/internal/metadata"
	"brickforge/internal/pipeline"
	"brickforge/internal/services"
	"brickforge/internal/services/rebrickable"
)

// Validator resolves set numbers against the catalog.
type Validator interface {
	ValidateSet(ctx context.Context, setNumber string) (*rebrickable.SetInfo, string, error)
}

// APIServer exposes the daemon over HTTP.
type APIServer struct {
	manager   *pipeline.Manager
	store     *metadata.Store
	validator Validator
	logger    *slog.Logger
	server    *http.Server
}

// NewAPIServer builds the HTTP server bound to addr.
func NewAPIServer(addr string, manager *pipeline.Manager, store *metadata.Store, validator Validator, logger *slog.Logger) *APIServer {
	s := &APIServer{
		manager:   manager,
		store:     store,
		validator: validator,
		logger:    logging.NewComponentLogger(logger, "api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/process/{set}", s.handleProcess)
	mux.HandleFunc("GET /api/status/{set}", s.handleStatus)
	mux.HandleFunc("GET /api/validate/{set}", s.handleValidate)
	mux.HandleFunc("GET /api/sets", s.handleSets)
	mux.HandleFunc("GET /api/sets/{set}", s.handleSetDetail)
	mux.HandleFunc("GET /download/{set}/zip", s.handleDownloadZip)
	mux.HandleFunc("GET /download/{set}/{part}", s.handleDownloadSTL)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}
	return s
}

// Start begins serving in the background. Listen errors other than clean
// shutdown are logged, not returned, since they happen after Start.
func (s *APIServer) Start() error {
	ln, err := newListener(s.server.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server terminated", logging.Error(err))
		}
	}()
	s.logger.Info("api server listening", logging.String("addr", s.server.Addr))
	return nil
}

// Stop gracefully shuts down the server, honoring ctx for the drain window.
func (s *APIServer) Stop(ctx context.Context) {
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("api server shutdown", logging.Error(err))
	}
}

func (s *APIServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	setNumber := r.PathValue("set")
	if setNumber == "" {
		s.writeError(w, http.StatusBadRequest, "set number required")
		return
	}

	record, err := s.manager.Submit(setNumber)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusAccepted, api.ProcessResponse{
			JobID:     record.ID,
			SetNumber: setNumber,
			Status:    string(record.Status),
			Message:   "Set queued for processing",
		})
	case errors.Is(err, pipeline.ErrAlreadyProcessed):
		s.writeJSON(w, http.StatusOK, api.ProcessResponse{
			SetNumber: setNumber,
			Status:    string(jobs.StatusCompleted),
			Message:   "Set already processed",
		})
	case errors.Is(err, pipeline.ErrAlreadyInProgress):
		s.writeJSON(w, http.StatusConflict, api.ProcessResponse{
			JobID:     record.ID,
			SetNumber: setNumber,
			Status:    string(record.Status),
			Message:   "Set already being processed",
		})
	case errors.Is(err, pipeline.ErrQueueFull):
		s.writeError(w, http.StatusServiceUnavailable, "processing queue full, retry later")
	case errors.Is(err, pipeline.ErrNotRunning):
		s.writeError(w, http.StatusServiceUnavailable, "daemon is shutting down")
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *APIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	record := s.manager.Status(r.PathValue("set"))
	s.writeJSON(w, http.StatusOK, api.StatusFromRecord(record))
}

func (s *APIServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	setNumber := r.PathValue("set")
	info, resolved, err := s.validator.ValidateSet(r.Context(), setNumber)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			s.writeJSON(w, http.StatusOK, api.ValidateResponse{Valid: false, SetNumber: setNumber})
			return
		}
		s.writeError(w, http.StatusBadGateway, "catalog lookup failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.ValidateResponse{
		Valid:     true,
		SetNumber: setNumber,
		Resolved:  resolved,
		Name:      info.Name,
		Year:      info.Year,
		NumParts:  info.NumParts,
	})
}

func (s *APIServer) handleSets(w http.ResponseWriter, _ *http.Request) {
	records, err := s.store.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "listing sets failed: "+err.Error())
		return
	}
	resp := api.SetsResponse{Count: len(records), Sets: make([]api.SetSummary, 0, len(records))}
	for _, record := range records {
		resp.Sets = append(resp.Sets, api.SetSummary{
			SetNumber:   record.SetNumber,
			Name:        record.Name,
			Released:    record.Released,
			Theme:       record.Theme,
			TotalParts:  record.TotalParts,
			UniqueParts: record.UniqueParts,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *APIServer) handleSetDetail(w http.ResponseWriter, r *http.Request) {
	setNumber := r.PathValue("set")
	record, err := s.store.Load(setNumber)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "set "+setNumber+" not processed")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := api.SetDetailResponse{
		SetNumber:   record.SetNumber,
		Name:        record.Name,
		Released:    record.Released,
		Theme:       record.Theme,
		TotalParts:  record.TotalParts,
		UniqueParts: record.UniqueParts,
		Parts:       make([]api.PartDetail, 0, len(record.Parts)),
	}
	for _, entry := range record.Parts {
		resp.Parts = append(resp.Parts, api.PartDetail{
			PartNum:       entry.PartNum,
			ColorID:       entry.ColorID,
			ColorName:     entry.ColorName,
			ColorRGB:      entry.ColorRGB,
			IsTransparent: entry.IsTransparent,
			Quantity:      entry.Quantity,
			IsSpare:       entry.IsSpare,
			STLExists:     s.store.STLExists(setNumber, entry.PartNum),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *APIServer) handleDownloadSTL(w http.ResponseWriter, r *http.Request) {
	setNumber := r.PathValue("set")
	partNum := strings.TrimSuffix(r.PathValue("part"), ".stl")
	if !s.store.STLExists(setNumber, partNum) {
		s.writeError(w, http.StatusNotFound, "no mesh for part "+partNum+" in set "+setNumber)
		return
	}

	file, err := os.Open(s.store.STLPath(setNumber, partNum))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", `attachment; filename="`+partNum+`.stl"`)
	if _, err := io.Copy(w, file); err != nil {
		s.logger.Warn("mesh download aborted",
			logging.String("set", setNumber),
			logging.String("part", partNum),
			logging.Error(err),
		)
	}
}

func (s *APIServer) handleDownloadZip(w http.ResponseWriter, r *http.Request) {
	setNumber := r.PathValue("set")
	if !s.store.Exists(setNumber) {
		s.writeError(w, http.StatusNotFound, "set "+setNumber+" not processed")
		return
	}

	entries, err := os.ReadDir(s.store.STLDir(setNumber))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no meshes for set "+setNumber)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+setNumber+`_stls.zip"`)

	// Streamed straight into the response; an abort mid-archive just drops
	// the connection. Entries keep the on-disk layout: <set>/.set.json and
	// <set>/stls/<part>.stl.
	archive := zip.NewWriter(w)
	if err := s.addFileToZip(archive, s.store.MetadataPath(setNumber), setNumber+"/.set.json"); err != nil {
		s.logger.Warn("zip download aborted",
			logging.String("set", setNumber),
			logging.String("file", ".set.json"),
			logging.Error(err),
		)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".stl") {
			continue
		}
		path := filepath.Join(s.store.STLDir(setNumber), entry.Name())
		if err := s.addFileToZip(archive, path, setNumber+"/stls/"+entry.Name()); err != nil {
			s.logger.Warn("zip download aborted",
				logging.String("set", setNumber),
				logging.String("file", entry.Name()),
				logging.Error(err),
			)
			return
		}
	}
	if err := archive.Close(); err != nil {
		s.logger.Warn("zip finalize failed", logging.String("set", setNumber), logging.Error(err))
	}
}

func (s *APIServer) addFileToZip(archive *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	dest, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(dest, file)
	return err
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("response write failed", logging.Error(err))
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
