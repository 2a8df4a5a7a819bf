package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kele901/career-projector/internal/agent"
	"github.com/Kele901/career-projector/internal/ingestion"
	"github.com/Kele901/career-projector/internal/logger"
	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/progress"
	"github.com/Kele901/career-projector/internal/skills"
)

const maxUploadSize = 32 << 20

// Server handles HTTP requests
type Server struct {
	agent  *agent.CareerAgent
	logger *slog.Logger
}

// NewServer creates a new API server
func NewServer(a *agent.CareerAgent, l *slog.Logger) *Server {
	return &Server{
		agent:  a,
		logger: logger.OrDefault(l).With("component", "api"),
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /pathways", s.handlePathways)
	mux.HandleFunc("POST /roadmap", s.handleRoadmap)
	mux.HandleFunc("POST /progress/{id}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /progress/{id}/timeline", s.handleTimeline)
	mux.HandleFunc("GET /progress/{id}/analytics", s.handleAnalytics)
	mux.HandleFunc("POST /progress/{id}/learned-skills", s.handleAddLearnedSkill)
	mux.HandleFunc("GET /progress/{id}/learned-skills", s.handleLearnedSkills)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "Career Pathway Projector",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /analyze":                      "Analyse one CV (multipart file, text field or JSON body)",
			"POST /ingest":                       "Upload a batch of CVs or fetch them from Gmail",
			"GET /report":                        "Get the ranked batch, or one report with ?id=",
			"GET /pathways":                      "List the career pathway catalog",
			"POST /roadmap":                      "Build a learning roadmap towards a pathway",
			"POST /progress/{id}/snapshot":       "Capture a progress snapshot of a report",
			"GET /progress/{id}/timeline":        "List the candidate's progress snapshots",
			"GET /progress/{id}/analytics":       "Growth analytics across the candidate's snapshots",
			"POST /progress/{id}/learned-skills": "Track a skill the candidate is learning",
			"GET /progress/{id}/learned-skills":  "List the candidate's learned skills",
			"GET /health":                        "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

type analyzeRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// handleAnalyze analyses a single CV
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var (
		report models.Report
		err    error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
			return
		}
		report, err = s.agent.AnalyzeText(r.Context(), nameOr(req.Name, "candidate"), req.Text)

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
			return
		}
		file, header, ferr := r.FormFile("file")
		if ferr != nil {
			report, err = s.agent.AnalyzeText(r.Context(), nameOr(r.FormValue("name"), "candidate"), r.FormValue("text"))
			break
		}
		defer file.Close()

		data, rerr := io.ReadAll(file)
		if rerr != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", rerr))
			return
		}
		report, err = s.agent.AnalyzeBytes(r.Context(), header.Filename, data)
		if err == nil && r.FormValue("name") != "" {
			report.Name = r.FormValue("name")
		}

	default:
		s.respondError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json or multipart/form-data")
		return
	}

	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// handleIngest analyses a batch of uploaded files or Gmail attachments
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	req := models.IngestRequest{
		Method:       r.FormValue("method"),
		GmailSubject: r.FormValue("gmail_subject"),
	}

	var (
		batch models.BatchReport
		err   error
	)
	switch req.Method {
	case "upload":
		if err := s.saveUploads(r); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		batch, err = s.agent.AnalyzeUploads(r.Context())
	case "gmail":
		if req.GmailSubject == "" {
			s.respondError(w, http.StatusBadRequest, "gmail_subject is required for gmail method")
			return
		}
		batch, err = s.agent.IngestFromGmail(r.Context(), req.GmailSubject)
	default:
		s.respondError(w, http.StatusBadRequest, "method must be 'upload' or 'gmail'")
		return
	}

	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

// saveUploads replaces the uploads directory with the posted files
func (s *Server) saveUploads(r *http.Request) error {
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return fmt.Errorf("no files uploaded")
	}

	fileHandler := s.agent.FileHandler
	if err := fileHandler.ClearUploads(); err != nil {
		return err
	}

	saved := 0
	for _, fileHeader := range files {
		if !ingestion.SupportedExtension(filepath.Ext(fileHeader.Filename)) {
			s.logger.Warn("skipping unsupported file type", "file", fileHeader.Filename)
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fmt.Errorf("failed to open uploaded file: %w", err)
		}
		_, err = fileHandler.SaveUploadedFile(fileHeader.Filename, file)
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to save file %s: %w", fileHeader.Filename, err)
		}
		s.logger.Debug("saved upload", "file", fileHeader.Filename)
		saved++
	}
	if saved == 0 {
		return fmt.Errorf("no supported files uploaded")
	}
	return nil
}

// handleReport returns one report by id, or the ranked batch
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		report, err := s.agent.GetReport(id)
		if err != nil {
			s.respondAgentError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, report)
		return
	}

	batch, err := s.agent.GetReports()
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

// handlePathways lists the catalog
func (s *Server) handlePathways(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"pathways": s.agent.Catalog().Pathways(),
	})
}

type roadmapRequest struct {
	ReportID        string   `json:"report_id"`
	Pathway         string   `json:"pathway"`
	Skills          []string `json:"skills"`
	YearsExperience float64  `json:"years_experience"`
}

// handleRoadmap builds a roadmap for a stored report or for an explicit skill list
func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	var req roadmapRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}

	var (
		rm  models.Roadmap
		err error
	)
	switch {
	case req.ReportID != "":
		rm, err = s.agent.RoadmapForReport(req.ReportID, req.Pathway)
	case req.Pathway != "":
		owned := make([]models.SkillRecord, 0, len(req.Skills))
		for _, name := range req.Skills {
			owned = append(owned, models.SkillRecord{Name: skills.DisplayName(name)})
		}
		rm, err = s.agent.Roadmap(req.Pathway, owned, req.YearsExperience)
	default:
		s.respondError(w, http.StatusBadRequest, "report_id or pathway is required")
		return
	}

	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rm)
}

// handleSnapshot captures the current state of a report for progress tracking
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.agent.CaptureProgress(r.PathValue("id"))
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

// handleTimeline lists the snapshots of the candidate behind a report
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := s.agent.ProgressTimeline(r.PathValue("id"))
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, timeline)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.agent.ProgressAnalytics(r.PathValue("id"))
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, analytics)
}

type learnedSkillRequest struct {
	SkillName        string `json:"skill_name"`
	ProficiencyLevel string `json:"proficiency_level"`
	Status           string `json:"status"`
}

func (s *Server) handleAddLearnedSkill(w http.ResponseWriter, r *http.Request) {
	var req learnedSkillRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}

	skill, err := s.agent.TrackLearnedSkill(r.PathValue("id"), models.LearnedSkill{
		SkillName:        req.SkillName,
		ProficiencyLevel: req.ProficiencyLevel,
		Status:           req.Status,
	})
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, skill)
}

func (s *Server) handleLearnedSkills(w http.ResponseWriter, r *http.Request) {
	learned, err := s.agent.LearnedSkills(r.PathValue("id"))
	if err != nil {
		s.respondAgentError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, learned)
}

// respondAgentError maps pipeline errors to status codes
func (s *Server) respondAgentError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, ingestion.ErrUnreadableDocument), errors.Is(err, agent.ErrEmptyDocument):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, agent.ErrReportNotFound), errors.Is(err, agent.ErrNoResults), errors.Is(err, agent.ErrUnknownPathway):
		status = http.StatusNotFound
	case errors.Is(err, progress.ErrInvalidSkill):
		status = http.StatusBadRequest
	}
	s.respondError(w, status, err.Error())
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start))
	})
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return strings.TrimSpace(name)
}
