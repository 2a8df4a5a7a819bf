// Package agent runs the full CV analysis pipeline for single documents and batches.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Kele901/career-projector/internal/catalog"
	"github.com/Kele901/career-projector/internal/classify"
	"github.com/Kele901/career-projector/internal/ingestion"
	"github.com/Kele901/career-projector/internal/llm"
	"github.com/Kele901/career-projector/internal/logger"
	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/parser"
	"github.com/Kele901/career-projector/internal/progress"
	"github.com/Kele901/career-projector/internal/roadmap"
	"github.com/Kele901/career-projector/internal/scoring"
	"github.com/Kele901/career-projector/internal/skills"
	"github.com/Kele901/career-projector/internal/vocab"
)

const (
	defaultTopN        = 5
	defaultMinScore    = 0.2
	defaultConcurrency = 4
	defaultMaxReports  = 1000
)

var (
	// ErrEmptyDocument is returned when a document has no text to analyse
	ErrEmptyDocument = errors.New("document has no text")
	// ErrNoResults is returned by GetReports before any batch has been analysed
	ErrNoResults = errors.New("no results available, run ingestion first")
	// ErrReportNotFound is returned for unknown report IDs
	ErrReportNotFound = errors.New("report not found")
	// ErrUnknownPathway is returned when a pathway is not in the catalog
	ErrUnknownPathway = errors.New("unknown pathway")
)

// ProgressCallback is called to report progress during processing
type ProgressCallback = ingestion.ProgressCallback

// attachmentFetcher downloads CV attachments into the uploads directory
type attachmentFetcher interface {
	FetchAttachmentsWithContext(ctx context.Context, subject string) ([]string, error)
}

// Options configures a CareerAgent. Zero values fall back to defaults.
type Options struct {
	UploadsDir  string
	TopN        int
	MinScore    *float64
	Concurrency int
	// MaxReports bounds the single-document reports kept for lookup. The last batch is
	// always kept in full.
	MaxReports int
	Catalog    *catalog.Catalog
	Vocabulary *vocab.Vocabulary
	// LLM enables the enhancement step when set
	LLM    llm.Generator
	Gmail  ingestion.GmailOptions
	Logger *slog.Logger
	Now    func() time.Time
}

// CareerAgent orchestrates parsing, skill extraction, scoring and enhancement
type CareerAgent struct {
	FileHandler *ingestion.FileHandler

	catalog     *catalog.Catalog
	segmenter   *parser.Segmenter
	experience  *parser.Extractor
	skills      *skills.Extractor
	recommender *scoring.Recommender
	roadmaps    *roadmap.Generator
	enhancer    *llm.Enhancer
	llm         llm.Generator

	topN        int
	minScore    float64
	concurrency int
	gmailOpts   ingestion.GmailOptions
	newGmail    func(ctx context.Context, dir string, opts ingestion.GmailOptions) (attachmentFetcher, error)
	logger      *slog.Logger
	now         func() time.Time

	progress *progress.Tracker

	mu         sync.Mutex
	reports    *lru.Cache
	batch      []models.Report
	progressCb ProgressCallback
}

// NewCareerAgent creates an agent. Without a catalog the embedded default is used.
func NewCareerAgent(opts Options) (*CareerAgent, error) {
	if opts.UploadsDir == "" {
		opts.UploadsDir = "uploads"
	}
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.MaxReports <= 0 {
		opts.MaxReports = defaultMaxReports
	}
	if opts.Vocabulary == nil {
		opts.Vocabulary = vocab.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	minScore := defaultMinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}
	if opts.Catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load pathway catalog: %w", err)
		}
		opts.Catalog = c
	}

	l := logger.OrDefault(opts.Logger).With("component", "agent")
	classifier := classify.NewClassifier(opts.Vocabulary)

	return &CareerAgent{
		FileHandler: ingestion.NewFileHandler(opts.UploadsDir, l),
		catalog:     opts.Catalog,
		segmenter:   parser.NewSegmenter(opts.Vocabulary),
		experience:  parser.NewExtractor(opts.Vocabulary, classifier, parser.WithClock(opts.Now)),
		skills:      skills.NewExtractor(opts.Vocabulary),
		recommender: scoring.NewRecommender(opts.Vocabulary, classifier, scoring.WithClock(opts.Now)),
		roadmaps:    roadmap.NewGenerator(opts.Vocabulary),
		enhancer:    llm.NewEnhancer(opts.LLM, l),
		llm:         opts.LLM,
		topN:        opts.TopN,
		minScore:    minScore,
		concurrency: opts.Concurrency,
		gmailOpts:   opts.Gmail,
		newGmail: func(ctx context.Context, dir string, o ingestion.GmailOptions) (attachmentFetcher, error) {
			return ingestion.NewGmailHandlerWithOptions(ctx, dir, o)
		},
		logger:   l,
		now:      opts.Now,
		progress: progress.NewTracker(progress.WithClock(opts.Now)),
		reports:  lru.New(opts.MaxReports),
	}, nil
}

// Catalog returns the pathway catalog the agent scores against
func (a *CareerAgent) Catalog() *catalog.Catalog {
	return a.catalog
}

// SetProgressCallback sets the progress callback function
func (a *CareerAgent) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

func (a *CareerAgent) reportProgress(current, total int, message string) {
	a.mu.Lock()
	cb := a.progressCb
	a.mu.Unlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// AnalyzeText runs the pipeline over CV text and stores the report
func (a *CareerAgent) AnalyzeText(ctx context.Context, name, text string) (models.Report, error) {
	report, err := a.analyze(ctx, name, "", text)
	if err != nil {
		return models.Report{}, err
	}
	a.store([]models.Report{report}, false)
	return report, nil
}

// AnalyzeFile converts a CV file to text and analyses it
func (a *CareerAgent) AnalyzeFile(ctx context.Context, path string) (models.Report, error) {
	text, err := ingestion.ExtractText(path)
	if err != nil {
		return models.Report{}, err
	}
	report, err := a.analyze(ctx, ingestion.CandidateName(path), path, text)
	if err != nil {
		return models.Report{}, err
	}
	a.store([]models.Report{report}, false)
	return report, nil
}

// AnalyzeBytes converts uploaded document content to text and analyses it
func (a *CareerAgent) AnalyzeBytes(ctx context.Context, filename string, data []byte) (models.Report, error) {
	text, err := ingestion.ExtractBytes(filename, data)
	if err != nil {
		return models.Report{}, err
	}
	report, err := a.analyze(ctx, ingestion.CandidateName(filename), filename, text)
	if err != nil {
		return models.Report{}, err
	}
	a.store([]models.Report{report}, false)
	return report, nil
}

func (a *CareerAgent) analyze(ctx context.Context, name, source, text string) (models.Report, error) {
	if strings.TrimSpace(text) == "" {
		return models.Report{}, ErrEmptyDocument
	}
	if err := ctx.Err(); err != nil {
		return models.Report{}, err
	}

	sections := a.segmenter.Segment(text)
	history := a.experience.Extract(sections, text)
	for i := range history {
		if history[i].TechnologiesUsed == "" {
			history[i].TechnologiesUsed = a.skills.Technologies(history[i].JobTitle + "\n" + history[i].Description)
		}
	}
	found := a.skills.Extract(text)

	recs := a.recommender.Recommend(found, history, a.catalog.Pathways(), a.topN, a.minScore)
	recs = a.enhancer.Enhance(ctx, text, found, recs)

	report := models.Report{
		ID:              uuid.NewString(),
		Name:            name,
		Source:          source,
		Profile:         parser.ExtractProfile(text),
		Sections:        sections,
		Skills:          found,
		SkillSummary:    skills.Summarize(found),
		Certifications:  a.skills.Certifications(text),
		WorkHistory:     history,
		Trajectory:      a.recommender.Trajectory(history),
		Recommendations: recs,
		GeneratedAt:     a.now().UTC(),
	}

	a.logger.Debug("analysed document",
		"name", name,
		"skills", len(found),
		"roles", len(history),
		"recommendations", len(recs))
	return report, nil
}

// AnalyzeDocuments analyses a batch in parallel and ranks the reports by best match score.
// Documents that fail are logged and left out. The batch replaces the previous one.
func (a *CareerAgent) AnalyzeDocuments(ctx context.Context, docs []models.Document) (models.BatchReport, error) {
	if len(docs) == 0 {
		return models.BatchReport{}, fmt.Errorf("no documents to analyse")
	}

	results := make([]*models.Report, len(docs))
	var done int
	var doneMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			report, err := a.analyze(gctx, doc.Name, doc.Path, doc.Text)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				a.logger.Warn("failed to analyse document", "name", doc.Name, "error", err)
			} else {
				results[i] = &report
			}

			doneMu.Lock()
			done++
			n := done
			doneMu.Unlock()
			a.reportProgress(n, len(docs), fmt.Sprintf("Analysed %s (%d/%d)", doc.Name, n, len(docs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.BatchReport{}, err
	}

	reports := make([]models.Report, 0, len(docs))
	for _, r := range results {
		if r != nil {
			reports = append(reports, *r)
		}
	}
	RankReports(reports)

	a.store(reports, true)
	a.logger.Info("batch analysed", "documents", len(docs), "reports", len(reports))

	return models.BatchReport{
		Reports:   reports,
		Timestamp: a.now().Format(time.RFC3339),
	}, nil
}

// RankReports orders reports by best match score, then by name
func RankReports(reports []models.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		si, sj := reports[i].TopScore(), reports[j].TopScore()
		if si != sj {
			return si > sj
		}
		return reports[i].Name < reports[j].Name
	})
}

// AnalyzeUploads analyses every CV in the uploads directory
func (a *CareerAgent) AnalyzeUploads(ctx context.Context) (models.BatchReport, error) {
	a.reportProgress(0, 1, "Loading documents...")

	documents, err := a.FileHandler.LoadDocuments()
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(documents) == 0 {
		return models.BatchReport{}, fmt.Errorf("no documents found in uploads directory")
	}

	a.logger.Info("found documents to analyse", "count", len(documents))
	return a.AnalyzeDocuments(ctx, documents)
}

// IngestFromGmail replaces the uploads with the CV attachments of matching messages and
// analyses them
func (a *CareerAgent) IngestFromGmail(ctx context.Context, subject string) (models.BatchReport, error) {
	if strings.TrimSpace(subject) == "" {
		return models.BatchReport{}, fmt.Errorf("gmail subject is required")
	}

	opts := a.gmailOpts
	opts.Logger = a.logger
	opts.Progress = func(current, total int, message string) {
		a.reportProgress(current, total, message)
	}

	fetcher, err := a.newGmail(ctx, a.FileHandler.Dir(), opts)
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("failed to initialize Gmail handler: %w", err)
	}

	if err := a.FileHandler.ClearUploads(); err != nil {
		return models.BatchReport{}, fmt.Errorf("failed to clear uploads: %w", err)
	}

	saved, err := fetcher.FetchAttachmentsWithContext(ctx, subject)
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("failed to fetch Gmail attachments: %w", err)
	}
	a.logger.Info("fetched gmail attachments", "subject", subject, "files", len(saved))

	return a.AnalyzeUploads(ctx)
}

// Roadmap plans the skill gap between a report and a pathway
func (a *CareerAgent) Roadmap(pathway string, owned []models.SkillRecord, yearsExperience float64) (models.Roadmap, error) {
	def, ok := a.catalog.ByName(pathway)
	if !ok {
		return models.Roadmap{}, fmt.Errorf("%w: %s", ErrUnknownPathway, pathway)
	}
	return a.roadmaps.Generate(def, owned, yearsExperience), nil
}

// RoadmapForReport plans the skill gap of a stored report. An empty pathway uses the
// report's top recommendation.
func (a *CareerAgent) RoadmapForReport(id, pathway string) (models.Roadmap, error) {
	report, err := a.GetReport(id)
	if err != nil {
		return models.Roadmap{}, err
	}
	if pathway == "" {
		if len(report.Recommendations) == 0 {
			return models.Roadmap{}, fmt.Errorf("%w: report %s has no recommendations", ErrUnknownPathway, id)
		}
		pathway = report.Recommendations[0].Pathway
	}
	return a.Roadmap(pathway, report.Skills, YearsOfExperience(report))
}

// YearsOfExperience prefers the stated years and falls back to the parsed work history
func YearsOfExperience(r models.Report) float64 {
	return r.YearsOfExperience()
}

func (a *CareerAgent) store(reports []models.Report, batch bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if batch {
		for _, r := range a.batch {
			a.reports.Add(r.ID, r)
		}
		a.batch = append([]models.Report(nil), reports...)
		return
	}
	for _, r := range reports {
		a.reports.Add(r.ID, r)
	}
}

// GetReport returns a stored report from the last batch or the recent single analyses
func (a *CareerAgent) GetReport(id string) (models.Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.batch {
		if r.ID == id {
			return r, nil
		}
	}
	if v, ok := a.reports.Get(id); ok {
		return v.(models.Report), nil
	}
	return models.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
}

// GetReports returns the ranked reports of the last batch
func (a *CareerAgent) GetReports() (models.BatchReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.batch) == 0 {
		return models.BatchReport{}, ErrNoResults
	}

	reports := make([]models.Report, len(a.batch))
	copy(reports, a.batch)
	return models.BatchReport{
		Reports:   reports,
		Timestamp: a.now().Format(time.RFC3339),
	}, nil
}

// Close releases the model client when it holds resources
func (a *CareerAgent) Close() error {
	if c, ok := a.llm.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
