package gui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Kele901/career-projector/internal/agent"
	"github.com/Kele901/career-projector/internal/config"
	"github.com/Kele901/career-projector/internal/export"
	"github.com/Kele901/career-projector/internal/ingestion"
	"github.com/Kele901/career-projector/internal/logger"
	"github.com/Kele901/career-projector/internal/models"
)

// AgentFactory builds an agent from the current settings
type AgentFactory func(cfg *config.Config) (*agent.CareerAgent, error)

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	config     *config.Config
	newAgent   AgentFactory
	agent      *agent.CareerAgent
	logger     *slog.Logger
	cancelFunc context.CancelFunc

	// UI Components
	gmailStatusLabel *widget.Label
	authenticateBtn  *widget.Button
	subjectEntry     *widget.Entry
	nameEntry        *widget.Entry
	cvText           *widget.Entry
	fetchBtn         *widget.Button
	openFileBtn      *widget.Button
	analyzeTextBtn   *widget.Button
	cancelBtn        *widget.Button
	progressBar      *widget.ProgressBar
	progressLabel    *widget.Label
	resultsTable     *widget.Table
	details          *widget.Label
	exportBtn        *widget.Button

	reports []models.Report
	rows    []resultRow
}

// NewApp creates the GUI and its first agent
func NewApp(cfg *config.Config, newAgent AgentFactory, l *slog.Logger) (*App, error) {
	ag, err := newAgent(cfg)
	if err != nil {
		return nil, err
	}

	a := app.New()
	w := a.NewWindow("Career Pathway Projector")
	w.Resize(fyne.NewSize(1100, 760))

	guiApp := &App{
		fyneApp:    a,
		mainWindow: w,
		config:     cfg,
		newAgent:   newAgent,
		agent:      ag,
		logger:     logger.OrDefault(l).With("component", "gui"),
	}

	guiApp.setupUI()
	return guiApp, nil
}

// Run starts the GUI application and closes the agent when the window exits
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
	if err := a.agent.Close(); err != nil {
		a.logger.Warn("failed to close agent", "error", err)
	}
}

func (a *App) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Analyse CVs", a.createAnalyseTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)

	a.mainWindow.SetContent(tabs)
}

func (a *App) createAnalyseTab() fyne.CanvasObject {
	// Gmail
	a.gmailStatusLabel = widget.NewLabel("Gmail: Not Authenticated")
	a.authenticateBtn = widget.NewButton("Authenticate Gmail", a.handleAuthenticate)

	a.subjectEntry = widget.NewEntry()
	a.subjectEntry.SetPlaceHolder("e.g., Career Review")
	a.fetchBtn = widget.NewButton("Fetch and Analyse", a.handleFetch)

	gmailSection := container.NewVBox(
		widget.NewLabelWithStyle("Gmail", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(a.gmailStatusLabel, a.authenticateBtn),
		container.NewBorder(nil, nil, widget.NewLabel("Subject filter"), a.fetchBtn, a.subjectEntry),
	)

	// Single CV
	a.openFileBtn = widget.NewButton("Open CV File...", a.handleOpenFile)

	a.nameEntry = widget.NewEntry()
	a.nameEntry.SetPlaceHolder("Candidate name")
	a.cvText = widget.NewMultiLineEntry()
	a.cvText.SetPlaceHolder("Or paste CV text here...")
	a.cvText.SetMinRowsVisible(6)
	a.analyzeTextBtn = widget.NewButton("Analyse Text", a.handleAnalyzeText)

	singleSection := container.NewVBox(
		widget.NewLabelWithStyle("Single CV", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.openFileBtn,
		widget.NewForm(
			widget.NewFormItem("Name", a.nameEntry),
			widget.NewFormItem("CV Text", a.cvText),
		),
		a.analyzeTextBtn,
	)

	// Progress
	a.progressBar = widget.NewProgressBar()
	a.progressLabel = widget.NewLabel("Ready")
	a.cancelBtn = widget.NewButton("Cancel", a.handleCancel)
	a.cancelBtn.Disable()

	progressSection := container.NewVBox(
		a.progressLabel,
		a.progressBar,
		a.cancelBtn,
	)

	// Results
	a.resultsTable = widget.NewTable(
		func() (int, int) {
			return len(a.rows) + 1, len(resultHeaders)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				label.SetText(resultHeaders[id.Col])
				label.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			label.TextStyle = fyne.TextStyle{}
			if id.Row-1 < len(a.rows) {
				label.SetText(a.rows[id.Row-1][id.Col])
			}
		},
	)
	for col, width := range []float32{50, 180, 200, 70, 100, 60, 60} {
		a.resultsTable.SetColumnWidth(col, width)
	}
	a.resultsTable.OnSelected = func(id widget.TableCellID) {
		if id.Row == 0 || id.Row-1 >= len(a.reports) {
			return
		}
		a.details.SetText(reportDetails(a.reports[id.Row-1]))
	}

	a.details = widget.NewLabel("Select a candidate to see the reasoning behind each pathway.")
	a.details.Wrapping = fyne.TextWrapWord

	a.exportBtn = widget.NewButton("Export to Excel", a.handleExport)
	a.exportBtn.Disable()

	tableScroll := container.NewScroll(a.resultsTable)
	tableScroll.SetMinSize(fyne.NewSize(720, 220))

	resultsSection := container.NewVBox(
		widget.NewLabelWithStyle("Results", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tableScroll,
		a.details,
		a.exportBtn,
	)

	return container.NewVScroll(
		container.NewVBox(
			gmailSection,
			widget.NewSeparator(),
			singleSection,
			widget.NewSeparator(),
			progressSection,
			widget.NewSeparator(),
			resultsSection,
		),
	)
}

func (a *App) browseButton(target *widget.Entry) *widget.Button {
	return widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				target.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})
}

func (a *App) createSettingsTab() fyne.CanvasObject {
	projectEntry := widget.NewEntry()
	projectEntry.SetText(a.config.GoogleCloudProject)

	locationEntry := widget.NewEntry()
	locationEntry.SetText(a.config.GoogleCloudLocation)

	googleCredsEntry := widget.NewEntry()
	googleCredsEntry.SetText(a.config.GoogleCredentialsPath)

	gmailCredsEntry := widget.NewEntry()
	gmailCredsEntry.SetText(a.config.GmailCredentialsPath)

	catalogEntry := widget.NewEntry()
	catalogEntry.SetPlaceHolder("Built-in catalog")
	catalogEntry.SetText(a.config.CatalogPath)

	topNEntry := widget.NewEntry()
	topNEntry.SetText(strconv.Itoa(a.config.TopN))

	minScoreEntry := widget.NewEntry()
	minScoreEntry.SetText(strconv.FormatFloat(a.config.MinScore, 'f', -1, 64))

	aiCheck := widget.NewCheck("Enhance top pathway with Gemini", nil)
	aiCheck.SetChecked(a.config.EnableAIEnhancement)

	form := widget.NewForm(
		widget.NewFormItem("Google Cloud Project", projectEntry),
		widget.NewFormItem("Google Cloud Location", locationEntry),
		widget.NewFormItem("Google Credentials", container.NewBorder(nil, nil, nil, a.browseButton(googleCredsEntry), googleCredsEntry)),
		widget.NewFormItem("Gmail Credentials", container.NewBorder(nil, nil, nil, a.browseButton(gmailCredsEntry), gmailCredsEntry)),
		widget.NewFormItem("Pathway Catalog", container.NewBorder(nil, nil, nil, a.browseButton(catalogEntry), catalogEntry)),
		widget.NewFormItem("Top Pathways", topNEntry),
		widget.NewFormItem("Minimum Score", minScoreEntry),
		widget.NewFormItem("AI Enhancement", aiCheck),
	)

	apply := func() (*config.Config, error) {
		topN, minScore, err := scoringSettings(topNEntry.Text, minScoreEntry.Text)
		if err != nil {
			return nil, err
		}
		next := *a.config
		next.GoogleCloudProject = projectEntry.Text
		next.GoogleCloudLocation = locationEntry.Text
		next.GoogleCredentialsPath = googleCredsEntry.Text
		next.GmailCredentialsPath = gmailCredsEntry.Text
		next.CatalogPath = catalogEntry.Text
		next.TopN = topN
		next.MinScore = minScore
		next.EnableAIEnhancement = aiCheck.Checked
		return &next, next.Validate()
	}

	saveBtn := widget.NewButton("Save Settings", func() {
		next, err := apply()
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		ag, err := a.newAgent(next)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to apply settings: %w", err), a.mainWindow)
			return
		}
		if err := next.Save(); err != nil {
			_ = ag.Close()
			dialog.ShowError(err, a.mainWindow)
			return
		}
		next.ApplyToEnv()

		old := a.agent
		a.agent, a.config = ag, next
		if err := old.Close(); err != nil {
			a.logger.Warn("failed to close previous agent", "error", err)
		}
		dialog.ShowInformation("Success", "Settings saved successfully", a.mainWindow)
	})

	testBtn := widget.NewButton("Validate", func() {
		if _, err := apply(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Configuration is valid", a.mainWindow)
	})

	return container.NewVBox(
		form,
		container.NewHBox(saveBtn, testBtn),
	)
}

// handleAuthenticate runs the Gmail OAuth flow once so later fetches reuse the token
func (a *App) handleAuthenticate() {
	credsPath := a.config.GmailCredentialsPath
	if credsPath == "" {
		credsPath = "credentials.json"
	}
	if _, err := os.Stat(credsPath); os.IsNotExist(err) {
		dialog.ShowError(fmt.Errorf("%s not found. Please configure Gmail credentials in Settings", credsPath), a.mainWindow)
		return
	}

	progressDialog := dialog.NewCustomWithoutButtons("Authenticating",
		widget.NewLabel("Authenticating with Gmail...\nCheck the console for the OAuth URL if your browser doesn't open."),
		a.mainWindow)
	progressDialog.Show()
	a.authenticateBtn.Disable()

	go func() {
		_, err := ingestion.NewGmailHandlerWithOptions(context.Background(), a.config.UploadsDir, ingestion.GmailOptions{
			CredentialsPath: credsPath,
			TokenPath:       a.config.GmailTokenPath,
			Logger:          a.logger,
		})

		// UI updates must run on the main thread
		fyne.Do(func() {
			progressDialog.Hide()
			a.authenticateBtn.Enable()
			if err != nil {
				dialog.ShowError(fmt.Errorf("authentication failed: %w", err), a.mainWindow)
				return
			}
			a.gmailStatusLabel.SetText("Gmail: Authenticated")
			dialog.ShowInformation("Success", "Gmail authenticated successfully!\nYou can now analyse CVs from Gmail.", a.mainWindow)
		})
	}()
}

// runJob disables the inputs, runs job in the background and shows its reports
func (a *App) runJob(label string, job func(ctx context.Context) ([]models.Report, error)) {
	a.setBusy(true)
	a.progressBar.SetValue(0)
	a.progressLabel.SetText(label)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelFunc = cancel

	a.agent.SetProgressCallback(func(current, total int, message string) {
		fyne.Do(func() {
			if total > 0 {
				a.progressBar.SetValue(float64(current) / float64(total))
			}
			a.progressLabel.SetText(message)
		})
	})

	go func() {
		defer cancel()
		reports, err := job(ctx)

		fyne.Do(func() {
			a.setBusy(false)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					a.progressLabel.SetText("Processing canceled")
					return
				}
				a.logger.Error("analysis failed", "error", err)
				a.progressLabel.SetText("Error: " + err.Error())
				dialog.ShowError(err, a.mainWindow)
				return
			}

			a.showReports(reports)
			a.progressBar.SetValue(1)
			a.progressLabel.SetText(fmt.Sprintf("Complete! Analysed %d candidates", len(reports)))

			fyne.CurrentApp().SendNotification(&fyne.Notification{
				Title:   "Analysis Complete",
				Content: fmt.Sprintf("Analysed %d candidates", len(reports)),
			})
		})
	}()
}

func (a *App) setBusy(busy bool) {
	for _, b := range []*widget.Button{a.fetchBtn, a.openFileBtn, a.analyzeTextBtn, a.authenticateBtn} {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
	if busy {
		a.cancelBtn.Enable()
		a.exportBtn.Disable()
	} else {
		a.cancelBtn.Disable()
		if len(a.reports) > 0 {
			a.exportBtn.Enable()
		}
	}
}

func (a *App) showReports(reports []models.Report) {
	a.reports = reports
	a.rows = resultRows(reports)
	a.resultsTable.Refresh()
	a.resultsTable.UnselectAll()
	if len(reports) > 0 {
		a.details.SetText(reportDetails(reports[0]))
		a.exportBtn.Enable()
	}
}

func (a *App) handleFetch() {
	subject := a.subjectEntry.Text
	if subject == "" {
		dialog.ShowError(fmt.Errorf("please enter an email subject filter"), a.mainWindow)
		return
	}

	a.runJob("Fetching emails...", func(ctx context.Context) ([]models.Report, error) {
		batch, err := a.agent.IngestFromGmail(ctx, subject)
		if err != nil {
			return nil, err
		}
		return batch.Reports, nil
	})
}

func (a *App) handleOpenFile() {
	dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return
		}
		data, err := io.ReadAll(uc)
		name := uc.URI().Name()
		uc.Close()
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to read %s: %w", name, err), a.mainWindow)
			return
		}

		a.runJob("Analysing "+name+"...", func(ctx context.Context) ([]models.Report, error) {
			report, err := a.agent.AnalyzeBytes(ctx, name, data)
			if err != nil {
				return nil, err
			}
			return []models.Report{report}, nil
		})
	}, a.mainWindow)
}

func (a *App) handleAnalyzeText() {
	text := a.cvText.Text
	if text == "" {
		dialog.ShowError(fmt.Errorf("please paste CV text first"), a.mainWindow)
		return
	}
	name := a.nameEntry.Text
	if name == "" {
		name = "Candidate"
	}

	a.runJob("Analysing text...", func(ctx context.Context) ([]models.Report, error) {
		report, err := a.agent.AnalyzeText(ctx, name, text)
		if err != nil {
			return nil, err
		}
		return []models.Report{report}, nil
	})
}

func (a *App) handleCancel() {
	if a.cancelFunc != nil {
		a.cancelFunc()
		a.progressLabel.SetText("Canceling...")
	}
}

func (a *App) handleExport() {
	if len(a.reports) == 0 {
		dialog.ShowError(fmt.Errorf("no results to export"), a.mainWindow)
		return
	}

	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return
		}
		outputPath := uc.URI().Path()
		uc.Close()

		written, err := export.ExportToExcel(a.reports, outputPath)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}

		dialog.ShowInformation("Success", "Results exported successfully to "+filepath.Base(written), a.mainWindow)
	}, a.mainWindow)
	save.SetFileName(fmt.Sprintf("Career_Pathways_%s.xlsx", time.Now().Format("2006-01-02_150405")))
	save.Show()
}
