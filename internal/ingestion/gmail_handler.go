package ingestion

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Kele901/career-projector/internal/logger"
)

const gmailUser = "me"

// ProgressCallback reports batch progress to a UI or log
type ProgressCallback func(current, total int, message string)

// GmailOptions configures where OAuth files live and how progress is reported
type GmailOptions struct {
	CredentialsPath string // defaults to credentials.json
	TokenPath       string // defaults to token.json
	// AuthInput is read for the authorization code when no token is cached. Defaults to stdin.
	AuthInput io.Reader
	Progress  ProgressCallback
	Logger    *slog.Logger
}

// GmailHandler downloads CV attachments from a Gmail inbox into the uploads directory
type GmailHandler struct {
	service    *gmail.Service
	uploadsDir string
	progress   ProgressCallback
	logger     *slog.Logger
}

// NewGmailHandler creates a Gmail handler with the default OAuth file locations
func NewGmailHandler(ctx context.Context, uploadsDir string) (*GmailHandler, error) {
	return NewGmailHandlerWithOptions(ctx, uploadsDir, GmailOptions{})
}

// NewGmailHandlerWithCallback creates a Gmail handler that reports download progress
func NewGmailHandlerWithCallback(ctx context.Context, uploadsDir string, progress ProgressCallback) (*GmailHandler, error) {
	return NewGmailHandlerWithOptions(ctx, uploadsDir, GmailOptions{Progress: progress})
}

// NewGmailHandlerWithOptions creates a Gmail handler from explicit options
func NewGmailHandlerWithOptions(ctx context.Context, uploadsDir string, opts GmailOptions) (*GmailHandler, error) {
	if opts.CredentialsPath == "" {
		opts.CredentialsPath = "credentials.json"
	}
	if opts.TokenPath == "" {
		opts.TokenPath = "token.json"
	}
	if opts.AuthInput == nil {
		opts.AuthInput = os.Stdin
	}
	l := logger.OrDefault(opts.Logger)

	b, err := os.ReadFile(opts.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client, err := getClient(ctx, config, opts.TokenPath, opts.AuthInput, l)
	if err != nil {
		return nil, err
	}
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{
		service:    srv,
		uploadsDir: uploadsDir,
		progress:   opts.Progress,
		logger:     l,
	}, nil
}

// getClient loads the cached token or runs the interactive consent flow and caches the result
func getClient(ctx context.Context, config *oauth2.Config, tokFile string, input io.Reader, l *slog.Logger) (*http.Client, error) {
	tok, err := tokenFromFile(tokFile)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, config, input)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokFile, tok); err != nil {
			l.Warn("unable to cache oauth token", "path", tokFile, "error", err)
		} else {
			l.Info("saved oauth token", "path", tokFile)
		}
	}
	return config.Client(ctx, tok), nil
}

func getTokenFromWeb(ctx context.Context, config *oauth2.Config, input io.Reader) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(os.Stderr, "Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	authCode, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && authCode == "" {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(ctx, strings.TrimSpace(authCode))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// FetchAttachments downloads the CV attachments of every message with the subject
func (gh *GmailHandler) FetchAttachments(subject string) ([]string, error) {
	return gh.FetchAttachmentsWithContext(context.Background(), subject)
}

// FetchAttachmentsWithContext downloads the CV attachments of every message with the
// subject and returns the saved paths. Attachments in unsupported formats are skipped.
func (gh *GmailHandler) FetchAttachmentsWithContext(ctx context.Context, subject string) ([]string, error) {
	if err := os.MkdirAll(gh.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	query := fmt.Sprintf("subject:%q has:attachment", subject)
	r, err := gh.service.Users.Messages.List(gmailUser).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}
	if len(r.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var saved []string
	for i, msg := range r.Messages {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		gh.report(i+1, len(r.Messages), fmt.Sprintf("Fetching message %d of %d", i+1, len(r.Messages)))

		message, err := gh.service.Users.Messages.Get(gmailUser, msg.Id).Context(ctx).Do()
		if err != nil {
			gh.logger.Warn("unable to retrieve message", "message_id", msg.Id, "error", err)
			continue
		}

		sender := extractSenderName(message)
		for _, part := range attachmentParts(message.Payload) {
			if !SupportedExtension(filepath.Ext(part.Filename)) {
				gh.logger.Debug("skipping attachment", "file", part.Filename)
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get(gmailUser, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				gh.logger.Warn("unable to retrieve attachment", "file", part.Filename, "error", err)
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				gh.logger.Warn("unable to decode attachment", "file", part.Filename, "error", err)
				continue
			}

			filePath := filepath.Join(gh.uploadsDir, attachmentFileName(sender, part.Filename))
			if err := os.WriteFile(filePath, data, 0644); err != nil {
				gh.logger.Warn("unable to write attachment", "path", filePath, "error", err)
				continue
			}

			gh.logger.Info("downloaded attachment", "path", filePath)
			saved = append(saved, filePath)
		}
	}

	return saved, nil
}

func (gh *GmailHandler) report(current, total int, message string) {
	if gh.progress != nil {
		gh.progress(current, total, message)
	}
}

// attachmentParts walks a multipart payload and returns the parts that carry attachments
func attachmentParts(part *gmail.MessagePart) []*gmail.MessagePart {
	if part == nil {
		return nil
	}
	var out []*gmail.MessagePart
	if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
		out = append(out, part)
	}
	for _, child := range part.Parts {
		out = append(out, attachmentParts(child)...)
	}
	return out
}

// attachmentFileName renames an attachment to the Sender_CV.ext convention. Attachments
// that do not look like a CV keep their name behind the sender prefix.
func attachmentFileName(sender, filename string) string {
	filename = filepath.Base(filename)
	ext := filepath.Ext(filename)
	lower := strings.ToLower(strings.TrimSuffix(filename, ext))

	switch {
	case strings.Contains(lower, "cover") || strings.Contains(lower, "letter"):
		return fmt.Sprintf("%s_CoverLetter%s", sender, ext)
	case strings.Contains(lower, "cv") || strings.Contains(lower, "resume"):
		return fmt.Sprintf("%s_CV%s", sender, ext)
	default:
		return fmt.Sprintf("%s_%s", sender, filename)
	}
}

// extractSenderName turns the From header into a file-name-safe sender name
func extractSenderName(message *gmail.Message) string {
	if message == nil || message.Payload == nil {
		return "Unknown"
	}
	for _, header := range message.Payload.Headers {
		if !strings.EqualFold(header.Name, "From") {
			continue
		}
		from := header.Value
		// "Name <email@example.com>"
		if idx := strings.Index(from, "<"); idx > 0 {
			if name := safeName(from[:idx]); name != "" {
				return name
			}
			from = from[idx+1:]
		}
		if idx := strings.Index(from, "@"); idx > 0 {
			return safeName(from[:idx])
		}
		return "Unknown"
	}
	return "Unknown"
}

func safeName(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), "_")
}
