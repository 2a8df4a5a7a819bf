package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kele901/career-projector/internal/agent"
	"github.com/Kele901/career-projector/internal/ingestion"
)

const backendCV = `Sam Brown
Skills
Python, SQL, Docker, PostgreSQL, Git, REST API

Work Experience
Backend Engineer at Stripe 2020 - Present
Built payment APIs in Python with PostgreSQL.`

type fakeStore struct {
	objects  map[string][]byte
	failures int
	calls    int
}

func (s *fakeStore) Download(_ context.Context, key string) ([]byte, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("connection reset")
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return data, nil
}

type published struct {
	key    string
	update StatusUpdate
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	failures int
	calls    int
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errors.New("channel closed")
	}
	var u StatusUpdate
	if err := json.Unmarshal(body, &u); err != nil {
		return err
	}
	p.messages = append(p.messages, published{key: routingKey, update: u})
	return nil
}

func (p *fakePublisher) statuses() []string {
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.update.Status)
	}
	return out
}

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestWorker(t *testing.T, store ObjectStore, pub Publisher) *Worker {
	t.Helper()
	a, err := agent.NewCareerAgent(agent.Options{
		UploadsDir: t.TempDir(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	return New(store, pub, a, Options{
		Backoff: time.Millisecond,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return fixedNow },
	})
}

func jobBody(t *testing.T, job AnalysisJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandleCompletesJob(t *testing.T) {
	store := &fakeStore{failures: 1, objects: map[string][]byte{"uploads/s1/Sam_Brown_CV.txt": []byte(backendCV)}}
	pub := &fakePublisher{}
	w := newTestWorker(t, store, pub)

	err := w.Handle(context.Background(), jobBody(t, AnalysisJob{
		ID:        "job-1",
		SessionID: "s1",
		ObjectKey: "uploads/s1/Sam_Brown_CV.txt",
	}))
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls)
	assert.Equal(t, []string{StatusProcessing, StatusCompleted}, pub.statuses())

	done := pub.messages[1]
	assert.Equal(t, "session.s1", done.key)
	assert.Equal(t, "job-1", done.update.JobID)
	assert.True(t, done.update.Timestamp.Equal(fixedNow))
	require.NotNil(t, done.update.Report)
	assert.Equal(t, "Sam Brown", done.update.Report.Name)
	require.NotEmpty(t, done.update.Report.Recommendations)
	assert.Equal(t, "Backend Developer", done.update.Report.Recommendations[0].Pathway)
}

func TestHandleUsesJobName(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{"cv.txt": []byte(backendCV)}}
	pub := &fakePublisher{}
	w := newTestWorker(t, store, pub)

	require.NoError(t, w.Handle(context.Background(), jobBody(t, AnalysisJob{ID: "j", ObjectKey: "cv.txt", Name: "Samuel"})))

	require.Len(t, pub.messages, 2)
	assert.Equal(t, "job.j", pub.messages[1].key)
	assert.Equal(t, "Samuel", pub.messages[1].update.Report.Name)
}

func TestHandlePublishesFailures(t *testing.T) {
	tests := []struct {
		name    string
		store   *fakeStore
		job     AnalysisJob
		wantErr string
	}{
		{
			name:    "download keeps failing",
			store:   &fakeStore{failures: 5},
			job:     AnalysisJob{ID: "a", ObjectKey: "cv.txt"},
			wantErr: "file download error",
		},
		{
			name:    "unsupported format",
			store:   &fakeStore{objects: map[string][]byte{"cv.png": []byte("png")}},
			job:     AnalysisJob{ID: "b", ObjectKey: "cv.png"},
			wantErr: ingestion.ErrUnsupportedFormat.Error(),
		},
		{
			name:    "blank document",
			store:   &fakeStore{objects: map[string][]byte{"cv.txt": []byte("   ")}},
			job:     AnalysisJob{ID: "c", ObjectKey: "cv.txt"},
			wantErr: "analysis error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			w := newTestWorker(t, tt.store, pub)

			require.NoError(t, w.Handle(context.Background(), jobBody(t, tt.job)))

			assert.Equal(t, []string{StatusProcessing, StatusFailed}, pub.statuses())
			assert.Contains(t, pub.messages[1].update.Error, tt.wantErr)
			assert.Nil(t, pub.messages[1].update.Report)
		})
	}
}

func TestHandleRejectsMalformedMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing id", `{"object_key": "cv.txt"}`},
		{"missing key", `{"id": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			w := newTestWorker(t, &fakeStore{}, pub)

			err := w.Handle(context.Background(), []byte(tt.body))

			assert.Error(t, err)
			assert.Empty(t, pub.messages)
		})
	}
}

func TestPublishRetries(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{"cv.txt": []byte(backendCV)}}
	pub := &fakePublisher{failures: 2}
	w := newTestWorker(t, store, pub)

	require.NoError(t, w.Handle(context.Background(), jobBody(t, AnalysisJob{ID: "r", ObjectKey: "cv.txt"})))

	assert.Equal(t, []string{StatusProcessing, StatusCompleted}, pub.statuses())
	assert.Equal(t, 4, pub.calls)
}

func TestRetry(t *testing.T) {
	calls := 0
	_, err := retry(context.Background(), 3, time.Millisecond, func() (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	assert.ErrorContains(t, err, "after 3 attempts: nope")
	assert.Equal(t, 3, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	_, err = retry(ctx, 3, time.Hour, func() (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestAnalysisJobHelpers(t *testing.T) {
	tests := []struct {
		job      AnalysisJob
		wantFile string
		wantKey  string
	}{
		{AnalysisJob{ID: "1", ObjectKey: "a/b/Jane_CV.pdf"}, "Jane_CV.pdf", "job.1"},
		{AnalysisJob{ID: "2", ObjectKey: "key", Filename: "cv.docx", SessionID: "s"}, "cv.docx", "session.s"},
		{AnalysisJob{ID: "3", ObjectKey: "plain.txt"}, "plain.txt", "job.3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantFile, tt.job.FileName())
		assert.Equal(t, tt.wantKey, tt.job.RoutingKey())
	}
}

func TestStoreConfigEndpoint(t *testing.T) {
	assert.Equal(t, "https://acc.r2.cloudflarestorage.com", StoreConfig{AccountID: "acc"}.endpoint())
	assert.Equal(t, "http://localhost:9000", StoreConfig{AccountID: "acc", Endpoint: "http://localhost:9000"}.endpoint())
	assert.Empty(t, StoreConfig{}.endpoint())

	_, err := NewS3Store(context.Background(), StoreConfig{})
	assert.ErrorContains(t, err, "bucket")
}
