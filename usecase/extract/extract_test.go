package extract

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/provider"
	"github.com/taskmind/backend/repository/memory"
)

type fakeExtractor struct {
	name    string
	tasks   []domain.Task
	err     error
	lastKey string
}

func (f *fakeExtractor) ParseTasks(ctx context.Context, apiKey, text string) ([]domain.Task, error) {
	f.lastKey = apiKey
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Task, len(f.tasks))
	copy(out, f.tasks)
	for i := range out {
		out[i].OriginalText = text
	}
	return out, nil
}

func (f *fakeExtractor) TestConnection(ctx context.Context, apiKey string) error {
	f.lastKey = apiKey
	return f.err
}

func (f *fakeExtractor) Name() string { return f.name }

type fakeHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

func (f *fakeHistory) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistory) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.HistoryEntry(nil), f.entries...), nil
}

func (f *fakeHistory) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeHistory) DeleteAll(ctx context.Context) error         { return nil }
func (f *fakeHistory) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

type fakeCreds struct {
	values map[string]string
}

func (f *fakeCreds) Get(ctx context.Context, name string) (string, error) {
	if v, ok := f.values[name]; ok {
		return v, nil
	}
	return "", domain.ErrCredentialNotFound
}

func (f *fakeCreds) Set(ctx context.Context, name, value string) error {
	f.values[name] = value
	return nil
}

func (f *fakeCreds) Delete(ctx context.Context, name string) error {
	delete(f.values, name)
	return nil
}

func newFixture(extractor *fakeExtractor) (*UseCase, *memory.TaskRepository, *fakeHistory, *fakeCreds) {
	repo := memory.NewTaskRepository()
	hist := &fakeHistory{}
	creds := &fakeCreds{values: map[string]string{}}
	registry := provider.NewRegistry("fake", []provider.Entry{
		{ID: "fake", DisplayName: "Fake", Extractor: extractor},
	})
	return New(registry, repo, hist, creds, nil), repo, hist, creds
}

func TestExtractTasks_PersistsAndAudits(t *testing.T) {
	base := time.Now().UnixMilli()
	extractor := &fakeExtractor{
		name: "Fake",
		tasks: []domain.Task{
			{Title: "one", StartTime: base, Deadline: base + 1000, Type: domain.TaskTypeWork},
			{Title: "two", StartTime: base, Deadline: base + 2000, Type: domain.TaskTypeLife},
		},
	}
	uc, repo, hist, _ := newFixture(extractor)

	tasks, err := uc.ExtractTasks(context.Background(), Input{
		ProviderID: "fake",
		APIKey:     "key-123",
		Text:       "do one and two",
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "one", tasks[0].Title)
	assert.Equal(t, "two", tasks[1].Title)
	assert.Equal(t, "key-123", extractor.lastKey)

	stored, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	entries, _ := hist.List(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	assert.Equal(t, 2, entries[0].TaskCount)
	assert.Equal(t, domain.HistorySourceText, entries[0].Source)
	assert.Equal(t, "do one and two", entries[0].Content)
}

func TestExtractTasks_EmptyResultIsSuccess(t *testing.T) {
	uc, repo, hist, _ := newFixture(&fakeExtractor{name: "Fake", tasks: []domain.Task{}})

	tasks, err := uc.ExtractTasks(context.Background(), Input{
		ProviderID: "fake",
		APIKey:     "k",
		Text:       "how is the weather",
		Source:     domain.HistorySourceVoice,
	})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	stored, _ := repo.ListAll(context.Background())
	assert.Empty(t, stored)

	entries, _ := hist.List(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	assert.Equal(t, 0, entries[0].TaskCount)
	assert.Equal(t, domain.HistorySourceVoice, entries[0].Source)
}

func TestExtractTasks_ProviderFailureAudited(t *testing.T) {
	upstreamErr := domain.NewError(domain.ErrCodeRateLimited, "slow down")
	uc, repo, hist, _ := newFixture(&fakeExtractor{name: "Fake", err: upstreamErr})

	_, err := uc.ExtractTasks(context.Background(), Input{
		ProviderID: "fake",
		APIKey:     "k",
		Text:       "anything",
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRateLimited))

	stored, _ := repo.ListAll(context.Background())
	assert.Empty(t, stored)

	entries, _ := hist.List(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, 0, entries[0].TaskCount)
}

func TestExtractTasks_UsesStoredCredential(t *testing.T) {
	extractor := &fakeExtractor{name: "Fake", tasks: []domain.Task{}}
	uc, _, _, creds := newFixture(extractor)
	require.NoError(t, creds.Set(context.Background(), CredentialAPIKey, "stored-key"))

	_, err := uc.ExtractTasks(context.Background(), Input{ProviderID: "fake", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "stored-key", extractor.lastKey)
}

func TestExtractTasks_NoCredentialAnywhere(t *testing.T) {
	uc, _, hist, _ := newFixture(&fakeExtractor{name: "Fake"})

	_, err := uc.ExtractTasks(context.Background(), Input{ProviderID: "fake", Text: "hello"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	// Credential resolution fails before the exchange; no audit entry.
	entries, _ := hist.List(context.Background(), 10)
	assert.Empty(t, entries)
}

func TestExtractTasks_EmptyText(t *testing.T) {
	uc, _, _, _ := newFixture(&fakeExtractor{name: "Fake"})

	_, err := uc.ExtractTasks(context.Background(), Input{ProviderID: "fake", APIKey: "k"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestTestProvider(t *testing.T) {
	extractor := &fakeExtractor{name: "Fake"}
	uc, _, _, _ := newFixture(extractor)

	require.NoError(t, uc.TestProvider(context.Background(), "fake", "probe-key"))
	assert.Equal(t, "probe-key", extractor.lastKey)
}

func TestSupportedProviders(t *testing.T) {
	uc, _, _, _ := newFixture(&fakeExtractor{name: "Fake"})

	infos := uc.SupportedProviders()
	require.Len(t, infos, 1)
	assert.Equal(t, "fake", infos[0].ID)
}

func TestSaveCredential(t *testing.T) {
	uc, _, _, creds := newFixture(&fakeExtractor{name: "Fake"})

	require.NoError(t, uc.SaveCredential(context.Background(), "new-key"))
	assert.Equal(t, "new-key", creds.values[CredentialAPIKey])

	err := uc.SaveCredential(context.Background(), "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
