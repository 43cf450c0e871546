package extract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/provider"
	"github.com/taskmind/backend/repository"
)

// CredentialAPIKey is the secret-store name the provider API key lives under.
const CredentialAPIKey = "provider_api_key"

// Input carries one extraction request. APIKey may be empty, in which case
// the stored credential is used.
type Input struct {
	ProviderID string
	APIKey     string
	Text       string
	Source     domain.HistorySource
}

// UseCase runs the text-to-task extraction pipeline: resolve a provider,
// perform the exchange, persist the validated records and audit the attempt.
type UseCase struct {
	registry *provider.Registry
	tasks    repository.TaskRepository
	history  repository.HistoryRepository
	creds    repository.CredentialStore
	logger   *zap.Logger
}

func New(
	registry *provider.Registry,
	tasks repository.TaskRepository,
	history repository.HistoryRepository,
	creds repository.CredentialStore,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		registry: registry,
		tasks:    tasks,
		history:  history,
		creds:    creds,
		logger:   logger,
	}
}

// ExtractTasks converts free text into task records and stores them. Each
// attempt is recorded in the history log whether it succeeds or not. Records
// come back in the order the backend produced them.
func (uc *UseCase) ExtractTasks(ctx context.Context, in Input) ([]domain.Task, error) {
	if in.Text == "" {
		return nil, domain.ErrInvalidPayload
	}
	if in.Source == "" {
		in.Source = domain.HistorySourceText
	}

	apiKey, err := uc.resolveKey(ctx, in.APIKey)
	if err != nil {
		return nil, err
	}

	extractor := uc.registry.Get(in.ProviderID)
	tasks, err := extractor.ParseTasks(ctx, apiKey, in.Text)

	// The audit entry describes the exchange itself: success means the
	// provider call succeeded and TaskCount is how many records it parsed,
	// independent of whether persisting them below completes.
	uc.record(ctx, in, err == nil, len(tasks))
	if err != nil {
		uc.logger.Warn("extraction failed",
			zap.String("provider", extractor.Name()),
			zap.Error(err))
		return nil, err
	}

	stored := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		created, err := uc.tasks.Create(ctx, &tasks[i])
		if err != nil {
			uc.logger.Error("failed to store extracted task",
				zap.String("title", tasks[i].Title),
				zap.Error(err))
			return stored, err
		}
		stored = append(stored, *created)
	}

	uc.logger.Info("extraction completed",
		zap.String("provider", extractor.Name()),
		zap.Int("tasks", len(stored)))
	return stored, nil
}

// TestProvider validates a credential against the selected backend without
// consuming extraction quota.
func (uc *UseCase) TestProvider(ctx context.Context, providerID, apiKey string) error {
	key, err := uc.resolveKey(ctx, apiKey)
	if err != nil {
		return err
	}
	return uc.registry.Get(providerID).TestConnection(ctx, key)
}

// SupportedProviders lists the selectable providers in presentation order.
func (uc *UseCase) SupportedProviders() []provider.Info {
	return uc.registry.Supported()
}

// SaveCredential stores the provider API key in the secret store.
func (uc *UseCase) SaveCredential(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return domain.ErrInvalidPayload
	}
	return uc.creds.Set(ctx, CredentialAPIKey, apiKey)
}

func (uc *UseCase) resolveKey(ctx context.Context, apiKey string) (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	if uc.creds == nil {
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "no api key configured", nil)
	}
	stored, err := uc.creds.Get(ctx, CredentialAPIKey)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "no api key configured", err)
	}
	return stored, nil
}

// record appends the audit entry; a failing history write is logged but never
// fails the extraction itself.
func (uc *UseCase) record(ctx context.Context, in Input, success bool, count int) {
	if uc.history == nil {
		return
	}
	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		Source:    in.Source,
		Content:   in.Text,
		Success:   success,
		TaskCount: count,
		Timestamp: time.Now(),
	}
	if err := uc.history.Append(ctx, entry); err != nil {
		uc.logger.Warn("failed to write history entry", zap.Error(err))
	}
}
