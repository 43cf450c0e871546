package transport

// ExtractRequest asks the extraction pipeline to turn free text into tasks.
// APIKey is optional; when empty the stored credential is used.
type ExtractRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Text     string `json:"text"`
	Source   string `json:"source"`
}

// TestProviderRequest validates a credential against a backend.
type TestProviderRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// CredentialRequest stores the provider API key.
type CredentialRequest struct {
	APIKey string `json:"api_key"`
}

type SubtaskRequest struct {
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
}

type TaskRequest struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   int64            `json:"start_time"`
	Deadline    int64            `json:"deadline"`
	Type        string           `json:"type"`
	IsPinned    bool             `json:"is_pinned"`
	IsDone      bool             `json:"is_done"`
	Subtasks    []SubtaskRequest `json:"subtasks"`
}
