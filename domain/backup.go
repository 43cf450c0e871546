package domain

import "time"

// BackupDocument is the self-describing JSON schema shared by export and
// import. Re-importing an unmodified export must yield zero inserted records.
type BackupDocument struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Tasks      []Task    `json:"tasks"`
}

// BackupVersion is the current backup schema version.
const BackupVersion = 1

// ReconcileResult reports exactly what one completed reconciliation run did.
// It is never partially populated: counts are exact for the run.
type ReconcileResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Total returns the number of candidates processed.
func (r ReconcileResult) Total() int {
	return r.Imported + r.Skipped
}
