package storage

import "time"

// MetadataEntry is one row of the api_metadata audit log.
// Rows are only ever appended.
type MetadataEntry struct {
	ID int64 `json:"id"`

	// TotalSols is the number of sols the ingest run processed.
	TotalSols int `json:"total_sols"`

	// APIResponse is the raw InSight response serialized as JSON.
	APIResponse string `json:"api_response"`

	// LastUpdate is when the run was recorded.
	LastUpdate time.Time `json:"last_update"`
}
