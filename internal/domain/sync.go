package domain

// SyncItemError records a single item that failed to sync. The loop
// continues past these; they are reported in the summary.
type SyncItemError struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// SyncSummary is the result of one sync pipeline run. It is always returned,
// even under partial failure; only configuration or fetch errors abort.
type SyncSummary struct {
	Message     string          `json:"message"`
	TotalSynced int             `json:"totalSynced"`
	StoreID     int64           `json:"storeId"`
	Errors      []SyncItemError `json:"errors,omitempty"`
}

// SyncReport merges the product and category pipeline summaries of a full
// store sync.
type SyncReport struct {
	StoreID     int64           `json:"storeId"`
	TotalSynced int             `json:"totalSynced"`
	Products    *SyncSummary    `json:"products"`
	Categories  *SyncSummary    `json:"categories"`
	Errors      []SyncItemError `json:"errors,omitempty"`
}
