package resource

// Paging is embedded in list parameters of paginated endpoints.
type Paging struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Period filters by Unix timestamps, as the ledger and payment lists expect.
type Period struct {
	Start int64 `json:"starttmp,omitempty"`
	End   int64 `json:"endtmp,omitempty"`
}
