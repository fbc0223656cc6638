package bitbucket

// Export is the top-level shape of a db-1.0 issue export: three ordered
// collections keyed by id and/or an `issue` foreign key.
type Export struct {
	Issues   []ExportIssue   `json:"issues"`
	Comments []ExportComment `json:"comments"`
	Logs     []ExportLog     `json:"logs"`
}

// ExportIssue is one issue record as it appears in the export.
type ExportIssue struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
	Status    string `json:"status"`
	Kind      string `json:"kind"`
	Reporter  string `json:"reporter"`
}

// ExportComment is one comment record. User and Content may be empty:
// anonymous or system-generated comments carry no author, and some
// status changes produce comments with no text.
type ExportComment struct {
	ID        int    `json:"id"`
	Issue     int    `json:"issue"`
	User      string `json:"user"`
	Content   string `json:"content"`
	CreatedOn string `json:"created_on"`
}

// ExportLog is one status-change history record.
type ExportLog struct {
	Issue     int    `json:"issue"`
	CreatedOn string `json:"created_on"`
}
