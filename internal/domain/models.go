package domain

// Domain contains core models shared across the harvester.

// Report is one calendar report entry from the guild/user report listings.
// Code is the report identifier used in /report/... paths; Start and End are
// Unix milliseconds.
type Report struct {
	Code  string `json:"id"`
	Title string `json:"title"`
	Owner string `json:"owner"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Zone  int    `json:"zone"`
}
