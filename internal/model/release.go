package model

// Platform is one row of the release-tracking platform table. Major
// platforms are bolded and marked for a full run; the rest default to skip.
type Platform struct {
	Name  string `yaml:"name" json:"name"`
	Major bool   `yaml:"major" json:"major"`
}

// Issue is the subset of the GitHub issue response the tools report on.
type Issue struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
}
