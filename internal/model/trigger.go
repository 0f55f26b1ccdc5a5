package model

// Trigger type tags carried in the trigger_type field of every record.
const (
	TypeAnnouncement = "eclipse_temurin_announcement"
	TypeSimple       = "simple"
	TypeDetailed     = "detailed"
)

// RemoteTrigger is one detected remote-trigger event. Concrete variants are
// AnnouncementTrigger, SimpleTrigger, and DetailedTrigger.
type RemoteTrigger interface {
	TriggerType() string
}

// AnnouncementTrigger records an Eclipse Temurin AQA test trigger
// announcement line.
type AnnouncementTrigger struct {
	Type       string            `json:"trigger_type"`
	JobName    string            `json:"job_name"`
	Timestamp  string            `json:"timestamp,omitempty"` // ISO-8601, as printed in the log
	Parameters map[string]string `json:"parameters,omitempty"`
}

func (t AnnouncementTrigger) TriggerType() string { return t.Type }

// SimpleTrigger records a bare remote-trigger directive with no
// parameter block.
type SimpleTrigger struct {
	Type    string   `json:"trigger_type"`
	JobName string   `json:"job_name"`
	Targets []string `json:"targets,omitempty"`
}

func (t SimpleTrigger) TriggerType() string { return t.Type }

// DetailedTrigger records a full Parameterized Remote Trigger configuration
// block, including its trailer fields.
//
// BlockBuildUntilComplete and TrustAllCertificates hold a bool, and
// ConnectionRetryLimit an int, when the logged value parsed; otherwise the
// raw string from the log is retained.
type DetailedTrigger struct {
	Type                    string            `json:"trigger_type"`
	JobName                 string            `json:"job_name"`
	RemoteJenkinsName       string            `json:"remote_jenkins_name,omitempty"`
	Parameters              map[string]string `json:"parameters,omitempty"`
	BlockBuildUntilComplete any               `json:"block_build_until_complete,omitempty"`
	ConnectionRetryLimit    any               `json:"connection_retry_limit,omitempty"`
	TrustAllCertificates    any               `json:"trust_all_certificates,omitempty"`
	RemoteJobURL            string            `json:"remote_job_url,omitempty"`
	AuthenticationUser      string            `json:"authentication_user,omitempty"`
	CSRFProtectionEnabled   any               `json:"csrf_protection_enabled,omitempty"`
}

func (t DetailedTrigger) TriggerType() string { return t.Type }

// ExtractionResult is the ordered sequence of triggers found in one log,
// in transcript order.
type ExtractionResult struct {
	RemoteTriggers []RemoteTrigger `json:"remote_triggers"`
	TotalTriggers  int             `json:"total_triggers"`
}

// NewExtractionResult returns an empty result. RemoteTriggers is non-nil so
// an empty result serializes as [] rather than null.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{RemoteTriggers: []RemoteTrigger{}}
}

// Add appends a trigger and keeps TotalTriggers equal to the sequence length.
func (r *ExtractionResult) Add(t RemoteTrigger) {
	r.RemoteTriggers = append(r.RemoteTriggers, t)
	r.TotalTriggers = len(r.RemoteTriggers)
}
