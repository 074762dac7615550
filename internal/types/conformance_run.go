package types

// Check outcome values stored in CheckResult.Status.
const (
	CheckStatusPass  = "pass"
	CheckStatusFail  = "fail"
	CheckStatusError = "error"
)

// Where a run was started from.
const (
	RunSourceCLI   = "cli"
	RunSourceQueue = "queue"
)

// ConformanceRun is one execution of the check suite against a base URL.
type ConformanceRun struct {
	Id         uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	RunId      string        `json:"run_id" gorm:"uniqueIndex;size:26;not null"`
	BaseURL    string        `json:"base_url"`
	Source     string        `json:"source"`
	Passed     bool          `json:"passed"`
	PassCount  int           `json:"pass_count"`
	FailCount  int           `json:"fail_count"`
	ErrorCount int           `json:"error_count"`
	CreateTime int64         `json:"create_time" gorm:"autoCreateTime:milli"`
	FinishTime int64         `json:"finish_time"`
	Checks     []CheckResult `json:"checks" gorm:"foreignKey:RunId;references:RunId;constraint:OnDelete:CASCADE"`
}

// CheckResult is the outcome of a single check inside a run.
type CheckResult struct {
	Id         uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	RunId      string `json:"run_id" gorm:"index;size:26;not null"`
	Position   int    `json:"position"`
	Name       string `json:"name"`
	Endpoint   string `json:"endpoint"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	DurationMs int64  `json:"duration_ms"`
}
