package models

import "time"

// MatchRun is one persisted match run.
type MatchRun struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Reference   string    `gorm:"column:reference;type:varchar(512)" json:"reference"`
	Policy      string    `gorm:"column:policy;type:varchar(16)" json:"policy"`
	Status      string    `gorm:"column:status;type:varchar(16)" json:"status"`
	Error       string    `gorm:"column:error;type:text" json:"error,omitempty"`
	Targets     int       `gorm:"column:targets;type:int" json:"targets"`
	Resolved    int       `gorm:"column:resolved;type:int" json:"resolved"`
	Confirmed   int       `gorm:"column:confirmed;type:int" json:"confirmed"`
	High        int       `gorm:"column:high;type:int" json:"high"`
	Medium      int       `gorm:"column:medium;type:int" json:"medium"`
	Chunks      int       `gorm:"column:chunks;type:int" json:"chunks"`
	Rows        int64     `gorm:"column:rows_scanned;type:bigint" json:"rows_scanned"`
	Malformed   int64     `gorm:"column:malformed;type:bigint" json:"malformed"`
	DurationMS  int64     `gorm:"column:duration_ms;type:bigint" json:"duration_ms"`
	StartedAt   time.Time `gorm:"column:started_at" json:"started_at"`
	CompletedAt time.Time `gorm:"column:completed_at" json:"completed_at"`
}

// TableName overrides the table name.
func (MatchRun) TableName() string {
	return "match_runs"
}

// MatchResult is the resolution of one target within a run.
type MatchResult struct {
	ID              uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RunID           string `gorm:"column:run_id;type:varchar(36);index" json:"run_id"`
	TargetID        string `gorm:"column:target_id;type:varchar(128)" json:"target_id"`
	TargetName      string `gorm:"column:target_name;type:varchar(255)" json:"target_name"`
	Resolved        bool   `gorm:"column:resolved" json:"resolved"`
	Confidence      string `gorm:"column:confidence;type:varchar(16)" json:"confidence"`
	Method          string `gorm:"column:method;type:varchar(128)" json:"method,omitempty"`
	NPI             string `gorm:"column:npi;type:varchar(16)" json:"npi,omitempty"`
	FullName        string `gorm:"column:full_name;type:varchar(255)" json:"full_name,omitempty"`
	Credential      string `gorm:"column:credential;type:varchar(64)" json:"credential,omitempty"`
	PracticeAddress string `gorm:"column:practice_address;type:varchar(512)" json:"practice_address,omitempty"`
	PracticePhone   string `gorm:"column:practice_phone;type:varchar(32)" json:"practice_phone,omitempty"`
	MailingPhone    string `gorm:"column:mailing_phone;type:varchar(32)" json:"mailing_phone,omitempty"`
	LicenseNumbers  string `gorm:"column:license_numbers;type:text" json:"license_numbers,omitempty"`
	LicenseStates   string `gorm:"column:license_states;type:text" json:"license_states,omitempty"`
}

// TableName overrides the table name.
func (MatchResult) TableName() string {
	return "match_results"
}

// All lists every model, in migration order.
func All() []any {
	return []any{&MatchRun{}, &MatchResult{}}
}
