package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one recorded engine invocation over a project root.
type Run struct {
	ID   string `gorm:"primaryKey;type:varchar(36)"`
	Root string `gorm:"type:varchar(512);not null"`
	Mode string `gorm:"type:varchar(10);not null"` // check or fix

	// Aggregate counters
	FilesChecked int `gorm:"default:0"`
	FilesFixed   int `gorm:"default:0"`
	TotalChanges int `gorm:"default:0"`
	ErrorCount   int `gorm:"default:0"`
	WarningCount int `gorm:"default:0"`
	InfoCount    int `gorm:"default:0"`
	GoodCount    int `gorm:"default:0"`

	// Per-rule change tallies, keyed by rule id
	ChangesByType datatypes.JSON `gorm:"type:jsonb"`

	ExitCode  int       `gorm:"default:0"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	Duration  int64     // nanoseconds

	// Relationships
	Files []FileRun `gorm:"foreignKey:RunID"`
}

// FileRun is one file's outcome inside a run. Findings and changes are kept
// as JSON payloads; the columns carry what queries filter on.
type FileRun struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"`
	RunID string `gorm:"type:varchar(36);index;not null"`

	Path        string `gorm:"type:varchar(512);not null"`
	IssueCount  int    `gorm:"default:0"`
	ChangeCount int    `gorm:"default:0"`
	ParseFailed bool   `gorm:"default:false"`
	Written     bool   `gorm:"default:false"`

	Findings datatypes.JSON `gorm:"type:jsonb"`
	Changes  datatypes.JSON `gorm:"type:jsonb"`
	Diff     string         `gorm:"type:text"`
	Error    string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName customizations for cleaner names
func (Run) TableName() string     { return "runs" }
func (FileRun) TableName() string { return "file_runs" }
