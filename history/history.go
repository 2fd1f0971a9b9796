// Package history persists run outcomes to a local (or remote libsql)
// database so regressions across runs can be compared. Recording is best
// effort: a broken history store degrades to a warning, never a failed run.
package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/db"
	"github.com/termfx/jsxfix/models"
)

// Store records completed runs.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// Open connects to the history database at dsn.
func Open(dsn string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	gdb, err := db.Connect(dsn, false)
	if err != nil {
		return nil, err
	}
	return &Store{db: gdb, log: log}, nil
}

// Record persists one report. The run row is written first, then the
// per-file rows; a partial failure leaves the run row in place and logs
// the rest.
func (s *Store) Record(report *core.Report, mode string, started time.Time) (string, error) {
	run := models.Run{
		ID:            uuid.NewString(),
		Root:          report.Root,
		Mode:          mode,
		FilesChecked:  report.FilesChecked,
		FilesFixed:    report.FilesFixed,
		TotalChanges:  report.TotalChanges,
		ErrorCount:    report.BySeverity[core.SeverityError],
		WarningCount:  report.BySeverity[core.SeverityWarning],
		InfoCount:     report.BySeverity[core.SeverityInfo],
		GoodCount:     report.GoodTally,
		ChangesByType: marshal(report.ChangesByType),
		ExitCode:      report.ExitCode(),
		StartedAt:     started,
		Duration:      int64(time.Since(started)),
	}
	if err := s.db.Create(&run).Error; err != nil {
		return "", err
	}

	for i := range report.Files {
		f := &report.Files[i]
		if len(f.Findings) == 0 && len(f.Changes) == 0 && !f.ParseFailed && f.Err == "" {
			continue
		}
		row := models.FileRun{
			RunID:       run.ID,
			Path:        f.Path,
			IssueCount:  f.IssueCount(),
			ChangeCount: len(f.Changes),
			ParseFailed: f.ParseFailed,
			Written:     f.Written,
			Findings:    marshal(f.Findings),
			Changes:     marshal(f.Changes),
			Diff:        f.Diff,
			Error:       f.Err,
		}
		if err := s.db.Create(&row).Error; err != nil {
			s.log.Warnw("history: file row not recorded", "path", f.Path, "error", err)
		}
	}
	return run.ID, nil
}

// LastRun returns the most recent run for a root, or nil when none exists.
func (s *Store) LastRun(root string) (*models.Run, error) {
	var run models.Run
	err := s.db.Where("root = ?", root).Order("started_at DESC").First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func marshal(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}
