package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/termfx/jsxfix/models"
)

func TestConnect(t *testing.T) {
	tests := []struct {
		name          string
		dsn           func(t *testing.T) string
		expectedError bool
	}{
		{
			name: "memory database",
			dsn:  func(t *testing.T) string { return ":memory:" },
		},
		{
			name: "file database",
			dsn: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "history.db")
			},
		},
		{
			name: "nested directory is created",
			dsn: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), ".jsxfix", "history.db")
			},
		},
		{
			name: "unreachable libsql URL",
			dsn: func(t *testing.T) string {
				return "libsql://127.0.0.1:1"
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdb, err := Connect(tt.dsn(t), false)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, gdb)

			sqlDB, err := gdb.DB()
			require.NoError(t, err)
			defer sqlDB.Close()

			// Migrations ran.
			assert.True(t, gdb.Migrator().HasTable(&models.Run{}))
			assert.True(t, gdb.Migrator().HasTable(&models.FileRun{}))
		})
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("libsql://db.example.io"))
	assert.True(t, isURL("https://db.example.io"))
	assert.True(t, isURL("http://db.example.io"))
	assert.False(t, isURL(".jsxfix/history.db"))
	assert.False(t, isURL(":memory:"))
}

func TestRunRoundTrip(t *testing.T) {
	gdb, err := Connect(":memory:", false)
	require.NoError(t, err)

	run := models.Run{
		ID:            "run-1",
		Root:          "/project",
		Mode:          "fix",
		FilesChecked:  4,
		TotalChanges:  2,
		ChangesByType: datatypes.JSON(`{"reserved-prop":2}`),
	}
	require.NoError(t, gdb.Create(&run).Error)

	file := models.FileRun{
		RunID:       run.ID,
		Path:        "src/App.jsx",
		ChangeCount: 2,
		Written:     true,
		Changes:     datatypes.JSON(`[{"rule":"reserved-prop"}]`),
	}
	require.NoError(t, gdb.Create(&file).Error)

	var loaded models.Run
	require.NoError(t, gdb.Preload("Files").First(&loaded, "id = ?", run.ID).Error)
	assert.Equal(t, "/project", loaded.Root)
	assert.Equal(t, 4, loaded.FilesChecked)
	require.Len(t, loaded.Files, 1)
	assert.Equal(t, "src/App.jsx", loaded.Files[0].Path)
	assert.True(t, loaded.Files[0].Written)
}
