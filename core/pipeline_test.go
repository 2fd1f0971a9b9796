package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/rules"
)

const badComponent = `function app() {
  return <div class="box">{}</div>;
}
`

const fixedComponent = `function App() {
  return <div className="box"></div>;
}
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func runPipeline(t *testing.T, root string, fix bool) *core.Report {
	t.Helper()
	cfg := core.DefaultConfig(root)
	cfg.Fix = fix
	cfg.History = false

	report, err := core.NewPipeline(cfg, rules.Default(), nil).Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestPipelineCheckMode(t *testing.T) {
	root := writeProject(t, map[string]string{
		"App.jsx":              badComponent,
		"broken.jsx":           "const el = <div",
		"node_modules/Dep.jsx": badComponent,
	})

	report := runPipeline(t, root, false)

	assert.Equal(t, 2, report.FilesChecked)
	assert.Equal(t, 1, report.ParseFailed)
	assert.Equal(t, 1, report.BySeverity[core.SeverityError])
	assert.Equal(t, 2, report.BySeverity[core.SeverityWarning])
	assert.Zero(t, report.TotalChanges)
	assert.Equal(t, 1, report.ExitCode())

	// Check mode never touches files.
	data, err := os.ReadFile(filepath.Join(root, "App.jsx"))
	require.NoError(t, err)
	assert.Equal(t, badComponent, string(data))
}

func TestPipelineFixMode(t *testing.T) {
	root := writeProject(t, map[string]string{"App.jsx": badComponent})

	report := runPipeline(t, root, true)

	assert.Equal(t, 1, report.FilesChecked)
	assert.Equal(t, 1, report.FilesFixed)
	assert.Equal(t, 3, report.TotalChanges)
	assert.Equal(t, 0, report.ExitCode())

	data, err := os.ReadFile(filepath.Join(root, "App.jsx"))
	require.NoError(t, err)
	assert.Equal(t, fixedComponent, string(data))
}

func TestPipelineFixIsIdempotent(t *testing.T) {
	root := writeProject(t, map[string]string{"App.jsx": badComponent})

	first := runPipeline(t, root, true)
	require.Equal(t, 3, first.TotalChanges)

	second := runPipeline(t, root, true)
	assert.Zero(t, second.TotalChanges)
	assert.Zero(t, second.FilesFixed)

	data, err := os.ReadFile(filepath.Join(root, "App.jsx"))
	require.NoError(t, err)
	assert.Equal(t, fixedComponent, string(data))
}

func TestPipelineParseFailureIsolation(t *testing.T) {
	root := writeProject(t, map[string]string{
		"Good.jsx":   badComponent,
		"broken.jsx": "const el = <div",
	})

	report := runPipeline(t, root, true)

	assert.Equal(t, 2, report.FilesChecked)
	assert.Equal(t, 1, report.ParseFailed)
	assert.Equal(t, 1, report.FilesFixed)
	// Parse failures never drive the exit status.
	assert.Equal(t, 0, report.ExitCode())

	// The broken file survives untouched.
	data, err := os.ReadFile(filepath.Join(root, "broken.jsx"))
	require.NoError(t, err)
	assert.Equal(t, "const el = <div", string(data))

	data, err = os.ReadFile(filepath.Join(root, "Good.jsx"))
	require.NoError(t, err)
	assert.Equal(t, fixedComponent, string(data))
}

func TestPipelineRecordsDiffForFixedFiles(t *testing.T) {
	root := writeProject(t, map[string]string{"App.jsx": badComponent})

	report := runPipeline(t, root, true)

	require.Len(t, report.Files, 1)
	diff := report.Files[0].Diff
	assert.Contains(t, diff, "-")
	assert.Contains(t, diff, "className")
}

func TestPipelineCancelledContext(t *testing.T) {
	root := writeProject(t, map[string]string{"App.jsx": badComponent})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := core.DefaultConfig(root)
	cfg.History = false
	report, err := core.NewPipeline(cfg, rules.Default(), nil).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.FilesChecked)
}

func TestPipelineWritesArtifact(t *testing.T) {
	root := writeProject(t, map[string]string{"App.jsx": badComponent})

	report := runPipeline(t, root, true)

	cfg := core.DefaultConfig(root)
	require.NoError(t, report.WriteArtifact(cfg.ArtifactPath()))
	assert.FileExists(t, filepath.Join(root, core.ReportFileName))
}
