package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-segment-mcp/internal/batch"
)

func writeStep(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := height / 2; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "image-segment-mcp "+Version)
	assert.Contains(t, out, "Git commit: "+GitCommit)
}

func TestSegmentCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "step.png")
	writeStep(t, input, 8, 8)
	outDir := filepath.Join(dir, "out")

	out, _, err := execute(t, "segment", input, "--output-dir", outDir, "--log-level", "error")
	require.NoError(t, err)

	var item batch.Item
	require.NoError(t, json.Unmarshal([]byte(out), &item))
	assert.Equal(t, 8, item.Width)
	assert.Equal(t, int64(22), item.MaxFlow)
	assert.Equal(t, 50.0, item.ForegroundPercent)
	assert.FileExists(t, filepath.Join(outDir, "step_overlay.png"))
	assert.FileExists(t, filepath.Join(outDir, "step_mask.png"))
}

func TestSegmentCommand_Region(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "step.png")
	writeStep(t, input, 8, 8)

	out, _, err := execute(t, "segment", input, "--region", "0,4,8,8")
	require.NoError(t, err)

	var item batch.Item
	require.NoError(t, json.Unmarshal([]byte(out), &item))
	assert.Equal(t, 4, item.Height)
	assert.Equal(t, int64(8*255), item.MaxFlow)

	_, _, err = execute(t, "segment", input, "--region", "0,4")
	assert.Error(t, err)
}

func TestSegmentCommand_InvalidSettings(t *testing.T) {
	input := filepath.Join(t.TempDir(), "step.png")
	writeStep(t, input, 4, 4)

	_, _, err := execute(t, "segment", input, "--seeds", "diagonal")
	assert.ErrorContains(t, err, "seeds")

	_, _, err = execute(t, "segment", input, "--max-weight", "0")
	assert.ErrorContains(t, err, "max_weight")

	_, _, err = execute(t, "segment", input, "--log-level", "verbose")
	assert.ErrorContains(t, err, "log_level")

	_, _, err = execute(t, "segment", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestSegmentCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "step.png")
	writeStep(t, input, 6, 6)
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("seeds: nonsense\n"), 0o644))

	_, _, err := execute(t, "segment", input, "--config", cfgPath)
	assert.ErrorContains(t, err, "seeds")

	// flags override the file
	_, _, err = execute(t, "segment", input, "--config", cfgPath, "--seeds", "columns")
	assert.NoError(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeStep(t, filepath.Join(dir, "a.png"), 6, 6)
	writeStep(t, filepath.Join(dir, "b.png"), 4, 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.png"), []byte("junk"), 0o644))

	out, _, err := execute(t, "batch", dir, "--workers", "2", "--log-json")
	assert.Error(t, err, "broken file should fail the run")

	var report batch.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Found)
	assert.Len(t, report.Items, 2)
	assert.Len(t, report.Failures, 1)
	assert.FileExists(t, filepath.Join(dir, "a_mask.png"))
}
