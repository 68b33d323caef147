package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestTrainThenPlot(t *testing.T) {
	dir := t.TempDir()
	common := []string{
		"--env", filepath.Join(dir, "missing.env"),
		"--out", dir,
		"--size", "5",
		"--density", "0",
		"--episodes", "3",
	}

	out := execute(t, append([]string{"train", "--frames", "1"}, common...)...)
	match := regexp.MustCompile(`run ([0-9a-f-]{36}) saved`).FindStringSubmatch(out)
	require.Len(t, match, 2, out)
	id := match[1]

	for _, name := range []string{returnFile, lengthFile, convergenceFile,
		"frame0001.png", "frame0003.png"} {
		_, err := os.Stat(filepath.Join(dir, id+"-"+name))
		assert.NoError(t, err, name)
	}

	execute(t, append([]string{"plot", id}, common...)...)
	for _, name := range []string{"return", "steps", "convergence"} {
		_, err := os.Stat(filepath.Join(dir, id+"-"+name+".html"))
		assert.NoError(t, err, name)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "render", "--env", filepath.Join(dir, "missing.env"),
		"--out", dir, "--size", "5", "--density", "0", "--episodes", "1",
		"--tile", "8")
	assert.Regexp(t, `saved .*-frame\.png`, out)
}

func TestInvalidFlags(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"train", "--env", filepath.Join(dir, "missing.env"),
		"--out", dir, "--density", "2"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
