package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorsite/internal/util"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "file://"+filepath.Join(dir, "database.json"))
	return dir
}

func TestImportAndStats(t *testing.T) {
	dir := setupStore(t)
	file := filepath.Join(dir, "answer.txt")
	require.NoError(t, os.WriteFile(file, []byte("Here you go\n```json\n[{\"company_name\":\"Acme\",\"category\":\"home\"},{\"company_name\":\"Beta\"}]\n```"), 0o644))

	out, err := runCLI(t, "", "import", "--file", file, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "2 leads would be imported")
	assert.Contains(t, out, "1. Acme (home)")

	out, err = runCLI(t, "", "stats")
	require.NoError(t, err)
	assert.Regexp(t, `total\s+0`, out)

	out, err = runCLI(t, "", "import", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 leads")

	out, err = runCLI(t, "", "stats")
	require.NoError(t, err)
	assert.Regexp(t, `new\s+2`, out)
	assert.Regexp(t, `total\s+2`, out)
}

func TestImportFromStdinRejectsBatch(t *testing.T) {
	setupStore(t)

	_, err := runCLI(t, `[{"company_name":"Acme"},{"website":"x.com"}]`, "import", "--file", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead 2 is missing company_name")

	out, err := runCLI(t, "", "stats")
	require.NoError(t, err)
	assert.Regexp(t, `total\s+0`, out)
}

func TestImportRequiresFile(t *testing.T) {
	setupStore(t)
	_, err := runCLI(t, "", "import")
	assert.Error(t, err)
}

func TestPromptCommands(t *testing.T) {
	out, err := runCLI(t, "", "prompt", "discovery", "--category", "beauty", "--count", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "company_name")

	_, err = runCLI(t, "", "prompt", "discovery", "--category", "spaceships")
	assert.Error(t, err)

	out, err = runCLI(t, "", "prompt", "competitor", "--brand", "Glossier")
	require.NoError(t, err)
	assert.Contains(t, out, "Glossier")
}

func TestHashPassword(t *testing.T) {
	out, err := runCLI(t, "hunter2\n", "hash-password")
	require.NoError(t, err)
	assert.True(t, util.CheckPasswordHash("hunter2", strings.TrimSpace(out)))

	_, err = runCLI(t, "", "hash-password")
	assert.Error(t, err)
}
