package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-client/internal/config"
	"github.com/SAP-F-2025/exam-client/internal/devserver"
	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type result struct {
	out    string
	errOut string
	err    error
}

func setupEnv(t *testing.T) string {
	t.Helper()
	srv, err := devserver.New(config.DevServerConfig{
		JWTSecret: "cli-test-secret",
		TokenTTL:  time.Minute,
		Username:  "testuser",
		Password:  "testpassword",
	}, utils.NewNopLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	t.Setenv("API_BASE_URL", ts.URL)
	t.Setenv("TOKEN_STORE", "file")
	t.Setenv("TOKEN_FILE", filepath.Join(dir, "token.json"))
	t.Setenv("EXPORT_DIR", dir)
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin), &out, &errOut)
	err := cmd.Run(context.Background(), append([]string{"examctl"}, args...))
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestCLI_RequiresLogin(t *testing.T) {
	setupEnv(t)

	res := run(t, "", "exam-types", "list")
	require.Error(t, res.err)
	assert.True(t, apperrors.IsAuthRequired(res.err))
	assert.Equal(t, msgLoginAgain, errorMessage(res.err))

	res = run(t, "", "login", "-u", "testuser", "-p", "wrong")
	require.Error(t, res.err)
	assert.Equal(t, "Incorrect username or password", errorMessage(res.err))
}

func TestCLI_LoginPromptsForMissingCredentials(t *testing.T) {
	setupEnv(t)

	res := run(t, "testuser\ntestpassword\n", "login")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Username: ")
	assert.Contains(t, res.out, "Logged in as testuser.")

	res = run(t, "", "exam-types", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No exam types found.")
}

func TestCLI_FullWorkflow(t *testing.T) {
	dir := setupEnv(t)

	res := run(t, "", "login", "-u", "testuser", "-p", "testpassword")
	require.NoError(t, res.err)

	res = run(t, "", "exam-types", "create", "Math")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Exam type created successfully!")

	res = run(t, "", "exam-types", "create", "   ")
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, "Name cannot be empty.")

	res = run(t, "", "exam-types", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Math")

	res = run(t, "", "questions", "create", "-t", "1", "-s", "2+2?", "--option1", "3", "--option2", "4", "-c", "2", "--explanation", "Basic arithmetic.")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Question created successfully!")

	res = run(t, "1\n\n", "exam", "--exam-type", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "2+2?")
	assert.True(t, strings.Contains(res.out, "Correct!") || strings.Contains(res.out, "Incorrect!"))
	assert.Contains(t, res.out, "Explanation: Basic arithmetic.")
	assert.Contains(t, res.out, "Congratulations! No more questions available.")
	assert.Contains(t, res.out, "Answered 1 question(s) this session.")

	report := filepath.Join(dir, "report.xlsx")
	res = run(t, "", "summary", "-t", "1", "--xlsx", report)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Summary: Math")
	assert.Contains(t, res.out, "Answers submitted:          1")

	wb, err := excelize.OpenFile(report)
	require.NoError(t, err)
	assert.Contains(t, wb.GetSheetList(), "Summary")
	require.NoError(t, wb.Close())

	res = run(t, "", "questions", "export", "-t", "1")
	require.NoError(t, res.err)
	exported := filepath.Join(dir, "math_questions.json")
	assert.FileExists(t, exported)
	assert.Contains(t, res.out, "Questions exported successfully")

	importFile := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(importFile, []byte(`[
		{"problem_statement": "3+3?", "option_1": "6", "option_2": "7", "correct_answer": 1},
		{"problem_statement": "", "option_1": "x", "correct_answer": 1}
	]`), 0o600))
	res = run(t, "", "questions", "import", "-t", "1", importFile)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Successfully imported 1 questions. Failed: 1.")
	assert.Contains(t, res.out, "Row 2:")

	res = run(t, "", "questions", "import", "-t", "1", filepath.Join(dir, "notes.txt"))
	require.Error(t, res.err)

	res = run(t, "n\n", "exam-types", "delete", "1")
	require.ErrorIs(t, res.err, apperrors.ErrCanceled)
	assert.Contains(t, res.out, `Are you sure you want to delete exam type "Math" (ID: 1)?`)

	res = run(t, "", "exam-types", "delete", "--yes", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Exam type deleted successfully!")

	res = run(t, "", "questions", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "N/A")

	res = run(t, "", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Logged out.")

	res = run(t, "", "questions", "list")
	assert.True(t, apperrors.IsAuthRequired(res.err))
}

func TestCLI_ExportRequiresExamType(t *testing.T) {
	setupEnv(t)
	require.NoError(t, run(t, "", "login", "-u", "testuser", "-p", "testpassword").err)

	res := run(t, "", "questions", "export")
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, "Please select a specific Exam Type to export questions.")
}

func TestParseID(t *testing.T) {
	id, err := parseID("exam-type", " 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := parseID("exam-type", raw)
		assert.True(t, apperrors.IsLocalValidation(err), raw)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
