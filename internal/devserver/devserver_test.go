package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-client/internal/apiclient"
	"github.com/SAP-F-2025/exam-client/internal/config"
	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/tokenstore"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "testuser"
	testPassword = "testpassword"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(config.DevServerConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Minute,
		Username:  testUser,
		Password:  testPassword,
	}, utils.NewNopLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return srv, ts
}

func newLoggedInClient(t *testing.T) (*Server, *apiclient.Client) {
	t.Helper()
	srv, ts := newTestServer(t)
	client := apiclient.New(ts.URL, tokenstore.NewMemoryStore(), utils.NewNopLogger())
	_, err := client.Login(context.Background(), testUser, testPassword)
	require.NoError(t, err)
	return srv, client
}

func decodeDetail(t *testing.T, resp *http.Response) interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Detail
}

func TestLogin(t *testing.T) {
	_, ts := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		resp, err := http.PostForm(ts.URL+"/auth/token", url.Values{"username": {testUser}, "password": {"nope"}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
		assert.Equal(t, msgBadCredentials, decodeDetail(t, resp))
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, err := http.PostForm(ts.URL+"/auth/token", url.Values{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		detail, ok := decodeDetail(t, resp).([]interface{})
		require.True(t, ok)
		assert.Len(t, detail, 2)
	})

	t.Run("success", func(t *testing.T) {
		resp, err := http.PostForm(ts.URL+"/auth/token", url.Values{"username": {testUser}, "password": {testPassword}})
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var token models.Token
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&token))
		assert.NotEmpty(t, token.AccessToken)
		assert.Equal(t, "bearer", token.TokenType)
	})
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	srv, ts := newTestServer(t)

	expired := *srv.Auth
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, err := expired.IssueToken(testUser)
	require.NoError(t, err)

	other := NewAuthenticator(srv.Store, "other-secret", time.Minute, utils.NewNopLogger())
	forged, err := other.IssueToken(testUser)
	require.NoError(t, err)

	unknown, err := srv.Auth.IssueToken("ghost")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + stale},
		{"wrong secret", "Bearer " + forged},
		{"unknown user", "Bearer " + unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/exam-types/", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, msgInvalidCredentials, decodeDetail(t, resp))
		})
	}
}

func TestHealthCheck(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExamTypes_ThroughClient(t *testing.T) {
	ctx := context.Background()
	_, client := newLoggedInClient(t)

	created, err := client.CreateExamType(ctx, models.ExamTypeCreate{Name: "Math"})
	require.NoError(t, err)
	assert.Equal(t, "Math", created.Name)

	_, err = client.CreateExamType(ctx, models.ExamTypeCreate{Name: "Math"})
	require.Error(t, err)
	assert.True(t, apperrors.IsDomain(err))
	assert.Equal(t, "Exam type with this name already exists", apperrors.Message(err))

	other, err := client.CreateExamType(ctx, models.ExamTypeCreate{Name: "Physics"})
	require.NoError(t, err)
	_, err = client.UpdateExamType(ctx, other.ID, models.ExamTypeUpdate{Name: "Math"})
	assert.Equal(t, "Another exam type with this name already exists", apperrors.Message(err))

	_, err = client.CreateExamType(ctx, models.ExamTypeCreate{Name: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, apperrors.Message(err), "body -> name")

	err = client.DeleteExamType(ctx, 999)
	assert.True(t, apperrors.IsDomain(err))
	assert.Equal(t, msgExamTypeNotFound, apperrors.Message(err))

	list, err := client.ListExamTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestQuestions_DeletingExamTypeDetachesQuestions(t *testing.T) {
	ctx := context.Background()
	_, client := newLoggedInClient(t)

	et, err := client.CreateExamType(ctx, models.ExamTypeCreate{Name: "History"})
	require.NoError(t, err)
	q, err := client.CreateQuestion(ctx, models.QuestionCreate{
		ExamTypeID:       et.ID,
		ProblemStatement: "When?",
		Option1:          "1066",
		Option2:          "1492",
		CorrectAnswer:    1,
	})
	require.NoError(t, err)

	require.NoError(t, client.DeleteExamType(ctx, et.ID))

	all, err := client.ListQuestions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, q.ID, all[0].ID)
	assert.Zero(t, all[0].ExamTypeID)
}

func TestQuestions_ValidationAndUpdate(t *testing.T) {
	ctx := context.Background()
	_, client := newLoggedInClient(t)

	et, err := client.CreateExamType(ctx, models.ExamTypeCreate{Name: "Chemistry"})
	require.NoError(t, err)

	_, err = client.CreateQuestion(ctx, models.QuestionCreate{ExamTypeID: et.ID, Option1: "a", CorrectAnswer: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, apperrors.Message(err), "body -> problem_statement: cannot be empty")

	_, err = client.CreateQuestion(ctx, models.QuestionCreate{ExamTypeID: 42, ProblemStatement: "x", Option1: "a", CorrectAnswer: 1})
	assert.Equal(t, msgExamTypeNotFound, apperrors.Message(err))

	q, err := client.CreateQuestion(ctx, models.QuestionCreate{ExamTypeID: et.ID, ProblemStatement: "H2O?", Option1: "water", Option2: "salt", CorrectAnswer: 1})
	require.NoError(t, err)

	text := "What is H2O?"
	updated, err := client.UpdateQuestion(ctx, q.ID, models.QuestionUpdate{ProblemStatement: &text})
	require.NoError(t, err)
	assert.Equal(t, text, updated.ProblemStatement)
	assert.Equal(t, "water", updated.Option1)

	require.NoError(t, client.DeleteQuestion(ctx, q.ID))
	err = client.DeleteQuestion(ctx, q.ID)
	assert.Equal(t, msgQuestionNotFound, apperrors.Message(err))
}

func TestCreateRespondsCreated(t *testing.T) {
	srv, ts := newTestServer(t)
	token, err := srv.Auth.IssueToken(testUser)
	require.NoError(t, err)

	post := func(path, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := post("/exam-types/", `{"name":"Go"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var et models.ExamType
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&et))

	resp = post("/questions/", `{"exam_type_id":`+strconv.Itoa(et.ID)+`,"problem_statement":"What does defer do?","option_1":"Delays a call","correct_answer":1}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var q models.Question
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&q))
	assert.Equal(t, "What does defer do?", q.ProblemStatement)
	assert.Equal(t, et.ID, q.ExamTypeID)
}

func TestBadPathID(t *testing.T) {
	srv, ts := newTestServer(t)
	token, err := srv.Auth.IssueToken(testUser)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/questions/abc", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	detail, ok := decodeDetail(t, resp).([]interface{})
	require.True(t, ok)
	assert.Len(t, detail, 1)
}

func TestExamFlow_ExhaustionAndSummary(t *testing.T) {
	ctx := context.Background()
	_, client := newLoggedInClient(t)

	et, err := client.CreateExamType(ctx, models.ExamTypeCreate{Name: "Geography"})
	require.NoError(t, err)
	for _, s := range []string{"Capital of France?", "Capital of Italy?"} {
		_, err := client.CreateQuestion(ctx, models.QuestionCreate{
			ExamTypeID:       et.ID,
			ProblemStatement: s,
			Option1:          "Paris",
			Option2:          "Rome",
			CorrectAnswer:    1,
		})
		require.NoError(t, err)
	}

	seen := map[int]bool{}
	for i := 0; i < 2; i++ {
		q, err := client.NextQuestion(ctx, et.ID)
		require.NoError(t, err)
		assert.False(t, seen[q.ID], "question served twice")
		seen[q.ID] = true

		result, err := client.SubmitAnswer(ctx, q.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, q.ID, result.QuestionID)
		assert.Equal(t, 1, result.CorrectAnswerOption)
	}

	_, err = client.NextQuestion(ctx, et.ID)
	assert.ErrorIs(t, err, apperrors.ErrExhausted)

	summary, err := client.Summary(ctx, &et.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SummaryStats.TotalAnswersSubmitted)
	assert.Equal(t, 2, summary.SummaryStats.TotalCorrectAnswers)
	assert.Equal(t, 2, summary.SummaryStats.TotalUniqueQuestionsAttempted)
	assert.InDelta(t, 1.0, summary.SummaryStats.CorrectAnswerRate, 1e-9)
	assert.Len(t, summary.QuestionPerformance, 2)

	missing := 999
	_, err = client.Summary(ctx, &missing)
	assert.Equal(t, "ExamType with id 999 not found.", apperrors.Message(err))
}

func TestSubmitAnswer_RejectsOutOfRangeOption(t *testing.T) {
	ctx := context.Background()
	_, client := newLoggedInClient(t)

	et, err := client.CreateExamType(ctx, models.ExamTypeCreate{Name: "Art"})
	require.NoError(t, err)
	q, err := client.CreateQuestion(ctx, models.QuestionCreate{ExamTypeID: et.ID, ProblemStatement: "?", Option1: "a", CorrectAnswer: 1})
	require.NoError(t, err)

	_, err = client.SubmitAnswer(ctx, q.ID, 7)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestImportExport(t *testing.T) {
	ctx := context.Background()
	srv, client := newLoggedInClient(t)

	et, err := client.CreateExamType(ctx, models.ExamTypeCreate{Name: "World History"})
	require.NoError(t, err)
	_, err = srv.Store.CreateQuestion(models.QuestionCreate{
		ExamTypeID: et.ID, ProblemStatement: "Existing question", Option1: "a", CorrectAnswer: 1,
	})
	require.NoError(t, err)

	file := `[
		{"problem_statement": "New question", "option_1": "a", "option_2": "b", "correct_answer": 2},
		{"problem_statement": "existing   QUESTION", "option_1": "a", "correct_answer": 1},
		{"problem_statement": "", "option_1": "a", "correct_answer": 1},
		"not an object"
	]`
	result, err := client.ImportQuestions(ctx, et.ID, "questions.json", strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 2, result.FailedCount)
	require.Len(t, result.Errors, 2)
	require.NotNil(t, result.Errors[0].RowIndex)
	assert.Equal(t, 2, *result.Errors[0].RowIndex)
	assert.True(t, result.Errors[0].HasData())
	assert.Equal(t, msgImportBadRow, result.Errors[1].ErrorMessage)

	_, err = client.ImportQuestions(ctx, et.ID, "questions.json", strings.NewReader(`{"a": 1}`))
	assert.Equal(t, msgImportNotList, apperrors.Message(err))

	export, err := client.ExportQuestions(ctx, et.ID)
	require.NoError(t, err)
	assert.Equal(t, "world_history_questions.json", export.Filename)

	var items []models.QuestionExportItem
	require.NoError(t, json.Unmarshal(export.Content, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Existing question", items[0].ProblemStatement)
	assert.Equal(t, "New question", items[1].ProblemStatement)
}

func TestExportFilename(t *testing.T) {
	tests := map[string]string{
		"Math":           "math_questions.json",
		"World  History": "world_history_questions.json",
		" C++ / Go ":     "c_go_questions.json",
		"!!!":            "exam_type_questions.json",
	}
	for in, want := range tests {
		assert.Equal(t, want, exportFilename(in), in)
	}
}

func TestStore_NextQuestionIsPerUser(t *testing.T) {
	store := NewStore()
	alice := store.AddUser("alice", nil)
	bob := store.AddUser("bob", nil)
	et, err := store.CreateExamType("Quiz")
	require.NoError(t, err)
	q, err := store.CreateQuestion(models.QuestionCreate{ExamTypeID: et.ID, ProblemStatement: "?", Option1: "a", CorrectAnswer: 1})
	require.NoError(t, err)

	_, err = store.RecordAnswer(alice, q.ID, 2)
	require.NoError(t, err)

	_, err = store.NextQuestion(alice, &et.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	next, err := store.NextQuestion(bob, &et.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, next.ID)

	summary := store.Summary(alice, nil)
	assert.Equal(t, 1, summary.SummaryStats.TotalIncorrectAnswers)
	assert.Zero(t, store.Summary(bob, nil).SummaryStats.TotalAnswersSubmitted)
}
