package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/tokenstore"
)

// DefaultExportFilename is used when the export response names no file.
const DefaultExportFilename = "exported_questions.json"

var ErrNoToken = errors.New("login succeeded but no token was received")

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.PostForm(ctx, "/auth/token", form)
	if err != nil {
		return nil, err
	}

	var token models.Token
	if err := resp.Decode(&token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, ErrNoToken
	}

	if err := c.tokens.Set(ctx, tokenstore.Credential(token.AccessToken)); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	return &token, nil
}

// Logout forgets the stored credential. The server keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

func (c *Client) ListExamTypes(ctx context.Context) ([]models.ExamType, error) {
	resp, err := c.Get(ctx, "/exam-types/", nil)
	if err != nil {
		return nil, err
	}
	var out []models.ExamType
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExamType(ctx context.Context, in models.ExamTypeCreate) (*models.ExamType, error) {
	resp, err := c.PostJSON(ctx, "/exam-types/", in)
	if err != nil {
		return nil, err
	}
	var out models.ExamType
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExamType(ctx context.Context, id int, in models.ExamTypeUpdate) (*models.ExamType, error) {
	resp, err := c.PutJSON(ctx, fmt.Sprintf("/exam-types/%d", id), in)
	if err != nil {
		return nil, err
	}
	var out models.ExamType
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExamType(ctx context.Context, id int) error {
	_, err := c.Delete(ctx, fmt.Sprintf("/exam-types/%d", id))
	return err
}

// NextQuestion returns the next unanswered question, or ErrExhausted when the
// pool for the exam type is used up.
func (c *Client) NextQuestion(ctx context.Context, examTypeID int) (*models.Question, error) {
	query := url.Values{}
	query.Set("exam_type_id", strconv.Itoa(examTypeID))

	resp, err := c.Get(ctx, "/questions/next/", query)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, apperrors.ErrExhausted
		}
		return nil, err
	}
	var out models.Question
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAnswer sends the original 1-based option index.
func (c *Client) SubmitAnswer(ctx context.Context, questionID, selected int) (*models.AnswerResult, error) {
	resp, err := c.PostJSON(ctx, fmt.Sprintf("/questions/%d/answer/", questionID), models.AnswerSubmission{SelectedAnswer: selected})
	if err != nil {
		return nil, err
	}
	var out models.AnswerResult
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuestions lists questions, restricted to one exam type when examTypeID is set.
func (c *Client) ListQuestions(ctx context.Context, examTypeID *int) ([]models.Question, error) {
	resp, err := c.Get(ctx, "/questions/", examTypeQuery(examTypeID))
	if err != nil {
		return nil, err
	}
	var out []models.Question
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateQuestion(ctx context.Context, in models.QuestionCreate) (*models.Question, error) {
	resp, err := c.PostJSON(ctx, "/questions/", in)
	if err != nil {
		return nil, err
	}
	var out models.Question
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id int, in models.QuestionUpdate) (*models.Question, error) {
	resp, err := c.PutJSON(ctx, fmt.Sprintf("/questions/%d", id), in)
	if err != nil {
		return nil, err
	}
	var out models.Question
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	_, err := c.Delete(ctx, fmt.Sprintf("/questions/%d", id))
	return err
}

// ImportQuestions uploads a JSON question file into an exam type.
func (c *Client) ImportQuestions(ctx context.Context, examTypeID int, filename string, r io.Reader) (*models.ImportSummary, error) {
	resp, err := c.PostMultipart(ctx, fmt.Sprintf("/exam-types/%d/import-questions/", examTypeID), "file", filename, r)
	if err != nil {
		return nil, err
	}
	var out models.ImportSummary
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportQuestions downloads the questions of one exam type.
func (c *Client) ExportQuestions(ctx context.Context, examTypeID int) (*models.ExportFile, error) {
	resp, err := c.Get(ctx, fmt.Sprintf("/exam-types/%d/export-questions/", examTypeID), nil)
	if err != nil {
		return nil, err
	}
	return &models.ExportFile{
		Filename: FilenameFromDisposition(resp.Header.Get("Content-Disposition")),
		Content:  resp.Body,
	}, nil
}

// Summary fetches aggregate stats, unfiltered when examTypeID is nil.
func (c *Client) Summary(ctx context.Context, examTypeID *int) (*models.DetailedSummary, error) {
	resp, err := c.Get(ctx, "/summary/", examTypeQuery(examTypeID))
	if err != nil {
		return nil, err
	}
	var out models.DetailedSummary
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func examTypeQuery(examTypeID *int) url.Values {
	if examTypeID == nil {
		return nil
	}
	query := url.Values{}
	query.Set("exam_type_id", strconv.Itoa(*examTypeID))
	return query
}

var filenamePattern = regexp.MustCompile(`(?i)filename="?([^";]+)"?`)

// FilenameFromDisposition extracts filename= from a Content-Disposition header,
// falling back to DefaultExportFilename.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return DefaultExportFilename
	}
	if _, params, err := mime.ParseMediaType(header); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	if m := filenamePattern.FindStringSubmatch(header); len(m) == 2 && m[1] != "" {
		return m[1]
	}
	return DefaultExportFilename
}
