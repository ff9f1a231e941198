package devserver

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-client/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

type user struct {
	ID           int
	Username     string
	PasswordHash []byte
}

type userAnswer struct {
	UserID     int
	QuestionID int
	Selected   int
	IsCorrect  bool
}

// Store is the in-memory backing of the dev backend.
type Store struct {
	mu sync.RWMutex

	users     map[string]*user
	examTypes map[int]models.ExamType
	questions map[int]models.Question
	answers   []userAnswer

	nextUserID     int
	nextExamTypeID int
	nextQuestionID int

	rng *rand.Rand
}

func NewStore() *Store {
	return &Store{
		users:          make(map[string]*user),
		examTypes:      make(map[int]models.ExamType),
		questions:      make(map[int]models.Question),
		nextUserID:     1,
		nextExamTypeID: 1,
		nextQuestionID: 1,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Store) AddUser(username string, passwordHash []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &user{ID: s.nextUserID, Username: username, PasswordHash: passwordHash}
	s.nextUserID++
	s.users[username] = u
	return u.ID
}

func (s *Store) userByName(username string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	return u, ok
}

func (s *Store) ListExamTypes() []models.ExamType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ExamType, 0, len(s.examTypes))
	for _, et := range s.examTypes {
		out = append(out, et)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetExamType(id int) (models.ExamType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	et, ok := s.examTypes[id]
	if !ok {
		return models.ExamType{}, ErrNotFound
	}
	return et, nil
}

func (s *Store) CreateExamType(name string) (models.ExamType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.examTypeByNameLocked(name) != nil {
		return models.ExamType{}, ErrDuplicate
	}
	et := models.ExamType{ID: s.nextExamTypeID, Name: name}
	s.nextExamTypeID++
	s.examTypes[et.ID] = et
	return et, nil
}

func (s *Store) UpdateExamType(id int, name string) (models.ExamType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	et, ok := s.examTypes[id]
	if !ok {
		return models.ExamType{}, ErrNotFound
	}
	if other := s.examTypeByNameLocked(name); other != nil && other.ID != id {
		return models.ExamType{}, ErrDuplicate
	}
	et.Name = name
	s.examTypes[id] = et
	return et, nil
}

// DeleteExamType removes the exam type and detaches its questions.
func (s *Store) DeleteExamType(id int) (models.ExamType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	et, ok := s.examTypes[id]
	if !ok {
		return models.ExamType{}, ErrNotFound
	}
	delete(s.examTypes, id)
	for qid, q := range s.questions {
		if q.ExamTypeID == id {
			q.ExamTypeID = 0
			s.questions[qid] = q
		}
	}
	return et, nil
}

func (s *Store) examTypeByNameLocked(name string) *models.ExamType {
	for _, et := range s.examTypes {
		if strings.EqualFold(et.Name, name) {
			found := et
			return &found
		}
	}
	return nil
}

// ListQuestions returns questions ordered by id, filtered when examTypeID is set.
func (s *Store) ListQuestions(examTypeID *int) []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if examTypeID != nil && q.ExamTypeID != *examTypeID {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetQuestion(id int) (models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, ErrNotFound
	}
	return q, nil
}

func (s *Store) CreateQuestion(in models.QuestionCreate) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.examTypes[in.ExamTypeID]; !ok {
		return models.Question{}, ErrNotFound
	}
	q := models.Question{
		ID:               s.nextQuestionID,
		ExamTypeID:       in.ExamTypeID,
		ProblemStatement: in.ProblemStatement,
		Option1:          in.Option1,
		Option2:          in.Option2,
		Option3:          in.Option3,
		Option4:          in.Option4,
		CorrectAnswer:    in.CorrectAnswer,
		Explanation:      in.Explanation,
	}
	s.nextQuestionID++
	s.questions[q.ID] = q
	return q, nil
}

// UpdateQuestion applies the non-nil fields of in.
func (s *Store) UpdateQuestion(id int, in models.QuestionUpdate) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, ErrNotFound
	}
	if in.ExamTypeID != nil {
		if _, ok := s.examTypes[*in.ExamTypeID]; !ok {
			return models.Question{}, ErrNotFound
		}
		q.ExamTypeID = *in.ExamTypeID
	}
	if in.ProblemStatement != nil {
		q.ProblemStatement = *in.ProblemStatement
	}
	if in.Option1 != nil {
		q.Option1 = *in.Option1
	}
	if in.Option2 != nil {
		q.Option2 = *in.Option2
	}
	if in.Option3 != nil {
		q.Option3 = *in.Option3
	}
	if in.Option4 != nil {
		q.Option4 = *in.Option4
	}
	if in.CorrectAnswer != nil {
		q.CorrectAnswer = *in.CorrectAnswer
	}
	if in.Explanation != nil {
		q.Explanation = in.Explanation
	}
	s.questions[id] = q
	return q, nil
}

// DeleteQuestion removes the question and its answer history.
func (s *Store) DeleteQuestion(id int) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, ErrNotFound
	}
	delete(s.questions, id)

	kept := s.answers[:0]
	for _, a := range s.answers {
		if a.QuestionID != id {
			kept = append(kept, a)
		}
	}
	s.answers = kept
	return q, nil
}

// NextQuestion picks a random question the user has not answered yet.
func (s *Store) NextQuestion(userID int, examTypeID *int) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := make(map[int]bool)
	for _, a := range s.answers {
		if a.UserID == userID {
			answered[a.QuestionID] = true
		}
	}

	var candidates []int
	for id, q := range s.questions {
		if answered[id] {
			continue
		}
		if examTypeID != nil && q.ExamTypeID != *examTypeID {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return models.Question{}, ErrNotFound
	}
	sort.Ints(candidates)
	return s.questions[candidates[s.rng.Intn(len(candidates))]], nil
}

func (s *Store) RecordAnswer(userID, questionID, selected int) (models.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		return models.AnswerResult{}, ErrNotFound
	}
	correct := q.CorrectAnswer == selected
	s.answers = append(s.answers, userAnswer{
		UserID:     userID,
		QuestionID: questionID,
		Selected:   selected,
		IsCorrect:  correct,
	})
	return models.AnswerResult{
		QuestionID:          questionID,
		SubmittedAnswer:     selected,
		IsCorrect:           correct,
		CorrectAnswerOption: q.CorrectAnswer,
		Explanation:         q.Explanation,
	}, nil
}

// Summary aggregates one user's answers, restricted to an exam type when set.
func (s *Store) Summary(userID int, examTypeID *int) models.DetailedSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		stats   models.SummaryStats
		perf    = make(map[int]*models.QuestionPerformance)
		ordered []int
	)
	for _, a := range s.answers {
		if a.UserID != userID {
			continue
		}
		q, ok := s.questions[a.QuestionID]
		if !ok {
			continue
		}
		if examTypeID != nil && q.ExamTypeID != *examTypeID {
			continue
		}

		stats.TotalAnswersSubmitted++
		p, seen := perf[q.ID]
		if !seen {
			p = &models.QuestionPerformance{QuestionID: q.ID, ProblemStatement: q.ProblemStatement}
			perf[q.ID] = p
			ordered = append(ordered, q.ID)
		}
		p.TimesAnswered++
		if a.IsCorrect {
			stats.TotalCorrectAnswers++
			p.TimesCorrect++
		} else {
			p.TimesIncorrect++
		}
	}

	stats.TotalIncorrectAnswers = stats.TotalAnswersSubmitted - stats.TotalCorrectAnswers
	stats.TotalUniqueQuestionsAttempted = len(perf)
	if stats.TotalAnswersSubmitted > 0 {
		stats.CorrectAnswerRate = float64(stats.TotalCorrectAnswers) / float64(stats.TotalAnswersSubmitted)
	}

	sort.Ints(ordered)
	rows := make([]models.QuestionPerformance, 0, len(ordered))
	for _, id := range ordered {
		rows = append(rows, *perf[id])
	}
	return models.DetailedSummary{SummaryStats: stats, QuestionPerformance: rows}
}
