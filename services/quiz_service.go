package services

import (
	"encoding/json"
	"errors"
	"strings"

	"quizapi/models"

	"gorm.io/gorm"
)

const (
	minQuestions = 3
	maxQuestions = 10
	minOptions   = 2
	maxOptions   = 5
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type CreateQuizRequest struct {
	Title     string                  `json:"title"`
	Theme     string                  `json:"theme"`
	Questions []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	Text    string                `json:"text"`
	Options []CreateOptionRequest `json:"options"`
}

type CreateOptionRequest struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// UnmarshalJSON tolerates a non-array questions value, leaving Questions nil
// so the shape check reports it instead of a generic binding failure.
func (r *CreateQuizRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title     string          `json:"title"`
		Theme     string          `json:"theme"`
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Title = raw.Title
	r.Theme = raw.Theme
	r.Questions = nil
	if len(raw.Questions) > 0 {
		_ = json.Unmarshal(raw.Questions, &r.Questions)
	}
	return nil
}

// UnmarshalJSON tolerates a non-array options value the same way.
func (q *CreateQuestionRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text    string          `json:"text"`
		Options json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.Text = raw.Text
	q.Options = nil
	if len(raw.Options) > 0 {
		_ = json.Unmarshal(raw.Options, &q.Options)
	}
	return nil
}

// CreateQuiz validates the payload and writes quiz, questions and options in
// a single transaction. Nothing is persisted unless every row is created.
func (s *QuizService) CreateQuiz(req *CreateQuizRequest) (*models.Quiz, error) {
	if err := validateQuizFields(req); err != nil {
		return nil, err
	}
	if err := validateQuizShape(req); err != nil {
		return nil, err
	}
	if err := validateQuizTexts(req); err != nil {
		return nil, err
	}

	var quizID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		quiz := models.Quiz{
			Title: req.Title,
			Theme: req.Theme,
		}
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		for _, qReq := range req.Questions {
			question := models.Question{
				QuizID: quiz.ID,
				Text:   qReq.Text,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			for _, optReq := range qReq.Options {
				option := models.Option{
					QuestionID: question.ID,
					Text:       optReq.Text,
					IsCorrect:  optReq.IsCorrect,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}

		quizID = quiz.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fetch the quiz with questions and options loaded
	return s.GetQuizByID(quizID)
}

// validateQuizFields checks the top-level text fields, reporting all
// offending fields at once.
func validateQuizFields(req *CreateQuizRequest) *RequestError {
	var messages []string
	if strings.TrimSpace(req.Title) == "" {
		messages = append(messages, "Title is required")
	}
	if strings.TrimSpace(req.Theme) == "" {
		messages = append(messages, "Theme is required")
	}
	if len(messages) > 0 {
		return &RequestError{Messages: messages}
	}
	return nil
}

// validateQuizShape enforces the structural invariants: 3-10 questions, 2-5
// options per question, exactly one correct option. Reports only the first
// offending question; positions in messages are 1-based.
func validateQuizShape(req *CreateQuizRequest) *RequestError {
	if len(req.Questions) < minQuestions || len(req.Questions) > maxQuestions {
		return newRequestError("Quiz must contain between %d and %d questions", minQuestions, maxQuestions)
	}

	for i, question := range req.Questions {
		if len(question.Options) < minOptions {
			return newRequestError("Question %d must have at least %d options", i+1, minOptions)
		}
		if len(question.Options) > maxOptions {
			return newRequestError("Question %d cannot have more than %d options", i+1, maxOptions)
		}

		correctCount := 0
		for _, option := range question.Options {
			if option.IsCorrect {
				correctCount++
			}
		}
		if correctCount != 1 {
			return newRequestError("Question %d must have exactly one correct answer", i+1)
		}
	}

	return nil
}

// validateQuizTexts rejects empty question or option text before any row is
// written, so a half-created quiz can never be the reason for a rollback.
func validateQuizTexts(req *CreateQuizRequest) *RequestError {
	for _, question := range req.Questions {
		if strings.TrimSpace(question.Text) == "" {
			return newRequestError("Question text is required")
		}
		for _, option := range question.Options {
			if strings.TrimSpace(option.Text) == "" {
				return newRequestError("Answer option text is required")
			}
		}
	}
	return nil
}

func (s *QuizService) GetQuizzes() ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// DeleteQuiz removes a quiz with its questions and options. Deletes are
// explicit rather than relying on database cascades so the behavior is the
// same on every backend. Submissions keep their quizId and are untouched.
func (s *QuizService) DeleteQuiz(quizID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quizID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, quizID).Error
	})
}
