package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"quizapi/models"

	"gorm.io/gorm"
)

type SubmissionService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewSubmissionService(db *gorm.DB, stats *StatsService) *SubmissionService {
	return &SubmissionService{db: db, stats: stats}
}

// AnswerID is an identifier submitted by a client. Older clients send ids as
// JSON strings, so both numbers and numeric strings are accepted; anything
// else is kept verbatim for the error message instead of silently
// mismatching during lookup.
type AnswerID struct {
	value   uint
	present bool
	valid   bool
	raw     string
}

func (id *AnswerID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	id.present = true
	id.raw = s
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	id.value = uint(n)
	id.valid = true
	return nil
}

func (id AnswerID) MarshalJSON() ([]byte, error) {
	if !id.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatUint(uint64(id.value), 10)), nil
}

// Missing reports whether the field was absent, null, or zero.
func (id AnswerID) Missing() bool {
	return !id.present || (id.valid && id.value == 0)
}

// Malformed reports whether the field carried a non-numeric value.
func (id AnswerID) Malformed() bool {
	return id.present && !id.valid
}

func (id AnswerID) Value() uint { return id.value }

type AnswerInput struct {
	QuestionID       AnswerID `json:"questionId"`
	SelectedOptionID AnswerID `json:"selectedOptionId"`
}

type SubmissionResult struct {
	Score        string `json:"score"`
	Percentage   int    `json:"percentage"`
	SubmissionID uint   `json:"submissionId"`
}

// SubmitAnswers validates an answer batch against the quiz structure, scores
// it and persists the submission with its answers in one transaction. Any
// validation failure rolls the whole batch back, including the submission
// header created up front.
func (s *SubmissionService) SubmitAnswers(quizID uint, answers []AnswerInput, hub *Hub) (*SubmissionResult, error) {
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

	if answers == nil {
		return nil, newRequestError("Answers must be provided as an array")
	}

	totalQuestions := len(quiz.Questions)

	// Authoring already guarantees this; re-checked in case the stored
	// structure drifted underneath us.
	if totalQuestions < minQuestions || totalQuestions > maxQuestions {
		return nil, newRequestError("Quiz must contain between %d and %d questions", minQuestions, maxQuestions)
	}

	score := 0
	var result *SubmissionResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		submission := models.QuizSubmission{
			QuizID:         quiz.ID,
			Score:          0, // updated after checking answers
			TotalQuestions: totalQuestions,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		answeredQuestions := make(map[uint]struct{}, len(answers))

		for _, answer := range answers {
			if answer.QuestionID.Missing() || answer.SelectedOptionID.Missing() {
				return newRequestError("Each answer must include questionId and selectedOptionId")
			}
			if answer.QuestionID.Malformed() {
				return newRequestError("Answer ids must be numeric: got %q", answer.QuestionID.raw)
			}
			if answer.SelectedOptionID.Malformed() {
				return newRequestError("Answer ids must be numeric: got %q", answer.SelectedOptionID.raw)
			}

			questionID := answer.QuestionID.Value()
			optionID := answer.SelectedOptionID.Value()

			question := findQuestion(quiz.Questions, questionID)
			if question == nil {
				return newRequestError("Question with id %d not found in this quiz", questionID)
			}

			if _, seen := answeredQuestions[questionID]; seen {
				return newRequestError("Duplicate answer for question %d", questionID)
			}
			answeredQuestions[questionID] = struct{}{}

			selectedOption := findOption(question.Options, optionID)
			if selectedOption == nil {
				return newRequestError("Option with id %d not found in question %d", optionID, questionID)
			}

			userAnswer := models.UserAnswer{
				SubmissionID:     submission.ID,
				QuestionID:       questionID,
				SelectedOptionID: optionID,
			}
			if err := tx.Create(&userAnswer).Error; err != nil {
				return err
			}

			if selectedOption.IsCorrect {
				score++
			}
		}

		if err := tx.Model(&submission).Update("score", score).Error; err != nil {
			return err
		}

		result = &SubmissionResult{
			Score:        fmt.Sprintf("%d/%d", score, totalQuestions),
			Percentage:   int(math.Round(float64(score) / float64(totalQuestions) * 100)),
			SubmissionID: submission.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects are best effort: a stats or broadcast hiccup
	// must not fail an already persisted submission.
	if s.stats != nil {
		if err := s.stats.RecordSubmission(context.Background(), quiz.ID, score, totalQuestions); err != nil {
			log.Printf("Failed to record stats for quiz %d: %v", quiz.ID, err)
		}
	}
	if hub != nil {
		hub.BroadcastToQuiz(quiz.ID, "submission_result", map[string]interface{}{
			"submissionId":   result.SubmissionID,
			"score":          result.Score,
			"percentage":     result.Percentage,
			"totalQuestions": totalQuestions,
		})
	}

	return result, nil
}

// GetQuizSubmissions returns every submission for a quiz with its answers,
// in storage order. No submissions is an empty list, not an error.
func (s *SubmissionService) GetQuizSubmissions(quizID uint) ([]models.QuizSubmission, error) {
	submissions := []models.QuizSubmission{}
	err := s.db.
		Where("quiz_id = ?", quizID).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("user_answers.id")
		}).
		Order("id").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	// An empty batch still serializes as an answers array, not null.
	for i := range submissions {
		if submissions[i].Answers == nil {
			submissions[i].Answers = []models.UserAnswer{}
		}
	}
	return submissions, nil
}

func findQuestion(questions []models.Question, questionID uint) *models.Question {
	for i := range questions {
		if questions[i].ID == questionID {
			return &questions[i]
		}
	}
	return nil
}

func findOption(options []models.Option, optionID uint) *models.Option {
	for i := range options {
		if options[i].ID == optionID {
			return &options[i]
		}
	}
	return nil
}
