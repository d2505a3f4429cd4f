package services_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"quizapi/models"
	"quizapi/services"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A pooled in-memory sqlite would hand each connection its own database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.QuizSubmission{},
		&models.UserAnswer{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// validQuizRequest builds a payload with the given number of questions, each
// with three options and the second one correct.
func validQuizRequest(questionCount int) *services.CreateQuizRequest {
	questions := make([]services.CreateQuestionRequest, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		questions = append(questions, services.CreateQuestionRequest{
			Text: fmt.Sprintf("Question %d", i+1),
			Options: []services.CreateOptionRequest{
				{Text: "Wrong", IsCorrect: false},
				{Text: "Right", IsCorrect: true},
				{Text: "Also wrong", IsCorrect: false},
			},
		})
	}
	return &services.CreateQuizRequest{
		Title:     "World Capitals",
		Theme:     "Geography",
		Questions: questions,
	}
}

func createQuiz(t *testing.T, svc *services.QuizService, questionCount int) *models.Quiz {
	t.Helper()
	quiz, err := svc.CreateQuiz(validQuizRequest(questionCount))
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

// answersFromJSON decodes a raw answers payload the way the HTTP layer does.
func answersFromJSON(t *testing.T, raw string) []services.AnswerInput {
	t.Helper()
	var answers []services.AnswerInput
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		t.Fatalf("unmarshal answers: %v", err)
	}
	return answers
}

func requestErrorMessages(t *testing.T, err error) []string {
	t.Helper()
	var reqErr *services.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	return reqErr.Messages
}

func assertRequestError(t *testing.T, err error, want string) {
	t.Helper()
	messages := requestErrorMessages(t, err)
	if len(messages) != 1 || messages[0] != want {
		t.Fatalf("expected error %q, got %v", want, messages)
	}
}

func correctOption(t *testing.T, question models.Question) uint {
	t.Helper()
	for _, option := range question.Options {
		if option.IsCorrect {
			return option.ID
		}
	}
	t.Fatalf("question %d has no correct option", question.ID)
	return 0
}

func wrongOption(t *testing.T, question models.Question) uint {
	t.Helper()
	for _, option := range question.Options {
		if !option.IsCorrect {
			return option.ID
		}
	}
	t.Fatalf("question %d has no incorrect option", question.ID)
	return 0
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
