package models

import (
	"time"
)

// QuizSubmission records one scored attempt at a quiz. QuizID is a plain
// column, not an association: submissions outlive quiz deletion.
type QuizSubmission struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	QuizID         uint      `json:"quizId" gorm:"not null;index"`
	Score          int       `json:"score" gorm:"not null;default:0"`
	TotalQuestions int       `json:"totalQuestions" gorm:"not null"`
	SubmittedAt    time.Time `json:"submittedAt" gorm:"autoCreateTime"`

	// Relationships
	Answers []UserAnswer `json:"answers" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}
