package models

type UserAnswer struct {
	ID               uint `json:"id" gorm:"primaryKey"`
	SubmissionID     uint `json:"submissionId" gorm:"not null;index"`
	QuestionID       uint `json:"questionId" gorm:"not null"`
	SelectedOptionID uint `json:"selectedOptionId" gorm:"not null"`
}
