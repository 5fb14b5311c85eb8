package gormstore

import (
	"time"

	"gorm.io/gorm"
)

type UserModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	Account   string         `gorm:"column:user_account;size:255;not null;uniqueIndex"`
	Password  string         `gorm:"column:user_password;size:255;not null"`
	Name      string         `gorm:"column:user_name;size:255"`
	Avatar    string         `gorm:"column:user_avatar;size:1024"`
	Profile   string         `gorm:"column:user_profile;size:512"`
	Role      string         `gorm:"column:user_role;size:32;not null;default:'user'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}

type SessionModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	HashedSID string    `gorm:"column:hashed_sid;size:64;not null;uniqueIndex"`
	UserID    int64     `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (SessionModel) TableName() string {
	return "sessions"
}

type BankModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Title          string `gorm:"size:255;not null"`
	Topic          string `gorm:"size:255;index"`
	Description    string `gorm:"type:text"`
	UserID         *int64
	TotalQuestions int64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (BankModel) TableName() string {
	return "question_banks"
}

type QuestionModel struct {
	ID         int64    `gorm:"primaryKey;autoIncrement"`
	Title      string   `gorm:"size:255"`
	Content    string   `gorm:"type:text;not null"`
	Answer     string   `gorm:"type:text"`
	Tags       []string `gorm:"type:text;serializer:json"`
	UserID     *int64
	SavedCount int64 `gorm:"not null;default:0;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

type BankQuestionModel struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	QuestionBankID int64 `gorm:"column:question_bank_id;not null;uniqueIndex:idx_bank_question"`
	QuestionID     int64 `gorm:"not null;uniqueIndex:idx_bank_question;index"`
	CreatedAt      time.Time
}

func (BankQuestionModel) TableName() string {
	return "question_bank_questions"
}

type SavedQuestionModel struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	UserID     int64 `gorm:"not null;uniqueIndex:idx_user_question"`
	QuestionID int64 `gorm:"not null;uniqueIndex:idx_user_question;index"`
	CreatedAt  time.Time
}

func (SavedQuestionModel) TableName() string {
	return "user_question_saved"
}

type BankFavoriteModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	UserID    int64 `gorm:"not null;uniqueIndex:idx_user_bank"`
	BankID    int64 `gorm:"not null;uniqueIndex:idx_user_bank;index"`
	CreatedAt time.Time
}

func (BankFavoriteModel) TableName() string {
	return "user_bank_favorites"
}
