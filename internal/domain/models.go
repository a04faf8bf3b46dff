package domain

import "time"

// Quiz is the catalog record for one hosted quiz. Entry is gated by AccessCode,
// which is stored upper-cased and compared case-insensitively.
type Quiz struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	CreatedBy        string    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
	IsActive         bool      `json:"isActive"`
	AccessCode       string    `json:"accessCode,omitempty"`
	TimeLimit        int       `json:"timeLimit"`       // whole-quiz limit in minutes, 0 = unlimited
	PerQuestionTime  int       `json:"perQuestionTime"` // seconds per question, 0 = none
	AllowSkip        bool      `json:"allowSkip"`
	QuestionCount    int       `json:"questionCount"`
	ParticipantCount int       `json:"participantCount"`
}

// Question is a multiple-choice question owned by a quiz. CorrectAnswer is a
// zero-based index into Options.
type Question struct {
	ID            string    `json:"id"`
	QuizID        string    `json:"quizId"`
	Text          string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correctAnswer"`
	CreatedAt     time.Time `json:"createdAt"`
}

// QuizContent bundles a quiz with its question set; this is the unit the
// content cache stores and the taking flow consumes.
type QuizContent struct {
	Quiz      Quiz       `json:"quiz"`
	Questions []Question `json:"questions"`
}

// AnswerRecord pairs a question with the option the participant picked.
// SelectedAnswer is -1 when the question was left unanswered.
type AnswerRecord struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer int    `json:"selectedAnswer"`
}

// Attempt is one participant's completed run through a quiz. It is written
// exactly once at submission and never mutated afterwards.
type Attempt struct {
	ID             string         `json:"id"`
	QuizID         string         `json:"quizId"`
	QuizTitle      string         `json:"quizTitle"`
	UserName       string         `json:"userName"`
	UserEmail      string         `json:"userEmail"`
	RollNumber     string         `json:"rollNumber"`
	Answers        []AnswerRecord `json:"answers"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Expired        bool           `json:"expired"`
	CompletedAt    time.Time      `json:"completedAt"`
}

// Registration is an ad-hoc event sign-up, unrelated to quizzes.
type Registration struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RollNumber   string    `json:"rollNumber"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Event        string    `json:"event"`
	RegisteredAt time.Time `json:"registeredAt"`
	RegisteredBy string    `json:"registeredBy"`
}

// User is an identity record keyed by email. The admin flag is never stored;
// it is derived from the configured admin email at sign-in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated caller as carried in the session cookie.
type Identity struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	IsAdmin      bool   `json:"isAdmin"`
}

// MaintenanceState is the single named maintenance configuration record.
type MaintenanceState struct {
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}
