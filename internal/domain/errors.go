package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id does not exist or the quiz is inactive.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question id is absent.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrRegistrationNotFound indicates a registration id is absent.
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrSessionNotFound is returned when an attempt session id is unknown or expired.
	ErrSessionNotFound = errors.New("attempt session not found")
	// ErrInvalidAccessCode is returned when the entered code does not match the quiz.
	ErrInvalidAccessCode = errors.New("invalid access code")
	// ErrWrongState is returned when a taking-flow operation arrives out of order.
	ErrWrongState = errors.New("operation not valid in current state")
	// ErrAlreadySubmitted guards against double submission of one attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrInvalidCorrectAnswer indicates correctAnswer is not an index into options.
	ErrInvalidCorrectAnswer = errors.New("correct answer index out of range")
	// ErrUserNotFound indicates no user record for the given email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates a sign-up with an already registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized indicates a missing or insufficient session.
	ErrUnauthorized = errors.New("unauthorized")
)
