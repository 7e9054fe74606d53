package model

import "time"

// Interviewer is a dashboard user.
type Interviewer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// InterviewerLoginRequest is the payload for interviewer authentication.
type InterviewerLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// InterviewerLoginResponse is returned after successful login.
type InterviewerLoginResponse struct {
	Token       string      `json:"token"`
	Interviewer Interviewer `json:"interviewer"`
}
