package models

import "time"

var ReactionKinds = []string{"like", "love", "celebrate"}

type Blog struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Slug      string         `json:"slug"`
	Content   string         `json:"content"`
	Excerpt   string         `json:"excerpt"`
	Image     string         `json:"image"`
	Author    string         `json:"author"`
	Published bool           `json:"published"`
	Views     int            `json:"views"`
	Reactions map[string]int `json:"reactions"`
	Comments  []BlogComment  `json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type BlogComment struct {
	ID        string    `json:"id"`
	BlogID    int64     `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type BlogInput struct {
	Title     string `json:"title" validate:"required,max=300"`
	Slug      string `json:"slug" validate:"omitempty,max=300"`
	Content   string `json:"content" validate:"required"`
	Excerpt   string `json:"excerpt" validate:"required,max=1000"`
	Image     string `json:"image"`
	Author    string `json:"author" validate:"required"`
	Published bool   `json:"published"`
}

type ReactionRequest struct {
	Type string `json:"type" validate:"required,oneof=like love celebrate"`
}

type CommentRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Comment string `json:"comment" validate:"required,max=2000"`
}
