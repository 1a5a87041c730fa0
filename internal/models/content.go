package models

import "time"

type Skill struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Category    string    `json:"category" validate:"required,oneof=frontend backend other"`
	Icon        string    `json:"icon"`
	Proficiency *int      `json:"proficiency,omitempty" validate:"omitempty,min=0,max=100"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Experience struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title" validate:"required"`
	Company      string    `json:"company" validate:"required"`
	Location     string    `json:"location" validate:"required"`
	Period       string    `json:"period" validate:"required"`
	Description  []string  `json:"description"`
	Technologies []string  `json:"technologies"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Education struct {
	ID           int64     `json:"id"`
	Degree       string    `json:"degree" validate:"required"`
	Institution  string    `json:"institution" validate:"required"`
	Duration     string    `json:"duration" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	Achievements []string  `json:"achievements"`
	Certificate  string    `json:"certificate"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SocialLink struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	URL       string    `json:"url" validate:"required,url"`
	Icon      string    `json:"icon" validate:"required"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Home struct {
	ProfileImage string    `json:"profile_image" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	ResumeLink   string    `json:"resume_link"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Language struct {
	Name        string `json:"name" validate:"required"`
	Proficiency int    `json:"proficiency" validate:"min=0,max=100"`
}

type Interest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

type About struct {
	Image       string     `json:"image" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Location    string     `json:"location" validate:"required"`
	Languages   []Language `json:"languages" validate:"dive"`
	Interests   []Interest `json:"interests" validate:"dive"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

type ContactResponse struct {
	Message       string `json:"message"`
	AutoReplySent bool   `json:"autoReplySent"`
}

type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
