package services

import (
	"strings"
	"testing"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	assert.Equal(t, `R\&D 100\% \$5 \#1 a\_b`, EscapeLaTeX(`R&D 100% $5 #1 a_b`))
	assert.Equal(t, `\{x\}`, EscapeLaTeX(`{x}`))
	// обратный слэш не экранируется повторно
	assert.Equal(t, `C:\textbackslash{}dir`, EscapeLaTeX(`C:\dir`))
	assert.Equal(t, `\textasciitilde{}\textasciicircum{}`, EscapeLaTeX(`~^`))
}

func TestLanguageLevel(t *testing.T) {
	assert.Equal(t, "Native", LanguageLevel(100))
	assert.Equal(t, "Native", LanguageLevel(95))
	assert.Equal(t, "Fluent", LanguageLevel(94))
	assert.Equal(t, "Fluent", LanguageLevel(70))
	assert.Equal(t, "Intermediate", LanguageLevel(69))
}

func TestRenderResume(t *testing.T) {
	d := ResumeData{
		Home:  &models.Home{Name: "Jane / Doe", Title: "Full-stack & DevOps"},
		About: &models.About{Location: "Berlin", Description: "Builds things", Languages: []models.Language{{Name: "English", Proficiency: 80}}},
		Experiences: []*models.Experience{{
			Title: "Engineer", Company: "ACME", Location: "Remote", Period: "2020-2024",
			Description: []string{"Cut costs by 30%"}, Technologies: []string{"Go", "C#"},
		}},
		Skills: []*models.Skill{
			{Name: "React", Category: models.CategoryFrontend},
			{Name: "Go", Category: models.CategoryBackend},
			{Name: "Docker", Category: models.CategoryOther},
		},
	}
	tex := RenderResume(d, ResumeOwner{Name: "ignored", Email: "jane@example.com", GitHub: "jane"})

	assert.True(t, strings.HasPrefix(tex, `\documentclass[11pt,a4paper]{moderncv}`))
	assert.Contains(t, tex, `\name{Jane}{Doe}`)
	assert.Contains(t, tex, `\title{Full-stack \& DevOps}`)
	assert.Contains(t, tex, `\item Cut costs by 30\%`)
	assert.Contains(t, tex, `\textit{Technologies: Go, C\#}`)
	assert.Contains(t, tex, `\cvitem{Frontend}{React}`)
	assert.Contains(t, tex, `\cvitem{Backend}{Go}`)
	assert.Contains(t, tex, `\cvitem{Others}{Docker}`)
	assert.Contains(t, tex, `\cvitem{English}{Fluent}`)
	assert.Contains(t, tex, "No education entries.")
	assert.NotContains(t, tex, `\social[linkedin]`)
	assert.True(t, strings.HasSuffix(tex, "\\end{document}\n"))
}

func TestRenderResume_Empty(t *testing.T) {
	tex := RenderResume(ResumeData{}, ResumeOwner{Name: "Owner"})

	assert.Contains(t, tex, `\name{Owner}{}`)
	assert.Contains(t, tex, "Experienced web developer")
	assert.Contains(t, tex, "No experience entries.")
	assert.Contains(t, tex, "No languages listed.")
}
