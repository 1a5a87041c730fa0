package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/models"
)

// Замена за один проход: "\" не должен повторно экранироваться в "\{".
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`#`, `\#`,
	`$`, `\$`,
	`%`, `\%`,
	`&`, `\&`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// LanguageLevel: >=95 Native, >=70 Fluent, иначе Intermediate.
func LanguageLevel(proficiency int) string {
	switch {
	case proficiency >= 95:
		return "Native"
	case proficiency >= 70:
		return "Fluent"
	default:
		return "Intermediate"
	}
}

type ResumeOwner struct {
	Name     string
	Email    string
	LinkedIn string
	GitHub   string
}

type ResumeData struct {
	Home        *models.Home
	About       *models.About
	Experiences []*models.Experience
	Educations  []*models.Education
	Skills      []*models.Skill
}

type ResumeService struct {
	content *ContentService
	owner   ResumeOwner
	now     func() time.Time
}

func NewResumeService(content *ContentService, owner ResumeOwner) *ResumeService {
	return &ResumeService{content: content, owner: owner, now: time.Now}
}

// Generate собирает LaTeX (moderncv) и имя файла для скачивания.
func (s *ResumeService) Generate(ctx context.Context) (string, string, error) {
	var (
		d   ResumeData
		err error
	)
	if d.Home, err = s.content.GetHome(ctx); err != nil {
		return "", "", err
	}
	if d.About, err = s.content.GetAbout(ctx); err != nil {
		return "", "", err
	}
	if d.Experiences, err = s.content.Experiences.List(ctx); err != nil {
		return "", "", err
	}
	if d.Educations, err = s.content.Educations.List(ctx); err != nil {
		return "", "", err
	}
	if d.Skills, err = s.content.Skills.List(ctx); err != nil {
		return "", "", err
	}

	filename := fmt.Sprintf("Resume_%s.tex", s.now().UTC().Format("2006-01-02"))
	return RenderResume(d, s.owner), filename, nil
}

// RenderResume: чистая функция, весь пользовательский текст экранируется.
func RenderResume(d ResumeData, owner ResumeOwner) string {
	name := owner.Name
	title := ""
	if d.Home != nil {
		if d.Home.Name != "" {
			name = d.Home.Name
		}
		title = d.Home.Title
	}
	// "Имя / Фамилия" -> \name{Имя}{Фамилия}
	first, last := name, ""
	if i := strings.Index(name, "/"); i >= 0 {
		first, last = strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
	}

	location, summary := "", ""
	var languages []models.Language
	if d.About != nil {
		location, summary, languages = d.About.Location, d.About.Description, d.About.Languages
	}
	if summary == "" {
		summary = "Experienced web developer with expertise in modern web technologies."
	}

	var b strings.Builder
	w := func(format string, args ...any) { fmt.Fprintf(&b, format, args...) }

	w("\\documentclass[11pt,a4paper]{moderncv}\n\\moderncvstyle{classic}\n\\moderncvcolor{blue}\n\n")
	w("\\name{%s}{%s}\n", EscapeLaTeX(first), EscapeLaTeX(last))
	w("\\title{%s}\n", EscapeLaTeX(title))
	w("\\address{%s}\n", EscapeLaTeX(location))
	if owner.Email != "" {
		w("\\email{%s}\n", EscapeLaTeX(owner.Email))
	}
	if owner.LinkedIn != "" {
		w("\\social[linkedin]{%s}\n", EscapeLaTeX(owner.LinkedIn))
	}
	if owner.GitHub != "" {
		w("\\social[github]{%s}\n", EscapeLaTeX(owner.GitHub))
	}

	w("\n\\begin{document}\n\\makecvtitle\n\n")
	w("\\section{Professional Summary}\n%s\n\n", EscapeLaTeX(summary))

	w("\\section{Experience}\n")
	if len(d.Experiences) == 0 {
		w("No experience entries.\n")
	}
	for i, e := range d.Experiences {
		if i > 0 {
			w("\n")
		}
		w("\\cventry{%s}{%s}{%s}{%s}{}{\n  \\begin{itemize}\n",
			EscapeLaTeX(e.Period), EscapeLaTeX(e.Title), EscapeLaTeX(e.Company), EscapeLaTeX(e.Location))
		for _, line := range e.Description {
			w("    \\item %s\n", EscapeLaTeX(line))
		}
		w("  \\end{itemize}\n  \\textit{Technologies: %s}}\n", escapeJoin(e.Technologies))
	}

	w("\n\\section{Education}\n")
	if len(d.Educations) == 0 {
		w("No education entries.\n")
	}
	for _, e := range d.Educations {
		w("\\cventry{%s}{%s}{%s}{}{}{%s}\n",
			EscapeLaTeX(e.Duration), EscapeLaTeX(e.Degree), EscapeLaTeX(e.Institution), EscapeLaTeX(e.Description))
	}

	w("\n\\section{Skills}\n")
	groups := map[string][]string{}
	for _, sk := range d.Skills {
		groups[sk.Category] = append(groups[sk.Category], sk.Name)
	}
	for _, g := range []struct{ key, label string }{
		{models.CategoryFrontend, "Frontend"},
		{models.CategoryBackend, "Backend"},
		{models.CategoryOther, "Others"},
	} {
		if names := groups[g.key]; len(names) > 0 {
			w("\\cvitem{%s}{%s}\n", g.label, escapeJoin(names))
		}
	}

	w("\n\\section{Languages}\n")
	if len(languages) == 0 {
		w("No languages listed.\n")
	}
	for _, l := range languages {
		w("\\cvitem{%s}{%s}\n", EscapeLaTeX(l.Name), LanguageLevel(l.Proficiency))
	}

	w("\n\\end{document}\n")
	return b.String()
}

func escapeJoin(items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = EscapeLaTeX(s)
	}
	return strings.Join(out, ", ")
}
