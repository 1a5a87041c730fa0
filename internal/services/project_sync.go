package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"portfolio/internal/githubapi"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"go.uber.org/zap"
)

const (
	noDescription   = "No description"
	maxTechnologies = 10
)

// GitHubAPI: то, что синку нужно от GitHub.
type GitHubAPI interface {
	ListUserRepos(ctx context.Context, user string) ([]githubapi.Repository, error)
	GetRepository(ctx context.Context, owner, repo string) (*githubapi.Repository, error)
	GetLanguages(ctx context.Context, languagesURL, owner, repo string) (map[string]int64, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	RawBaseURL() string
}

type categoryRule struct {
	category string
	keywords map[string]struct{}
}

func keywordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Правила проверяются сверху вниз, побеждает первое совпавшее.
var categoryRules = []categoryRule{
	{models.CategoryFrontend, keywordSet("frontend", "react", "vue", "angular", "nextjs")},
	{models.CategoryBackend, keywordSet("backend", "node", "express", "api", "server")},
	{models.CategoryFullstack, keywordSet("fullstack", "full-stack", "mern", "mean")},
}

// Classify относит проект к категории по темам и языкам (без учёта регистра).
func Classify(tags []string) string {
	for _, rule := range categoryRules {
		for _, t := range tags {
			if _, ok := rule.keywords[strings.ToLower(t)]; ok {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}

// LanguagePercentages: round(bytes/total*100) по каждому языку.
// При нулевом объёме: пустая карта.
func LanguagePercentages(stats map[string]int64) map[string]int {
	var total int64
	for _, b := range stats {
		total += b
	}

	out := make(map[string]int, len(stats))
	if total <= 0 {
		return out
	}
	for lang, b := range stats {
		out[lang] = int(math.Round(float64(b) / float64(total) * 100))
	}
	return out
}

// sortedLanguages: ключи по убыванию объёма, для стабильного порядка.
func sortedLanguages(stats map[string]int64) []string {
	langs := make([]string, 0, len(stats))
	for l := range stats {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if stats[langs[i]] != stats[langs[j]] {
			return stats[langs[i]] > stats[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}

type ProjectSyncService struct {
	gh       GitHubAPI
	repo     repository.ProjectRepo
	token    string
	username string
}

func NewProjectSyncService(gh GitHubAPI, repo repository.ProjectRepo, token, username string) *ProjectSyncService {
	return &ProjectSyncService{gh: gh, repo: repo, token: token, username: username}
}

func (s *ProjectSyncService) configured() bool {
	return s.gh != nil && s.token != "" && s.username != ""
}

// Sync добавляет новые (не форки, ещё не сохранённые) репозитории.
// Существующие записи не обновляются.
func (s *ProjectSyncService) Sync(ctx context.Context) (*models.SyncResult, error) {
	log := logger.WithCtx(ctx)

	if !s.configured() {
		metrics.SyncRunsTotal.WithLabelValues("not_configured").Inc()
		return nil, ErrGitHubNotConfigured
	}

	start := time.Now()
	defer func() { metrics.SyncDuration.Observe(time.Since(start).Seconds()) }()

	repos, err := s.gh.ListUserRepos(ctx, s.username)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("upstream_error").Inc()
		log.Error("Ошибка получения репозиториев GitHub", zap.String("user", s.username), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	res := &models.SyncResult{}
	for _, r := range repos {
		if r.Fork {
			continue
		}

		exists, err := s.repo.ExistsByGithubID(ctx, r.ID)
		if err != nil {
			metrics.SyncRunsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		if exists {
			res.Skipped++
			continue
		}

		p := s.buildProject(ctx, r)

		inserted, err := s.repo.Insert(ctx, p)
		if err != nil {
			metrics.SyncRunsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		if !inserted {
			// параллельный синк успел раньше
			res.Skipped++
			continue
		}
		res.Added++
		log.Info("Проект добавлен из GitHub", zap.Int64("github_id", r.ID), zap.String("name", r.Name), zap.String("category", p.Category))
	}

	res.Message = fmt.Sprintf("Synced %d new projects", res.Added)
	metrics.SyncRunsTotal.WithLabelValues("ok").Inc()
	metrics.SyncProjectsAdded.Add(float64(res.Added))
	log.Info("Синхронизация GitHub завершена", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
	return res, nil
}

// buildProject: ошибки языков и README не фатальны: пустые данные и запасная картинка.
func (s *ProjectSyncService) buildProject(ctx context.Context, r githubapi.Repository) *models.Project {
	log := logger.WithCtx(ctx)

	owner := r.Owner.Login
	if owner == "" {
		owner = s.username
	}

	topics := make([]string, 0, len(r.Topics))
	for _, t := range r.Topics {
		topics = append(topics, strings.ToLower(t))
	}

	var languages []string
	percentages := map[string]int{}
	stats, err := s.gh.GetLanguages(ctx, r.LanguagesURL, owner, r.Name)
	if err != nil {
		metrics.SyncFacetErrors.WithLabelValues("languages").Inc()
		log.Warn("Не удалось получить языки репозитория", zap.String("repo", r.Name), zap.Error(err))
	} else {
		languages = sortedLanguages(stats)
		percentages = LanguagePercentages(stats)
	}

	allTech := make([]string, 0, len(topics)+len(languages))
	allTech = append(allTech, topics...)
	for _, l := range languages {
		allTech = append(allTech, strings.ToLower(l))
	}

	image := githubapi.FallbackImage
	readme, err := s.gh.GetReadme(ctx, owner, r.Name)
	if err != nil {
		if !errors.Is(err, githubapi.ErrNotFound) {
			metrics.SyncFacetErrors.WithLabelValues("readme").Inc()
			log.Warn("Не удалось получить README", zap.String("repo", r.Name), zap.Error(err))
		}
	} else {
		image = githubapi.FindPreviewImage(readme, s.gh.RawBaseURL(), githubapi.RepoRef{Owner: owner, Name: r.Name, Branch: r.Branch()})
	}

	description := noDescription
	if r.Description != nil && strings.TrimSpace(*r.Description) != "" {
		description = *r.Description
	}

	var homepage *string
	if r.Homepage != nil && *r.Homepage != "" {
		homepage = r.Homepage
	}

	technologies := allTech
	if len(technologies) > maxTechnologies {
		technologies = technologies[:maxTechnologies]
	}

	return &models.Project{
		GithubID:            r.ID,
		Name:                r.Name,
		Description:         description,
		URL:                 homepage,
		Homepage:            homepage,
		Language:            r.Language,
		Languages:           languages,
		Topics:              topics,
		Technologies:        technologies,
		Category:            Classify(allTech),
		IsApproved:          false,
		GithubURL:           r.HTMLURL,
		Image:               image,
		LanguagePercentages: percentages,
	}
}

// repoNameFromURL: https://github.com/u/name -> name
func repoNameFromURL(githubURL string) string {
	u := strings.TrimRight(githubURL, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}

// RefreshImages заново ищет картинки для проектов без картинки или с запасной.
func (s *ProjectSyncService) RefreshImages(ctx context.Context) (*models.RefreshResult, error) {
	log := logger.WithCtx(ctx)

	if !s.configured() {
		return nil, ErrGitHubNotConfigured
	}

	projects, err := s.repo.ListWithoutImage(ctx, githubapi.FallbackImage)
	if err != nil {
		return nil, err
	}

	res := &models.RefreshResult{Total: len(projects)}
	for _, p := range projects {
		name := repoNameFromURL(p.GithubURL)

		branch := "main"
		if repo, err := s.gh.GetRepository(ctx, s.username, name); err == nil {
			branch = repo.Branch()
		} else {
			metrics.SyncFacetErrors.WithLabelValues("repo").Inc()
			log.Warn("Не удалось получить репозиторий, ветка по умолчанию main", zap.String("repo", name), zap.Error(err))
		}

		image := githubapi.FallbackImage
		if readme, err := s.gh.GetReadme(ctx, s.username, name); err == nil {
			image = githubapi.FindPreviewImage(readme, s.gh.RawBaseURL(), githubapi.RepoRef{Owner: s.username, Name: name, Branch: branch})
		} else if !errors.Is(err, githubapi.ErrNotFound) {
			metrics.SyncFacetErrors.WithLabelValues("readme").Inc()
			log.Warn("Не удалось получить README", zap.String("repo", name), zap.Error(err))
		}

		if err := s.repo.SetImage(ctx, p.ID, image); err != nil {
			log.Error("Ошибка сохранения картинки проекта", zap.Int64("id", p.ID), zap.Error(err))
			continue
		}
		if image != githubapi.FallbackImage {
			res.Updated++
		}
	}

	res.Message = fmt.Sprintf("Updated images for %d projects", res.Updated)
	return res, nil
}

// RefreshLanguagePercentages пересчитывает доли языков у всех проектов.
func (s *ProjectSyncService) RefreshLanguagePercentages(ctx context.Context) (*models.RefreshResult, error) {
	log := logger.WithCtx(ctx)

	if !s.configured() {
		return nil, ErrGitHubNotConfigured
	}

	projects, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	res := &models.RefreshResult{Total: len(projects)}
	for _, p := range projects {
		name := repoNameFromURL(p.GithubURL)

		stats, err := s.gh.GetLanguages(ctx, "", s.username, name)
		if err != nil {
			metrics.SyncFacetErrors.WithLabelValues("languages").Inc()
			log.Warn("Не удалось получить языки репозитория", zap.String("repo", name), zap.Error(err))
			continue
		}

		pct := LanguagePercentages(stats)
		if err := s.repo.SetLanguages(ctx, p.ID, sortedLanguages(stats), pct); err != nil {
			log.Error("Ошибка сохранения языков проекта", zap.Int64("id", p.ID), zap.Error(err))
			continue
		}
		if len(pct) > 0 {
			res.Updated++
		}
	}

	res.Message = fmt.Sprintf("Updated language percentages for %d projects", res.Updated)
	return res, nil
}
