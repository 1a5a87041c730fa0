// Package githubapi: минимальный клиент GitHub REST API для синхронизации
// проектов портфолио.
package githubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const maxPerPage = 100

// ErrNotFound: GitHub ответил 404 (нет README, репозиторий удалён и т.п.).
var ErrNotFound = errors.New("github: not found")

// StatusError: любой другой не-2xx ответ.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s returned %s", e.URL, e.Status)
}

type Client struct {
	http       *http.Client
	baseURL    string
	rawBaseURL string
}

// NewClient создаёт клиент. Токен подставляется транспортом oauth2;
// пустой токен: анонимные запросы.
func NewClient(token, baseURL, rawBaseURL string) *Client {
	base := &http.Client{Timeout: 30 * time.Second}
	httpClient := base
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = base.Timeout
	}

	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		rawBaseURL: strings.TrimRight(rawBaseURL, "/"),
	}
}

// RawBaseURL: хост raw-контента, от которого строятся ссылки на картинки.
func (c *Client) RawBaseURL() string {
	return c.rawBaseURL
}

// ListUserRepos возвращает до 100 репозиториев пользователя, свежие первыми.
func (c *Client) ListUserRepos(ctx context.Context, user string) ([]Repository, error) {
	u := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", c.baseURL, url.PathEscape(user), maxPerPage)

	var repos []Repository
	if err := c.getJSON(ctx, u, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetRepository: GET /repos/{owner}/{repo}
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	var r Repository
	if err := c.getJSON(ctx, u, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetLanguages возвращает байты кода по языкам. languagesURL из ответа
// листинга имеет приоритет, иначе URL строится из owner/repo.
func (c *Client) GetLanguages(ctx context.Context, languagesURL, owner, repo string) (map[string]int64, error) {
	u := languagesURL
	if u == "" {
		u = fmt.Sprintf("%s/repos/%s/%s/languages", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	}

	stats := map[string]int64{}
	if err := c.getJSON(ctx, u, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetReadme возвращает декодированный текст README.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/readme", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	var rr readmeResponse
	if err := c.getJSON(ctx, u, &rr); err != nil {
		return "", err
	}

	// GitHub режет base64 переводами строк
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(rr.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("github: decode readme: %w", err)
	}
	return string(raw), nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github: request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode %s: %w", u, err)
	}
	return nil
}
