package githubapi

// Repository: поля ответа GET /users/{user}/repos, которые нужны синку.
type Repository struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   *string  `json:"description"`
	Homepage      *string  `json:"homepage"`
	HTMLURL       string   `json:"html_url"`
	Language      *string  `json:"language"`
	LanguagesURL  string   `json:"languages_url"`
	Topics        []string `json:"topics"`
	Fork          bool     `json:"fork"`
	DefaultBranch string   `json:"default_branch"`
	MasterBranch  string   `json:"master_branch"`
	Owner         Owner    `json:"owner"`
}

type Owner struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Branch: ветка для raw-ссылок: default_branch, затем master_branch, затем "main".
func (r Repository) Branch() string {
	if r.DefaultBranch != "" {
		return r.DefaultBranch
	}
	if r.MasterBranch != "" {
		return r.MasterBranch
	}
	return "main"
}

// readmeResponse: GET /repos/{owner}/{repo}/readme
type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}
