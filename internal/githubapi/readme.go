package githubapi

import (
	"regexp"
	"strings"
)

// FallbackImage: картинка проекта, если в README ничего не нашлось.
const FallbackImage = "/server.png"

// Шаблоны в порядке приоритета: markdown, <img>, reference-style.
var imagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`!\[.*?\]\((.*?)\)`),
	regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*>`),
	regexp.MustCompile(`!\[.*?\]\[(.*?)\]`),
}

var refDefinition = regexp.MustCompile(`(?m)^\[([^\]]+)\]:\s*(.+)$`)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// RepoRef: координаты репозитория для построения raw-ссылок.
type RepoRef struct {
	Owner  string
	Name   string
	Branch string
}

// FindPreviewImage ищет в README первую подходящую картинку.
// Шаблоны перебираются строго по приоритету: пока в markdown-синтаксисе
// есть валидная ссылка, reference-style и <img> не рассматриваются.
func FindPreviewImage(readme, rawBaseURL string, ref RepoRef) string {
	if readme == "" {
		return FallbackImage
	}

	refs := referenceDefinitions(readme)
	rawBaseURL = strings.TrimRight(rawBaseURL, "/")
	rawHost := hostOf(rawBaseURL)

	for _, re := range imagePatterns {
		for _, m := range re.FindAllStringSubmatch(readme, -1) {
			candidate := resolveCandidate(m[1], refs)
			if candidate == "" {
				continue
			}

			abs := absoluteImageURL(candidate, rawBaseURL, ref)
			if isImageURL(abs, rawHost) {
				return abs
			}
		}
	}

	return FallbackImage
}

// referenceDefinitions собирает [key]: url. Ключи без учёта регистра,
// при повторе побеждает последнее определение.
func referenceDefinitions(readme string) map[string]string {
	defs := make(map[string]string)
	for _, m := range refDefinition.FindAllStringSubmatch(readme, -1) {
		defs[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}
	return defs
}

// resolveCandidate возвращает пустую строку, если кандидат нужно пропустить.
func resolveCandidate(raw string, refs map[string]string) string {
	u := cleanTarget(raw)
	if u == "" || strings.HasPrefix(u, "data:") || strings.HasPrefix(u, "#") {
		return ""
	}

	if !strings.Contains(u, ".") && !strings.HasPrefix(u, "http") {
		def, ok := refs[strings.ToLower(u)]
		if !ok {
			return ""
		}
		u = cleanTarget(def)
		if u == "" || strings.HasPrefix(u, "data:") || strings.HasPrefix(u, "#") {
			return ""
		}
	}
	return u
}

// cleanTarget отрезает title и угловые скобки: <path "title"> и path 'title'.
func cleanTarget(raw string) string {
	u := strings.TrimSpace(raw)
	if strings.HasPrefix(u, "<") {
		if i := strings.Index(u, ">"); i > 0 {
			return strings.TrimSpace(u[1:i])
		}
	}
	if i := strings.IndexAny(u, " \t"); i > 0 {
		u = u[:i]
	}
	return u
}

func absoluteImageURL(u, rawBaseURL string, ref RepoRef) string {
	if strings.HasPrefix(u, "http") {
		return u
	}

	u = strings.TrimPrefix(u, "./")
	u = strings.TrimPrefix(u, "/")
	u = strings.TrimSpace(u)

	branch := ref.Branch
	if branch == "" {
		branch = "main"
	}
	return rawBaseURL + "/" + ref.Owner + "/" + ref.Name + "/" + branch + "/" + u
}

func isImageURL(u, rawHost string) bool {
	lower := strings.ToLower(u)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return rawHost != "" && strings.Contains(lower, rawHost)
}

func hostOf(base string) string {
	h := strings.TrimPrefix(strings.TrimPrefix(base, "https://"), "http://")
	if i := strings.Index(h, "/"); i >= 0 {
		h = h[:i]
	}
	return strings.ToLower(h)
}
