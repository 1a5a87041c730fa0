package githubapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const rawBase = "https://raw.githubusercontent.com"

var testRef = RepoRef{Owner: "octo", Name: "site", Branch: "main"}

func TestFindPreviewImage_MarkdownBeatsReference(t *testing.T) {
	readme := "# Site\n" +
		"![shot][hero]\n" +
		"![inline](docs/inline.png)\n\n" +
		"[hero]: https://cdn.example.com/hero.png\n"

	got := FindPreviewImage(readme, rawBase, testRef)
	assert.Equal(t, "https://raw.githubusercontent.com/octo/site/main/docs/inline.png", got)
}

func TestFindPreviewImage_HTMLBeatsReference(t *testing.T) {
	readme := "![shot][hero]\n<IMG width=\"300\" src='https://cdn.example.com/a.gif'>\n[hero]: https://cdn.example.com/hero.png\n"

	assert.Equal(t, "https://cdn.example.com/a.gif", FindPreviewImage(readme, rawBase, testRef))
}

func TestFindPreviewImage_SkipsDataURIAndAnchors(t *testing.T) {
	readme := "![x](data:image/png;base64,AAAA)\n![y](#top)\n"
	assert.Equal(t, FallbackImage, FindPreviewImage(readme, rawBase, testRef))

	readme += "![z](./img/real.jpg)\n"
	assert.Equal(t, "https://raw.githubusercontent.com/octo/site/main/img/real.jpg", FindPreviewImage(readme, rawBase, testRef))
}

func TestFindPreviewImage_ReferenceResolution(t *testing.T) {
	readme := "![Screen][Main]\n\n[main]: /assets/screen.webp\n"
	assert.Equal(t,
		"https://raw.githubusercontent.com/octo/site/dev/assets/screen.webp",
		FindPreviewImage(readme, rawBase, RepoRef{Owner: "octo", Name: "site", Branch: "dev"}),
	)

	// неизвестная ссылка пропускается
	assert.Equal(t, FallbackImage, FindPreviewImage("![a][missing]\n", rawBase, testRef))
}

func TestFindPreviewImage_FirstValidWithinPattern(t *testing.T) {
	readme := "![badge](https://img.shields.io/badge/go-1.23-blue)\n![shot](https://example.com/shot.png)\n"
	assert.Equal(t, "https://example.com/shot.png", FindPreviewImage(readme, rawBase, testRef))
}

func TestFindPreviewImage_RawHostWithoutExtension(t *testing.T) {
	readme := "![demo](https://raw.githubusercontent.com/octo/site/main/demo)\n"
	assert.Equal(t, "https://raw.githubusercontent.com/octo/site/main/demo", FindPreviewImage(readme, rawBase, testRef))
}

func TestFindPreviewImage_TitleIgnored(t *testing.T) {
	readme := `![logo](logo.svg "Logo")`
	assert.Equal(t, "https://raw.githubusercontent.com/octo/site/main/logo.svg", FindPreviewImage(readme, rawBase, testRef))
}

func TestFindPreviewImage_ReferenceTitleIgnored(t *testing.T) {
	want := "https://raw.githubusercontent.com/octo/site/main/img/logo.png"

	tests := []struct {
		name   string
		readme string
	}{
		{"inline", "![Logo](img/logo.png \"Project logo\")\n"},
		{"reference с title", "![Logo][logo]\n\n[logo]: img/logo.png \"Project logo\"\n"},
		{"reference с одинарными кавычками", "![Logo][logo]\n\n[logo]: img/logo.png 'Project logo'\n"},
		{"reference в угловых скобках", "![Logo][logo]\n\n[logo]: <img/logo.png> \"Project logo\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, FindPreviewImage(tt.readme, rawBase, testRef))
		})
	}
}

func TestFindPreviewImage_Empty(t *testing.T) {
	assert.Equal(t, FallbackImage, FindPreviewImage("", rawBase, testRef))
	assert.Equal(t, FallbackImage, FindPreviewImage("just text", rawBase, testRef))
}

func TestRepositoryBranch(t *testing.T) {
	assert.Equal(t, "dev", Repository{DefaultBranch: "dev", MasterBranch: "master"}.Branch())
	assert.Equal(t, "master", Repository{MasterBranch: "master"}.Branch())
	assert.Equal(t, "main", Repository{}.Branch())
}
