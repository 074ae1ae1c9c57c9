package service

import (
	"fmt"
	"html/template"

	"github.com/notedrop/notedrop/content"
	"github.com/notedrop/notedrop/internal/markdown"
)

// Page is a rendered static page from the embedded content directory.
type Page struct {
	Title string
	Body  template.HTML
}

// ContentService renders the markdown-backed public pages and
// user-supplied note text.
type ContentService struct {
	parser *markdown.Parser
}

func NewContentService() *ContentService {
	return &ContentService{
		parser: markdown.NewParser(),
	}
}

// Page loads and renders an embedded markdown page by name ("index",
// "public"). Frontmatter supplies the title.
func (s *ContentService) Page(name string) (*Page, error) {
	source, err := content.FS.ReadFile(name + ".md")
	if err != nil {
		return nil, fmt.Errorf("failed to read content page %q: %w", name, err)
	}

	body, meta, err := s.parser.ParseWithFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("failed to render content page %q: %w", name, err)
	}

	title, _ := meta["title"].(string)
	return &Page{
		Title: title,
		Body:  template.HTML(body),
	}, nil
}

// RenderNote converts note text to HTML. goldmark escapes raw HTML by
// default, so hostile note text cannot inject markup.
func (s *ContentService) RenderNote(text string) template.HTML {
	out, err := s.parser.Parse([]byte(text))
	if err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(out)
}
