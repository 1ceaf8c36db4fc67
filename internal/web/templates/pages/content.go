package pages

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.md
var embeddedContent embed.FS

// ErrNotFound indicates no markdown document exists for the requested slug.
var ErrNotFound = errors.New("pages: document not found")

// Document is a markdown page rendered to sanitised HTML.
type Document struct {
	Slug        string
	Title       string
	Description string
	HTML        string
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Library loads markdown documents with YAML front matter.
type Library struct {
	fsys   fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewLibrary reads documents from fsys; nil selects the embedded content.
func NewLibrary(fsys fs.FS) *Library {
	if fsys == nil {
		sub, err := fs.Sub(embeddedContent, "content")
		if err != nil {
			panic(fmt.Sprintf("pages: embedded content: %v", err))
		}
		fsys = sub
	}
	return &Library{
		fsys:   fsys,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Load renders the document stored as <slug>.md.
func (l *Library) Load(slug string) (Document, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return Document{}, ErrNotFound
	}

	raw, err := fs.ReadFile(l.fsys, path.Join(".", slug+".md"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("pages: read %s: %w", slug, err)
	}

	fm, body := cutFrontMatter(raw)
	front := frontMatter{}
	if len(bytes.TrimSpace(fm)) > 0 {
		if err := yaml.Unmarshal(fm, &front); err != nil {
			return Document{}, fmt.Errorf("pages: parse front matter %s: %w", slug, err)
		}
	}

	var buf bytes.Buffer
	if err := l.md.Convert(body, &buf); err != nil {
		return Document{}, fmt.Errorf("pages: render %s: %w", slug, err)
	}

	return Document{
		Slug:        slug,
		Title:       strings.TrimSpace(front.Title),
		Description: strings.TrimSpace(front.Description),
		HTML:        string(l.policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

const fence = "---"

// cutFrontMatter separates a leading "---" fenced YAML block from the markdown
// body. Line endings are normalised to LF; an unclosed fence is all body.
func cutFrontMatter(raw []byte) (front, body []byte) {
	text := bytes.TrimPrefix(raw, []byte("\ufeff"))
	text = bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))

	rest, ok := bytes.CutPrefix(text, []byte(fence+"\n"))
	if !ok {
		return nil, text
	}
	if after, ok := bytes.CutPrefix(rest, []byte(fence+"\n")); ok {
		return nil, bytes.TrimLeft(after, "\n")
	}
	front, after, ok := bytes.Cut(rest, []byte("\n"+fence+"\n"))
	if ok {
		return front, bytes.TrimLeft(after, "\n")
	}
	if front, ok := bytes.CutSuffix(rest, []byte("\n"+fence)); ok {
		return front, nil
	}
	return nil, text
}
