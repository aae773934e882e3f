package clipweave

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Highlight is a single user-made highlight on the page.
type Highlight struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Notes     string `json:"notes,omitempty"`
}

// MetaEntry is one <meta> tag, keyed by the attribute pair the extractor
// read it from (name/X or property/X).
type MetaEntry struct {
	AttrName  string `json:"attrName"`
	AttrValue string `json:"attrValue"`
	Content   string `json:"content"`
}

// DOMElement is a single matched element, as exposed by a DOMHandle query.
type DOMElement interface {
	TextContent() string
	OuterHTML() string
	GetAttribute(name string) (string, bool)
}

// DOMHandle is the inbound DOM collaborator (§6): borrowed read-only for the
// duration of one render and never retained past it.
type DOMHandle interface {
	QuerySelectorAll(selector string) []DOMElement
}

// Interpreter is the inbound async AI collaborator (§6): given the pending
// prompt strings, returns a same-length list of answers.
type Interpreter interface {
	Resolve(prompts []string) ([]string, error)
}

// PageContext is the immutable record supplied by the external extractor.
// Derived string fields are computed once in NewPageContext.
type PageContext struct {
	URL           string
	Title         string
	Author        string
	Description   string
	Domain        string
	Favicon       string
	Image         string
	Published     string
	Site          string
	Words         int
	ContentHTML   string
	SelectionHTML string
	FullHTML      string
	Highlights    []Highlight
	Meta          []MetaEntry
	JSONLD        []string // raw application/ld+json payloads
	DOM           DOMHandle

	// Derived once at construction.
	Content  string
	Selection string
	NoteName string
	Date     string
	Time     string

	schema *SchemaIndex
}

var textFragmentRe = regexp.MustCompile(`#:~:text=[^#]*$`)

// stripTextFragment removes a trailing #:~:text=... anchor from a URL,
// emptying the fragment entirely if that anchor was its only content.
// Idempotent: stripping twice equals stripping once (Testable Property 4).
func stripTextFragment(rawURL string) string {
	if !strings.Contains(rawURL, "#:~:text=") {
		return rawURL
	}
	out := textFragmentRe.ReplaceAllString(rawURL, "")
	out = strings.TrimSuffix(out, "#")
	return out
}

// NewPageContext builds an immutable page context, computing the derived
// string fields once (content, selection, noteName, date, time, url).
func NewPageContext(raw PageContext, now time.Time) *PageContext {
	pc := raw
	pc.URL = stripTextFragment(raw.URL)
	pc.Content = htmlToPlainText(raw.ContentHTML)
	pc.Selection = htmlToPlainText(raw.SelectionHTML)
	pc.NoteName = deriveNoteName(raw.Title, pc.URL)
	pc.Date = now.Format("2006-01-02")
	pc.Time = now.Format("15:04:05")
	pc.schema = buildSchemaIndexForPage(raw.JSONLD, raw.FullHTML, pc.URL)
	return &pc
}

func deriveNoteName(title, url string) string {
	t := strings.TrimSpace(title)
	if t != "" {
		return t
	}
	return strings.TrimSpace(url)
}

// Fingerprint is a stable hash of URL plus page context, used to key the
// compile cache (§3 "Compiled cache").
func (pc *PageContext) Fingerprint() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(struct {
		URL         string
		Title       string
		Author      string
		Description string
		Domain        string
		Favicon       string
		Image         string
		Published     string
		Site          string
		Words         int
		ContentHTML   string
		SelectionHTML string
		FullHTML      string
		Highlights    []Highlight
		Meta          []MetaEntry
		JSONLD        []string
		Date          string
		Time          string
	}{
		URL: pc.URL, Title: pc.Title, Author: pc.Author, Description: pc.Description,
		Domain: pc.Domain, Favicon: pc.Favicon, Image: pc.Image, Published: pc.Published, Site: pc.Site, Words: pc.Words,
		ContentHTML: pc.ContentHTML, SelectionHTML: pc.SelectionHTML, FullHTML: pc.FullHTML,
		Highlights: pc.Highlights, Meta: pc.Meta, JSONLD: pc.JSONLD, Date: pc.Date, Time: pc.Time,
	})
	return pc.URL + "#" + hex.EncodeToString(h.Sum(nil))
}

// asVarMap projects the context's scalar fields into the variable map used
// by the default dispatcher provider (§4.D "otherwise" row), so templates
// can reference {{title}}, {{url}}, {{highlights}}, etc. directly.
func (pc *PageContext) asVarMap() map[string]any {
	highlights := make([]any, 0, len(pc.Highlights))
	for _, h := range pc.Highlights {
		highlights = append(highlights, map[string]any{
			"text": h.Text, "timestamp": h.Timestamp, "notes": h.Notes,
		})
	}
	return map[string]any{
		"url":         pc.URL,
		"title":       pc.Title,
		"author":      pc.Author,
		"description": pc.Description,
		"domain":      pc.Domain,
		"favicon":     pc.Favicon,
		"image":       pc.Image,
		"published":   pc.Published,
		"site":        pc.Site,
		"words":       pc.Words,
		"content":     pc.Content,
		"selection":   pc.Selection,
		"noteName":    pc.NoteName,
		"date":        pc.Date,
		"time":        pc.Time,
		"highlights":  highlights,
	}
}
