package clipweave

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// PageContextFixture is the JSON-decodable shape of a page context, used by
// the CLI and server shells to build a *PageContext without a live DOM
// collaborator (§6: DOM is an inbound, request-scoped collaborator — a
// fixture file substitutes for it in offline tooling).
type PageContextFixture struct {
	URL           string      `json:"url"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Description   string      `json:"description"`
	Domain        string      `json:"domain"`
	Favicon       string      `json:"favicon"`
	Image         string      `json:"image"`
	Published     string      `json:"published"`
	Site          string      `json:"site"`
	Words         int         `json:"words"`
	ContentHTML   string      `json:"contentHtml"`
	SelectionHTML string      `json:"selectionHtml"`
	FullHTML      string      `json:"fullHtml"`
	Highlights    []Highlight `json:"highlights"`
	Meta          []MetaEntry `json:"meta"`
	JSONLD        []string    `json:"jsonld"`
}

// ToPageContext builds an immutable PageContext from the fixture, as of now.
func (f PageContextFixture) ToPageContext(now time.Time) *PageContext {
	return NewPageContext(PageContext{
		URL:           f.URL,
		Title:         f.Title,
		Author:        f.Author,
		Description:   f.Description,
		Domain:        f.Domain,
		Favicon:       f.Favicon,
		Image:         f.Image,
		Published:     f.Published,
		Site:          f.Site,
		Words:         f.Words,
		ContentHTML:   f.ContentHTML,
		SelectionHTML: f.SelectionHTML,
		FullHTML:      f.FullHTML,
		Highlights:    f.Highlights,
		Meta:          f.Meta,
		JSONLD:        f.JSONLD,
	}, now)
}

// LoadPageContextFixture reads and decodes a JSON fixture file from disk.
func LoadPageContextFixture(path string) (*PageContextFixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read fixture %s", path)
	}
	var f PageContextFixture
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrapf(err, "parse fixture %s", path)
	}
	return &f, nil
}
