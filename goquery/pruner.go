// Package goquery implements DOM-level helpers for the cleaning pipeline:
// structural pruning of boilerplate elements and harvesting of page
// metadata, links, and images from rendered HTML.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scrapemill/scrapemill"
)

// pruneTags are removed wholesale during structural pruning. Iframes are
// only removed when iframe processing is disabled in the run config.
var pruneTags = []string{
	"nav", "footer", "header", "aside", "script", "style",
	"noscript", "form", "svg", "canvas", "video", "audio",
}

// noisePattern matches class/id attribute values of elements that are
// almost never editorial content.
var noisePattern = regexp.MustCompile(`(?i)cookie|widget|popup|modal|banner|advert|sidebar|comment|share|social|newsletter|subscribe|related|recommended|breadcrumb|pagination|menu|navbar|toolbar`)

// Pruner removes navigation, footers, scripts, ad containers, and cookie
// banners from raw HTML using tag names and class/id patterns.
type Pruner struct {
	// KeepIFrames leaves iframe elements in place so their content can be
	// processed downstream.
	KeepIFrames bool
}

// NewPruner creates a new Pruner.
func NewPruner() *Pruner {
	return &Pruner{}
}

// Prune returns the HTML with structural boilerplate removed. On parse
// failure the input is returned unchanged so the pipeline never loses the
// document to a pruning error.
func (p *Pruner) Prune(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML, scrapemill.Errorf(scrapemill.EINVALID, "parse HTML: %v", err)
	}

	tags := pruneTags
	if !p.KeepIFrames {
		tags = append(tags[:len(tags):len(tags)], "iframe")
	}
	for _, tag := range tags {
		doc.Find(tag).Remove()
	}

	doc.Find("[class],[id]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		id, _ := sel.Attr("id")
		if noisePattern.MatchString(class) || noisePattern.MatchString(id) {
			sel.Remove()
		}
	})

	html, err := doc.Html()
	if err != nil {
		return rawHTML, err
	}
	return html, nil
}
