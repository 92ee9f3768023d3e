package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageMeta holds metadata harvested from a rendered page, used for title
// injection and result counts.
type PageMeta struct {
	Title   string
	OGTitle string
	Links   []string
	Images  []string
}

// ExtractMeta parses rendered HTML and collects the <title> tag, the
// og:title meta property, and absolute link/image URLs. sourceURL resolves
// relative references; when excludeExternal is set, links pointing off the
// source host are dropped.
func ExtractMeta(rawHTML, sourceURL string, excludeExternal bool) *PageMeta {
	meta := &PageMeta{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return meta
	}

	base, _ := url.Parse(sourceURL)

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if v, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		meta.OGTitle = strings.TrimSpace(v)
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs := resolveURL(base, href)
		if abs == "" {
			return
		}
		if excludeExternal && base != nil {
			if u, err := url.Parse(abs); err != nil || u.Host != base.Host {
				return
			}
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		meta.Links = append(meta.Links, abs)
	})

	seenImg := make(map[string]struct{})
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		abs := resolveURL(base, src)
		if abs == "" {
			return
		}
		if _, ok := seenImg[abs]; ok {
			return
		}
		seenImg[abs] = struct{}{}
		meta.Images = append(meta.Images, abs)
	})

	return meta
}

// resolveURL makes href absolute against base, skipping fragments and
// non-navigational schemes.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return base.ResolveReference(ref).String()
}
