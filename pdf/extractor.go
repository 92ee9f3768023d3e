// Package pdf extracts text and document metadata from PDF bytes using
// ledongthuc/pdf. PDF output skips the HTML cleaning pipeline entirely:
// a document stream has no navigation or ads to remove, so extraction is
// authoritative as-is.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/scrapemill/scrapemill"
)

// Ensure Extractor implements scrapemill.PDFExtractor at compile time.
var _ scrapemill.PDFExtractor = (*Extractor)(nil)

// Extractor converts PDF bytes to paragraph-preserving Markdown.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the PDF and returns Markdown plus Info-dictionary
// metadata. Missing metadata fields are left empty, not treated as errors.
func (e *Extractor) Extract(data []byte) (markdown string, meta *scrapemill.PDFMetadata, err error) {
	// The underlying parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = scrapemill.Errorf(scrapemill.EINVALID, "malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, scrapemill.Errorf(scrapemill.EINVALID, "parse PDF: %v", err)
	}

	meta = readMetadata(reader)
	meta.Pages = reader.NumPage()
	meta.FileSize = len(data)

	var sb strings.Builder
	writeHeader(&sb, meta)

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n## Page %d\n\n", i)
		sb.WriteString(cleanText(text))
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()) + "\n", meta, nil
}

// readMetadata pulls the Info dictionary fields that exist.
func readMetadata(r *pdf.Reader) *scrapemill.PDFMetadata {
	meta := &scrapemill.PDFMetadata{}

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}

	meta.Title = infoString(info, "Title")
	meta.Author = infoString(info, "Author")
	meta.Subject = infoString(info, "Subject")
	meta.Creator = infoString(info, "Creator")
	meta.CreationDate = ParseDate(infoString(info, "CreationDate"))

	return meta
}

func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// writeHeader emits the title heading and a metadata block.
func writeHeader(sb *strings.Builder, meta *scrapemill.PDFMetadata) {
	if meta.Title != "" {
		fmt.Fprintf(sb, "# %s\n", meta.Title)
	} else {
		sb.WriteString("# PDF Document\n")
	}

	var lines []string
	if meta.Author != "" {
		lines = append(lines, fmt.Sprintf("**Author:** %s", meta.Author))
	}
	if meta.Subject != "" {
		lines = append(lines, fmt.Sprintf("**Subject:** %s", meta.Subject))
	}
	if meta.Pages > 0 {
		lines = append(lines, fmt.Sprintf("**Pages:** %d", meta.Pages))
	}
	if meta.CreationDate != "" {
		lines = append(lines, fmt.Sprintf("**Creation date:** %s", meta.CreationDate))
	}
	if len(lines) > 0 {
		sb.WriteString("\n" + strings.Join(lines, "\n") + "\n\n---\n")
	}
}

var pdfDateRe = regexp.MustCompile(`^D:(\d{4})(\d{2})(\d{2})(\d{2})?(\d{2})?(\d{2})?`)

// ParseDate converts a PDF date (D:YYYYMMDDHHmmSS with optional timezone
// suffix) to ISO 8601. Unrecognized values are returned unchanged.
func ParseDate(raw string) string {
	if raw == "" {
		return ""
	}
	m := pdfDateRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	hour, minute, second := m[4], m[5], m[6]
	if hour == "" {
		hour = "00"
	}
	if minute == "" {
		minute = "00"
	}
	if second == "" {
		second = "00"
	}
	return fmt.Sprintf("%s-%s-%sT%s:%s:%s", m[1], m[2], m[3], hour, minute, second)
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	runsOfSpace  = regexp.MustCompile(`[ \t]+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// cleanText strips control characters and normalizes whitespace in text
// pulled from a PDF content stream.
func cleanText(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	text = runsOfSpace.ReplaceAllString(text, " ")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
