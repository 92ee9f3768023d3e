// Package pipeline turns raw rendered HTML into final Markdown through a
// linear sequence of cleaning stages: structural pruning, main-content
// extraction, a fallback decision against the renderer's own Markdown,
// title injection, regex normalization, and an optional AI sanitizer pass.
//
// The pipeline's correctness constraint is "never silently lose substantial
// content". The fallback decision and the sanitizer's content-loss guard
// both exist to enforce it.
package pipeline

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/scrapemill/scrapemill"
	"github.com/scrapemill/scrapemill/goquery"
)

// Stage names recorded in Result.StepsApplied, in pipeline order.
const (
	StepPruning        = "pruning"
	StepExtraction     = "extraction"
	StepConversion     = "markdown_conversion"
	StepEngineFallback = "engine_fallback"
	StepTitleInjection = "title_injection"
	StepNormalization  = "normalization"
	StepAISanitize     = "ai_sanitize"
)

// DefaultFallbackThreshold is the fraction of the engine Markdown length
// below which the main-content extraction is considered too aggressive.
const DefaultFallbackThreshold = 0.30

// DefaultMaxContentLoss is the fraction of plain-text content the sanitizer
// is allowed to remove before its output is rejected.
const DefaultMaxContentLoss = 0.10

// Result is the pipeline's output for one page.
type Result struct {
	Markdown string

	// Title is the document's top-level heading text, whether it was
	// already present or injected.
	Title string

	// StepsApplied lists the stages that ran, in order.
	StepsApplied []string
}

// Pipeline converts raw rendered HTML into clean Markdown. Pipeline is
// immutable after construction and safe for concurrent use.
type Pipeline struct {
	extractor scrapemill.Extractor
	fallback  scrapemill.Extractor
	converter scrapemill.Converter
	llm       scrapemill.LLMClient

	pruning        bool
	extraction     bool
	titleInjection bool
	normalization  bool

	fallbackThreshold float64
	maxContentLoss    float64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLLM enables the AI sanitizer stage backed by the given client.
func WithLLM(client scrapemill.LLMClient) Option {
	return func(p *Pipeline) { p.llm = client }
}

// WithFallbackExtractor sets a secondary extractor consulted when the
// primary one errors or returns empty content.
func WithFallbackExtractor(e scrapemill.Extractor) Option {
	return func(p *Pipeline) { p.fallback = e }
}

// WithFallbackThreshold overrides the engine-fallback threshold fraction.
func WithFallbackThreshold(f float64) Option {
	return func(p *Pipeline) { p.fallbackThreshold = f }
}

// WithMaxContentLoss overrides the sanitizer content-loss budget.
func WithMaxContentLoss(f float64) Option {
	return func(p *Pipeline) { p.maxContentLoss = f }
}

// WithoutPruning disables the structural pruning stage.
func WithoutPruning() Option {
	return func(p *Pipeline) { p.pruning = false }
}

// WithoutExtraction disables main-content extraction. The pruned HTML is
// converted to Markdown directly and the engine-fallback decision is
// short-circuited.
func WithoutExtraction() Option {
	return func(p *Pipeline) { p.extraction = false }
}

// WithoutTitleInjection disables the title injection stage.
func WithoutTitleInjection() Option {
	return func(p *Pipeline) { p.titleInjection = false }
}

// WithoutNormalization disables the regex normalization stage.
func WithoutNormalization() Option {
	return func(p *Pipeline) { p.normalization = false }
}

// NewPipeline creates a Pipeline with all stages enabled. The sanitizer
// stage additionally requires WithLLM.
func NewPipeline(extractor scrapemill.Extractor, converter scrapemill.Converter, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:         extractor,
		converter:         converter,
		pruning:           true,
		extraction:        true,
		titleInjection:    true,
		normalization:     true,
		fallbackThreshold: DefaultFallbackThreshold,
		maxContentLoss:    DefaultMaxContentLoss,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run cleans one rendered page. It returns an error only when no stage
// produced any usable Markdown at all.
func (p *Pipeline) Run(ctx context.Context, render *scrapemill.RenderResult, sourceURL string, cfg scrapemill.RunConfig) (*Result, error) {
	result := &Result{}

	html := render.HTML
	if p.pruning {
		pruner := &goquery.Pruner{KeepIFrames: cfg.ProcessIFrames}
		if pruned, err := pruner.Prune(html); err == nil {
			html = pruned
		}
		result.StepsApplied = append(result.StepsApplied, StepPruning)
	}

	markdown := p.candidateMarkdown(html, render, cfg, result)
	if strings.TrimSpace(markdown) == "" {
		return nil, scrapemill.Errorf(scrapemill.EINTERNAL, "no content extracted from %s", sourceURL)
	}

	if p.titleInjection {
		markdown, result.Title = injectTitle(markdown, render, sourceURL)
		result.StepsApplied = append(result.StepsApplied, StepTitleInjection)
	} else {
		result.Title = existingTitle(markdown)
	}

	if p.normalization {
		markdown = Normalize(markdown, cfg.IncludeImages)
		result.StepsApplied = append(result.StepsApplied, StepNormalization)
	}

	if p.llm != nil {
		if sanitized, ok := p.sanitize(ctx, markdown); ok {
			markdown = sanitized
			result.StepsApplied = append(result.StepsApplied, StepAISanitize)
		}
	}

	result.Markdown = markdown
	return result, nil
}

// candidateMarkdown runs main-content extraction, Markdown conversion, and
// the engine-fallback decision. When extraction is disabled the pruned HTML
// converts directly and no fallback decision is made.
func (p *Pipeline) candidateMarkdown(html string, render *scrapemill.RenderResult, cfg scrapemill.RunConfig, result *Result) string {
	if !p.extraction {
		markdown := p.convert(html)
		if markdown != "" {
			result.StepsApplied = append(result.StepsApplied, StepConversion)
		}
		return markdown
	}

	var markdown string
	if content := p.extractContent(html, cfg.WordCountThreshold); content != "" {
		result.StepsApplied = append(result.StepsApplied, StepExtraction)
		markdown = p.convert(content)
		if markdown != "" {
			result.StepsApplied = append(result.StepsApplied, StepConversion)
		}
	}
	if markdown == "" {
		markdown = p.convert(html)
	}

	// Aggressive boilerplate removal can wrongly drop legitimate content
	// blocks. When the extraction came out much shorter than the engine's
	// whole-page Markdown, trust the engine instead.
	if render.EngineMarkdown != "" &&
		float64(len(markdown)) < p.fallbackThreshold*float64(len(render.EngineMarkdown)) {
		markdown = render.EngineMarkdown
		result.StepsApplied = append(result.StepsApplied, StepEngineFallback)
	}

	return markdown
}

// extractContent tries the primary extractor, then the fallback. Results
// below minWords count as empty so near-blank extractions (menus, cookie
// notices) do not shadow the fallback paths.
func (p *Pipeline) extractContent(html string, minWords int) string {
	if p.extractor != nil {
		if res, err := p.extractor.Extract(html); err == nil && usable(res, minWords) {
			return res.ContentHTML
		}
	}
	if p.fallback != nil {
		if res, err := p.fallback.Extract(html); err == nil && usable(res, minWords) {
			return res.ContentHTML
		}
	}
	return ""
}

func usable(res *scrapemill.ExtractResult, minWords int) bool {
	if res == nil || strings.TrimSpace(res.ContentHTML) == "" {
		return false
	}
	return minWords <= 0 || res.WordCount >= minWords
}

func (p *Pipeline) convert(html string) string {
	if p.converter == nil {
		return ""
	}
	markdown, err := p.converter.Convert(html)
	if err != nil {
		return ""
	}
	return markdown
}

var h1Pattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// existingTitle returns the text of the document's first H1, if any.
func existingTitle(markdown string) string {
	if m := h1Pattern.FindStringSubmatch(markdown); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// injectTitle ensures the Markdown starts with a top-level heading. The
// title is taken from og:title, then the page title, then the URL path,
// then a fixed placeholder.
func injectTitle(markdown string, render *scrapemill.RenderResult, sourceURL string) (string, string) {
	if title := existingTitle(markdown); title != "" {
		return markdown, title
	}

	title := render.OGTitle
	if title == "" {
		title = render.PageTitle
	}
	if title == "" {
		title = titleFromURL(sourceURL)
	}
	if title == "" {
		title = "Untitled Document"
	}

	return "# " + title + "\n\n" + markdown, title
}

// titleFromURL derives a human-readable title from the last URL path
// segment, e.g. /blog/my-first-post -> "My First Post".
func titleFromURL(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	segment := strings.Trim(u.Path, "/")
	if idx := strings.LastIndex(segment, "/"); idx >= 0 {
		segment = segment[idx+1:]
	}
	if idx := strings.LastIndex(segment, "."); idx > 0 {
		segment = segment[:idx]
	}
	segment = strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return ""
	}

	words := strings.Fields(segment)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
