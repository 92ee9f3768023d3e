// Package scrapemill provides a resilient content-extraction service that
// turns URLs (HTML pages, JavaScript-rendered SPAs, or PDFs) into clean,
// boilerplate-free Markdown plus structured metadata for downstream SEO and
// knowledge-base pipelines.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, trafilatura/, sqlite/), with
// orchestration in scrape/ and the cleaning stages in pipeline/.
package scrapemill
