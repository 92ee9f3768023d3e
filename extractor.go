package scrapemill

// ExtractResult holds the extracted main content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// WordCount is the number of words in the extracted text. The pipeline
	// discards extractions below RunConfig.WordCountThreshold.
	WordCount int
}

// Extractor isolates the primary editorial content of an HTML page,
// removing boilerplate with statistical or heuristic techniques.
type Extractor interface {
	// Extract processes HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
