package scrapemill

// PDFMetadata holds document metadata extracted from a PDF's Info dictionary.
// Absent fields are simply empty; a PDF without metadata is still a success.
type PDFMetadata struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Pages        int    `json:"pages"`
	CreationDate string `json:"creationDate,omitempty"`
	FileSize     int    `json:"fileSize"`
}

// PDFExtractor converts PDF bytes into paragraph-preserving Markdown plus
// document metadata. No cleaning-pipeline stages apply to PDF output.
type PDFExtractor interface {
	Extract(data []byte) (markdown string, meta *PDFMetadata, err error)
}
