package types

// DocumentFormat is the declared format of an uploaded document.
type DocumentFormat string

const (
	FormatPlainText DocumentFormat = "txt"
	FormatMarkdown  DocumentFormat = "md"
	FormatPDF       DocumentFormat = "pdf"
	FormatDocx      DocumentFormat = "docx"
)

// Document is the active study material for one session. Re-uploading
// replaces it wholesale; clearing the session destroys it.
type Document struct {
	Name          string         `json:"name"`
	Format        DocumentFormat `json:"format"`
	ExtractedText string         `json:"extracted_text"`
}
