package citation

import (
	"fmt"

	"cbeta-search/internal/corpus"
	"cbeta-search/internal/domain"
)

const (
	// DefaultLabel is the corpus label printed inside the citation brackets.
	DefaultLabel = "CBETA編號"
	// DefaultURLTemplate is the canonical online lookup address; the document
	// ID is interpolated at %s.
	DefaultURLTemplate = "https://cbetaonline.dila.edu.tw/zh/%s"
)

// Formatter renders standard citations for retrieved paragraphs:
//
//	<title>（<label>：<doc_id>）
//	<url>
type Formatter struct {
	Label       string
	URLTemplate string
}

// NewFormatter returns a formatter with the canonical CBETA label and URL.
func NewFormatter() Formatter {
	return Formatter{Label: DefaultLabel, URLTemplate: DefaultURLTemplate}
}

// WithOverrides returns a formatter using the given label and URL template
// where non-empty, and the canonical defaults otherwise.
func WithOverrides(label, urlTemplate string) Formatter {
	f := NewFormatter()
	if label != "" {
		f.Label = label
	}
	if urlTemplate != "" {
		f.URLTemplate = urlTemplate
	}
	return f
}

// Format produces the citation for a paragraph. A paragraph with no title is
// resolved against the document list by DocID; if that also fails the title
// segment is left empty. Format never fails.
func (f Formatter) Format(p domain.Paragraph, docs []domain.Document) string {
	docID := p.DocID
	if docID == "" {
		docID = p.ID
	}
	title := p.Title
	if title == "" && docID != "" {
		title = corpus.FindTitle(docs, docID)
	}
	url := fmt.Sprintf(f.URLTemplate, docID)
	return fmt.Sprintf("%s（%s：%s）\n%s", title, f.Label, docID, url)
}
