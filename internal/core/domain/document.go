package domain

// Metadata keys attached to documents.
const (
	MetaSourceType   = "source_type"
	MetaCourseName   = "course_name"
	MetaUnitID       = "unit_id"
	MetaUnitTitle    = "unit_title"
	MetaDocumentName = "document_name"
	MetaChunkID      = "chunk_id"
)

// SourceType identifies where a document's text came from.
type SourceType string

// Known source types.
const (
	SourceTypeSyllabus SourceType = "syllabus"
	SourceTypeTextbook SourceType = "textbook"
)

// String returns the string representation.
func (s SourceType) String() string {
	return string(s)
}

// Label returns the capitalised name used in prompts and context headers.
func (s SourceType) Label() string {
	switch s {
	case SourceTypeSyllabus:
		return "Syllabus"
	case SourceTypeTextbook:
		return "Textbook"
	default:
		return unknownDescription
	}
}

// Document is a unit of retrievable text together with its metadata.
// A Document is immutable once created: use NewDocument to build one and
// Metadata to read a copy of its metadata.
type Document struct {
	content  string
	metadata map[string]string
}

// NewDocument creates a document, copying the given metadata.
func NewDocument(content string, metadata map[string]string) Document {
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return Document{content: content, metadata: meta}
}

// Content returns the document text.
func (d Document) Content() string {
	return d.content
}

// Metadata returns a copy of the document metadata.
func (d Document) Metadata() map[string]string {
	meta := make(map[string]string, len(d.metadata))
	for k, v := range d.metadata {
		meta[k] = v
	}
	return meta
}

// Meta returns a single metadata value, or "" when absent.
func (d Document) Meta(key string) string {
	return d.metadata[key]
}

// ChunkID returns the chunk identifier assigned at ingestion.
func (d Document) ChunkID() string {
	return d.metadata[MetaChunkID]
}

// SourceType returns the document's origin.
func (d Document) SourceType() SourceType {
	return SourceType(d.metadata[MetaSourceType])
}
