package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Defaults for document listing.
const (
	DefaultListLimit = 1024
)

// Document is a document as reported by the document service.
type Document struct {
	ID             string      `json:"id"`
	CollectionName string      `json:"collection_name"`
	Path           string      `json:"path"`
	Metadata       Metadata    `json:"metadata"`
	IndexStatus    IndexStatus `json:"index_status"`
	CreatedAt      string      `json:"created_at,omitempty"`
	Size           int64       `json:"size,omitempty"`
	NumPages       *int        `json:"num_pages,omitempty"`
	FileURL        string      `json:"file_url,omitempty"`
}

// MetadataValue is either a single string or a list of strings.
type MetadataValue struct {
	str    string
	list   []string
	isList bool
}

// String creates a single-string metadata value.
func String(s string) MetadataValue { return MetadataValue{str: s} }

// List creates a list metadata value.
func List(ss ...string) MetadataValue {
	return MetadataValue{list: append([]string{}, ss...), isList: true}
}

// IsList reports whether the value is a list.
func (v MetadataValue) IsList() bool { return v.isList }

// Values returns the value as a slice; a single string becomes a one-element slice.
func (v MetadataValue) Values() []string {
	if v.isList {
		return v.list
	}
	return []string{v.str}
}

// String returns the single value, or the list joined with ", ".
func (v MetadataValue) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.str
}

// MarshalJSON implements json.Marshaler.
func (v MetadataValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON implements json.Unmarshaler. Only strings and string lists are accepted.
func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("metadata list: %w", err)
		}
		*v = MetadataValue{list: list, isList: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("metadata value must be a string or list of strings")
	}
	*v = MetadataValue{str: s}
	return nil
}

// Metadata is an unordered mapping of string keys to string or string-list values.
type Metadata map[string]MetadataValue

// ContentType selects how the document service ingests content.
type ContentType string

const (
	// ContentText is raw UTF-8 text.
	ContentText ContentType = "text"
	// ContentAuto is a base64-encoded file whose format is detected by the service.
	ContentAuto ContentType = "auto"
)

// Content is the payload of an added document.
type Content struct {
	Type       ContentType `json:"type"`
	Text       string      `json:"text,omitempty"`
	Base64Data string      `json:"base64_data,omitempty"`
}

// TextContent creates text content.
func TextContent(text string) *Content {
	return &Content{Type: ContentText, Text: text}
}

// AutoContent creates file content from base64-encoded bytes.
func AutoContent(base64Data string) *Content {
	return &Content{Type: ContentAuto, Base64Data: base64Data}
}

// Validate checks that the payload matches its type.
func (c *Content) Validate() error {
	switch c.Type {
	case ContentText:
		if c.Text == "" {
			return fmt.Errorf("content.text is required")
		}
	case ContentAuto:
		if c.Base64Data == "" {
			return fmt.Errorf("content.base64_data is required")
		}
	default:
		return fmt.Errorf("content.type must be %q or %q, got %q", ContentText, ContentAuto, c.Type)
	}
	return nil
}

// ListRequest selects a page of documents within a collection. PathGT is the cursor.
type ListRequest struct {
	CollectionName string
	Limit          int
	PathPrefix     string
	PathGT         string
}

// ApplyDefaults fills empty fields.
func (r *ListRequest) ApplyDefaults() {
	if r.Limit <= 0 {
		r.Limit = DefaultListLimit
	}
}

// Validate checks required fields.
func (r *ListRequest) Validate() error {
	if r.CollectionName == "" {
		return fmt.Errorf("collection_name is required")
	}
	return nil
}

// AddRequest creates (or with Overwrite, replaces) a document at Path.
type AddRequest struct {
	CollectionName string
	Path           string
	Content        *Content
	Metadata       Metadata
	Overwrite      bool
}

// ApplyDefaults fills empty fields.
func (r *AddRequest) ApplyDefaults() {
	if r.Metadata == nil {
		r.Metadata = Metadata{}
	}
}

// Validate checks required fields in the order collection_name, path, content.
func (r *AddRequest) Validate() error {
	if r.CollectionName == "" {
		return fmt.Errorf("collection_name is required")
	}
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	if r.Content == nil {
		return fmt.Errorf("content is required")
	}
	return r.Content.Validate()
}
