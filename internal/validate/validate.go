// Package validate performs cheap pre-checks on uploaded files before any
// bytes are written to disk or handed to an engine.
package validate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Kind identifies the rule an upload violated.
type Kind string

const (
	InvalidExtension   Kind = "invalid_extension"
	InvalidContentType Kind = "invalid_content_type"
	FileTooLarge       Kind = "file_too_large"
	EmptyFile          Kind = "empty_file"
)

// Error is a rejected-upload decision. It maps to a 400 response.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Validator checks declared upload metadata against configured allow-lists
// and limits. It holds no mutable state; Check is a pure function.
type Validator struct {
	extensions   map[string]struct{}
	contentTypes map[string]struct{}
	maxBytes     int64
	extList      string
}

// New builds a Validator. Extensions are matched with their leading dot,
// case-insensitively; content types are compared on the media type alone.
func New(extensions, contentTypes []string, maxBytes int64) *Validator {
	v := &Validator{
		extensions:   make(map[string]struct{}, len(extensions)),
		contentTypes: make(map[string]struct{}, len(contentTypes)),
		maxBytes:     maxBytes,
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := v.extensions[ext]; !ok {
			v.extensions[ext] = struct{}{}
			normalized = append(normalized, ext)
		}
	}
	sort.Strings(normalized)
	v.extList = strings.Join(normalized, ", ")
	for _, ct := range contentTypes {
		ct = strings.ToLower(strings.TrimSpace(ct))
		if ct != "" {
			v.contentTypes[ct] = struct{}{}
		}
	}
	return v
}

// Check decides accept/reject for an upload from its declared filename,
// declared content type and byte size. A nil return means accepted.
func (v *Validator) Check(filename, contentType string, size int64) *Error {
	if size == 0 {
		return &Error{Kind: EmptyFile, Detail: "Empty file upload"}
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return &Error{
			Kind:   FileTooLarge,
			Detail: fmt.Sprintf("File of %d bytes exceeds the %d byte limit", size, v.maxBytes),
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := v.extensions[ext]; !ok {
		return &Error{
			Kind:   InvalidExtension,
			Detail: fmt.Sprintf("Invalid file extension %q, allowed extensions: %s", ext, v.extList),
		}
	}
	// Some clients omit the content type entirely; tolerate that.
	ct := mediaType(contentType)
	if ct == "" {
		return nil
	}
	if _, ok := v.contentTypes[ct]; !ok {
		return &Error{
			Kind:   InvalidContentType,
			Detail: fmt.Sprintf("Invalid content type: %s", ct),
		}
	}
	return nil
}

// mediaType lowercases the declared type and strips parameters such as
// "; codecs=opus".
func mediaType(contentType string) string {
	ct := strings.TrimSpace(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
