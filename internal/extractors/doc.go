// Package extractors provides file-format text extraction for uploads.
// Each extractor handles specific file extensions; the registry selects
// the right one for an uploaded file.
package extractors
