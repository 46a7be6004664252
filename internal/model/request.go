package model

import (
	"errors"
	"fmt"
	"strings"
)

// ContentType selects what the crawl backend extracts from each page.
type ContentType string

const (
	// ContentAll extracts both images and text.
	ContentAll ContentType = "all"
	// ContentImages extracts image URLs only.
	ContentImages ContentType = "images"
	// ContentText extracts visible text only.
	ContentText ContentType = "text"
)

const (
	// DefaultMaxSizeKB is the page size limit used when none is given.
	DefaultMaxSizeKB = 1000
	// MaxSizeKBLimit is the largest page size limit the backend accepts.
	MaxSizeKBLimit = 10000
)

var (
	errURLsRequired       = errors.New("the \"urls\" field is required")
	errMaxSizeOutOfRange  = errors.New("maxSize must be between 1 and 10000 KB")
	errUnknownContentType = errors.New("contentType must be one of all, images, text")
)

// Valid reports whether c is a content type the backend understands.
func (c ContentType) Valid() bool {
	switch c {
	case ContentAll, ContentImages, ContentText:
		return true
	}
	return false
}

// CrawlRequest is the body posted to the crawl backend.
type CrawlRequest struct {
	URLs        string      `json:"urls"`
	MaxSize     int         `json:"maxSize"`
	ContentType ContentType `json:"contentType"`
}

// NewCrawlRequest joins urls into the newline-delimited form the backend expects.
func NewCrawlRequest(urls []string, maxSizeKB int, contentType ContentType) CrawlRequest {
	return CrawlRequest{
		URLs:        strings.Join(urls, "\n"),
		MaxSize:     maxSizeKB,
		ContentType: contentType,
	}
}

// WithDefaults fills in the page size limit and content type when unset.
func (r CrawlRequest) WithDefaults() CrawlRequest {
	if r.MaxSize == 0 {
		r.MaxSize = DefaultMaxSizeKB
	}
	if r.ContentType == "" {
		r.ContentType = ContentAll
	}
	return r
}

// URLList splits the newline-delimited URL field, trimming whitespace and
// dropping blank lines. The URLs themselves are not validated.
func (r CrawlRequest) URLList() []string {
	var urls []string
	for _, line := range strings.Split(r.URLs, "\n") {
		if u := strings.TrimSpace(line); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Validate checks the request shape. Call WithDefaults first.
func (r CrawlRequest) Validate() error {
	if len(r.URLList()) == 0 {
		return errURLsRequired
	}
	if r.MaxSize < 1 || r.MaxSize > MaxSizeKBLimit {
		return fmt.Errorf("%w: got %d", errMaxSizeOutOfRange, r.MaxSize)
	}
	if !r.ContentType.Valid() {
		return fmt.Errorf("%w: got %q", errUnknownContentType, r.ContentType)
	}
	return nil
}
