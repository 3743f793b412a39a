package models

import (
	json "github.com/goccy/go-json"
)

// Segment is one element of an outbound message chain. The set of
// implementations is closed: TextSegment and ImageSegment.
type Segment interface {
	segment()
}

type Chain []Segment

type TextSegment struct {
	Text string
}

// ImageSegment carries either a local path or a remote URL, never both.
type ImageSegment struct {
	Path string
	URL  string
}

func (TextSegment) segment()  {}
func (ImageSegment) segment() {}

func (s TextSegment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: "text", Text: s.Text})
}

func (s ImageSegment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Path string `json:"path,omitempty"`
		URL  string `json:"url,omitempty"`
	}{Type: "image", Path: s.Path, URL: s.URL})
}

// TextOnly strips image segments, the fallback shape when an image cannot be
// attached.
func (c Chain) TextOnly() Chain {
	out := make(Chain, 0, len(c))
	for _, s := range c {
		if _, ok := s.(TextSegment); ok {
			out = append(out, s)
		}
	}
	return out
}
