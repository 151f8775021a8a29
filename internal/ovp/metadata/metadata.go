// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metadata flattens custom-metadata XML documents into key/value
// pairs.
package metadata

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/metrics"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
)

// RootElement is the element whose direct children become metadata fields.
const RootElement = "metadata"

// Element is a node of a parsed document.
type Element struct {
	Name     string
	Text     string
	Children []*Element
}

// Document is a parsed XML document.
type Document struct {
	Root *Element
}

// DocumentParser parses one XML payload.
type DocumentParser interface {
	Parse(text string) (*Document, error)
}

// XMLParser is the default DocumentParser, backed by encoding/xml.
type XMLParser struct{}

func (XMLParser) Parse(text string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	var stack []*Element
	var root *Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse metadata xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("parse metadata xml: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("parse metadata xml: empty document")
	}
	return &Document{Root: root}, nil
}

// Flattener walks metadata documents with a DocumentParser.
type Flattener struct {
	parser DocumentParser
}

// NewFlattener returns a Flattener; a nil parser selects XMLParser.
func NewFlattener(p DocumentParser) *Flattener {
	if p == nil {
		p = XMLParser{}
	}
	return &Flattener{parser: p}
}

// Flatten merges the direct children of every document's <metadata> root
// into one map of name to trimmed text. Later documents overwrite earlier
// keys. Malformed documents are logged and skipped.
func (f *Flattener) Flatten(ctx context.Context, docs []*model.Metadata) map[string]string {
	out := make(map[string]string)
	logger := xglog.WithContext(ctx, xglog.WithComponent("ovp.metadata"))
	for _, md := range docs {
		if md == nil {
			continue
		}
		doc, err := f.parser.Parse(md.XML)
		if err != nil {
			metrics.IncMetadataDocument("malformed")
			logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "ovp.metadata.skipped").
				Str("metadata_id", string(md.ID)).
				Msg("skipping malformed metadata document")
			continue
		}
		metrics.IncMetadataDocument("ok")
		if doc.Root == nil || doc.Root.Name != RootElement {
			continue
		}
		for _, child := range doc.Root.Children {
			out[child.Name] = strings.TrimSpace(child.Text)
		}
	}
	return out
}

// Flatten uses the default XML parser.
func Flatten(ctx context.Context, docs []*model.Metadata) map[string]string {
	return NewFlattener(nil).Flatten(ctx, docs)
}
