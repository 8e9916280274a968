package linter

import (
	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
)

// ReparseFunc rebuilds a tree from text after a rule pass mutated it.
type ReparseFunc func(text string) (*cst.Tree, error)

// DocumentInfo contains a document and its metadata for linting
type DocumentInfo struct {
	// Path is the location of the document, used for reporting and ignore patterns
	Path string

	// Tree is the parsed document. Autocorrection works on a copy.
	Tree *cst.Tree

	// Config is the resolved configuration for the document
	Config *config.EffectiveConfig

	// Reparse, when set, replaces reindexing after every mutating rule pass
	Reparse ReparseFunc
}

// NewDocumentInfo creates a new DocumentInfo for a parsed document
func NewDocumentInfo(path string, tree *cst.Tree, cfg *config.EffectiveConfig) *DocumentInfo {
	return &DocumentInfo{
		Path:   path,
		Tree:   tree,
		Config: cfg,
	}
}

// WithReparse sets the function used to reparse the document after mutations
func (d *DocumentInfo) WithReparse(fn ReparseFunc) *DocumentInfo {
	d.Reparse = fn
	return d
}
