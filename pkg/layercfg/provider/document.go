package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/randalmurphal/layercfg/pkg/layercfg/template"
	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Document reads a YAML or JSON document from a file or an in-memory
// buffer.
type Document struct {
	name     string
	path     string
	data     []byte
	fromFile bool
	optional bool
	format   string
	expander *template.Expander
	lookup   template.LookupFunc
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// Optional makes a missing file contribute an empty tree instead of
// failing with KindNotFound.
func Optional() DocumentOption {
	return func(d *Document) {
		d.optional = true
	}
}

// WithFormat selects the parser by format name instead of by extension.
func WithFormat(name string) DocumentOption {
	return func(d *Document) {
		d.format = name
	}
}

// WithExpansion expands ${VAR} placeholders in string values after
// parsing, resolving names through lookup.
func WithExpansion(exp *template.Expander, lookup template.LookupFunc) DocumentOption {
	return func(d *Document) {
		d.expander = exp
		d.lookup = lookup
	}
}

// File returns a Document provider reading path, named "file:<path>".
// The format follows the extension (.yaml, .yml, .json); anything else
// is read as YAML.
func File(path string, opts ...DocumentOption) *Document {
	d := &Document{
		name:     "file:" + path,
		path:     path,
		fromFile: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Bytes returns a Document provider over an in-memory buffer.
// Without WithFormat the format follows name's extension.
func Bytes(name string, data []byte, opts ...DocumentOption) *Document {
	d := &Document{
		name: name,
		path: name,
		data: data,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements Provider.
func (d *Document) Name() string {
	return d.name
}

// Path returns the file path, or the buffer name for in-memory documents.
func (d *Document) Path() string {
	return d.path
}

// Fetch implements Provider.
func (d *Document) Fetch(ctx context.Context) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Value{}, err
	}

	data := d.data
	if d.fromFile {
		var err error
		data, err = os.ReadFile(d.path)
		if err != nil {
			if d.optional && os.IsNotExist(err) {
				return value.EmptyMapping(), nil
			}
			return value.Value{}, ioError(d.name, err)
		}
	}

	format := d.format
	if format == "" {
		format = formats.forPath(d.path)
	}
	parse, ok := formats.get(format)
	if !ok {
		return value.Value{}, ParseFailure(d.name, fmt.Errorf("unknown format %q", format))
	}

	tree, err := parse(data)
	if err != nil {
		return value.Value{}, ParseFailure(d.name, err)
	}
	switch tree.Kind() {
	case value.KindNull:
		return value.EmptyMapping(), nil
	case value.KindMapping:
	default:
		return value.Value{}, ParseFailure(d.name, fmt.Errorf("document root must be a mapping, found %s", tree.Kind()))
	}

	if d.expander != nil {
		tree, err = d.expander.ExpandValue(tree, d.lookup)
		if err != nil {
			return value.Value{}, ParseFailure(d.name, err)
		}
	}
	return tree, nil
}
