// Package grammar holds the reference grammar of docscript in EBNF and
// checks symbol streams against it.
package grammar

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/exp/ebnf"
)

// Start is the start production of the grammar.
const Start = "Document"

// FileName is the name the embedded grammar is parsed under.
const FileName = "docscript.ebnf"

//go:embed docscript.ebnf
var source []byte

// Source returns the grammar text.
func Source() []byte {
	return bytes.Clone(source)
}

// Load parses the embedded grammar.
func Load() (ebnf.Grammar, error) {
	g, err := ebnf.Parse(FileName, bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("grammar: %w", err)
	}
	return g, nil
}

// Verify parses the embedded grammar and checks that every production is
// defined and reachable from Start.
func Verify() error {
	g, err := Load()
	if err != nil {
		return err
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return fmt.Errorf("grammar: %w", err)
	}
	return nil
}

// Errors flattens an error returned by the ebnf package, which collects
// several errors in one value, into one error per line.
func Errors(err error) []error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() != reflect.Slice {
			continue
		}
		out := make([]error, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item, ok := v.Index(i).Interface().(error); ok {
				out = append(out, item)
			}
		}
		return out
	}
	return []error{err}
}
