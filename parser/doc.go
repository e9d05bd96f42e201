// Package parser turns a docscript symbol stream into a syntax tree.
//
// # Overview
//
// The parser is a recursive-descent parser with one symbol of lookahead and
// no backtracking. It consumes the materialized output of the lexer:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Tokens    │────▶│   Lexer     │────▶│   Parser    │
//	│ (run-length)│     │  (symbols)  │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// # Blocks
//
// A document is a sequence of blocks. A paragraph break starts a paragraph
// unless it is followed by a standalone directive (a name the directive
// classifier accepts, such as h1), which becomes a block on its own.
// Anything else at block level is reported as a missing paragraph and
// wrapped in one.
//
// # Calls
//
// A directive name is followed by its arguments in one of two forms:
//
//	.name(key: value, key: value)   named parameters
//	.name key: value                a single bare parameter
//	.name(a, b c, [x, y])           positional arguments
//	.name a                         a single bare argument
//
// The named form is chosen when a KEY follows the first argument symbol.
// A positional argument made of several inline nodes becomes a Content node.
//
// # Error Recovery
//
// Malformed input never stops the parser. A mismatch is reported as a
// warning and the parser moves forward, substituting Empty nodes where a
// value could not be parsed and skipping to the next separator or closing
// delimiter where a list lost its structure. The only hard stop is nesting
// beyond the configured depth, reported as ErrNestingTooDeep alongside the
// partial document.
package parser
