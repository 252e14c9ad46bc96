/*
Package css implements a CSS3 compliant scanner and parser. This is meant to
be a low-level library for extracting component values, declarations and
rules from raw CSS text or bytes.

This package can be used for building tools to validate, optimize and format
CSS text.


Basics

CSS parsing occurs in up to three steps. Bytes are first decoded to text using
the encoding given by a byte order mark, the protocol, an @charset rule or the
environment (package charset). The scanner then breaks up the text into
component values (package scanner). These are the most basic units of the CSS
syntax such as identifiers, whitespace and strings, plus blocks and functions
holding nested component values. Finally the parser groups component values
into declarations and rules (package parser).

Each step can be called on its own. The parser accepts either text or
component values, so the content of a rule can be parsed again as a
declaration list, and the prelude of an at-rule can be handed to a grammar
the caller defines. This package doesn't understand the specifics of any
at-rule (such as @media queries) so it defers that to the user.


Errors

Parsing never fails. Malformed input produces *ast.ParseError values in the
output, next to the well-formed nodes: "bad-string" and "bad-url" from the
scanner, and "empty", "extra-input" and "invalid" from the parser. Errors
collects them from a parsed tree.


Abstract Syntax Tree

A stylesheet is a list of rules, mixed with whitespace and comments. A rule is
either an AtRule or a QualifiedRule.

An AtRule starts with an "@" symbol and an identifier, followed by zero or
more component values and finally ends with either a {-block, a semicolon or
the end of input. The block content is kept as component values and it is up
to the user to define the exact grammar.

A QualifiedRule is one or more component values ending with a {-block.

Inside {-blocks are usually a list of declarations. Despite the name, a list of
declarations can hold both AtRules and Declarations. A Declaration is an
identifier followed by a colon followed by zero or more component values. The
declaration has its Important flag set if the last two non-whitespace values
are a "!" and a case-insensitive "important".


Colors

Package color interprets a component value as a CSS Level 3 color: one of the
named colors, a hexadecimal notation or one of the rgb(), rgba(), hsl() and
hsla() functions.
*/
package css
