// Package typedjson parses JSON text directly into the shape a schema.Type
// describes, in one streaming pass, without first building a generic
// document tree.
//
// The entry points are NewParser/Parser.Parse for a reusable parser, or the
// package-level Parse/ParseString for a one-shot call. See SPEC_FULL.md for
// the full behavioural contract this package implements.
package typedjson
