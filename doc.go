// Package spanned decodes structured data together with the byte-offset
// range in the input text that produced each value, so parsers and config
// loaders can report precise source locations without rewriting their
// decoding logic.
//
// It provides:
//
//   - Spanned[T], an immutable holder pairing a decoded value with its
//     half-open byte range [start, end)
//   - a transparent forwarding Deserializer that carries offset reporting
//     through arbitrary wrapper stacks
//   - the generic decode protocol (package de) and a token engine that
//     implements it over pluggable format sources (JSON, YAML, TOML)
//
// Design policy:
//   - Keep only public APIs in the root package; put the token engine under
//     internal/.
//   - Place the decode protocol under de/ and format token sources under
//     source/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	type cfg struct{ Name spanned.Spanned[string] }
//	// cfg implements de.Deserializable; see the package tests.
//	v, err := spanned.Parse[cfg](spanned.JSONBytes(data))
//
//	s, err := spanned.Parse[spanned.Spanned[string]](spanned.JSONBytes(data))
//	fmt.Println(s.Start(), s.End(), s.Value())
package spanned
