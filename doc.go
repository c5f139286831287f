// Package sift filters collections of decoded-JSON records with a small
// string condition language instead of hand-written filter code.
//
// A condition is a single "field operator value" string, for example
// "age > 1000" or "favorite.*.food == pizza". Membership operators read
// the other way around, "peas in favorite.food", which is the historical
// grammar of this language and is preserved deliberately.
//
// Queries are immutable chains:
//
//	q := sift.New(records)
//	old := q.Where("gender == M").Where("age >= 1000")
//	fmt.Println(old.Count())
//
// Every Where returns a new Query; the parent keeps its result set, so
// chains can branch freely. Malformed conditions never return errors -
// they filter to an empty result, keeping pipelines total. Repeated or
// large-scale filtering is served by a per-field value index and an LRU
// result cache, both transparent: they only change speed, never results.
package sift
