// Package queryir defines the filter language of the document catalog.
//
// A Query is a sealed tree: Select at the root, predicates below. Only
// types in this package implement Query or Predicate, so backends can
// switch exhaustively over them:
//
//	switch p := pred.(type) {
//	case HasTag:
//	case HasElement:
//	...
//	}
//
// Backends (see querysql) must produce deterministic results: every
// compiled query orders by formula then id.
package queryir
