// Package query implements the massCode record query language.
//
// A query compares record fields against literal values and combines the
// comparisons with negation, conjunction and disjunction:
//
//	name @SW go
//	(folderId == abc12 & ~ (isDeleted == true))
//	(tagsIds @OO [t1, t2]) | (description @CT [shell script])
//
// Operators are == != > < >= <= @SW (starts with) @EW (ends with)
// @CT (contains) and @OO (one of). Binary combinations must be grouped with
// parentheses; there is no precedence. Scalar values are alphanumeric runs;
// bracketed lists accept any characters except ',' and ']' and give any
// operator "matches any of" semantics.
//
// Parse turns text into an Expression tree, Evaluate checks one Record, and
// Filter / FilterIDs apply a tree to a keyed collection:
//
//	expr, err := query.Parse("index > 5")
//	if err != nil {
//	    return err
//	}
//	matches := query.Filter(expr, folders)
//
// Evaluation fails closed: a missing field or a value that cannot be compared
// makes the condition false instead of producing an error.
package query
