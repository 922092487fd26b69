package match

import (
	"strings"

	"github.com/goliatone/go-catalog/internal/schema"
)

// Predicate is a composable SQL fragment with its positional parameters.
// Fragments are combined structurally, never by interpolating values.
type Predicate struct {
	Expr string
	Args []any
}

// False returns the unconditional-false predicate. An unmatched collection
// must show zero items, not all items.
func False() Predicate {
	return Predicate{Expr: "1=0"}
}

// IsZero reports whether the predicate carries no expression.
func (p Predicate) IsZero() bool {
	return strings.TrimSpace(p.Expr) == ""
}

// Or combines predicates into a parenthesised disjunction, skipping empty
// fragments. With no usable input it returns the zero predicate.
func Or(preds ...Predicate) Predicate {
	return combine(" OR ", preds)
}

// And combines predicates into a parenthesised conjunction, skipping empty
// fragments.
func And(preds ...Predicate) Predicate {
	return combine(" AND ", preds)
}

func combine(sep string, preds []Predicate) Predicate {
	exprs := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		if p.IsZero() {
			continue
		}
		exprs = append(exprs, "("+p.Expr+")")
		args = append(args, p.Args...)
	}
	if len(exprs) == 0 {
		return Predicate{}
	}
	if len(exprs) == 1 {
		return Predicate{Expr: exprs[0], Args: args}
	}
	return Predicate{Expr: "(" + strings.Join(exprs, sep) + ")", Args: args}
}

// BuildPredicate assembles the legacy membership predicate for the detected
// representations against the candidate variants. Columns must arrive
// qualified (e.g. "i.category"); they come from the introspector's closed
// candidate set, never from user input. Representations are OR-combined: a
// row matches when any of its populated legacy columns names the collection.
func BuildPredicate(dialect string, reps []schema.Representation, variantSet []string) Predicate {
	if len(reps) == 0 || len(variantSet) == 0 {
		return False()
	}

	parts := make([]Predicate, 0, len(reps))
	for _, rep := range reps {
		switch rep.Kind {
		case schema.KindScalar:
			parts = append(parts, scalarPredicate(rep.Column, variantSet))
		case schema.KindJSONArray:
			parts = append(parts, jsonArrayPredicate(dialect, rep.Column, variantSet))
		case schema.KindCSV:
			parts = append(parts, csvPredicate(dialect, rep.Column, variantSet))
		}
	}

	combined := Or(parts...)
	if combined.IsZero() {
		return False()
	}
	return combined
}

// scalarPredicate matches a single-value column by trimmed, case-insensitive
// equality against any variant.
func scalarPredicate(column string, variantSet []string) Predicate {
	parts := make([]Predicate, 0, len(variantSet))
	for _, variant := range variantSet {
		parts = append(parts, Predicate{
			Expr: "LOWER(TRIM(" + column + ")) = ?",
			Args: []any{variant},
		})
	}
	return Or(parts...)
}

// jsonArrayPredicate matches a JSON array column via the dialect's containment
// facility. Each variant is tested both verbatim and case-folded on the stored
// side so case-sensitive stores still match folded variants.
func jsonArrayPredicate(dialect, column string, variantSet []string) Predicate {
	switch dialect {
	case "sqlite":
		guard := Predicate{Expr: "json_valid(" + column + ") AND json_type(" + column + ") = 'array'"}
		parts := make([]Predicate, 0, len(variantSet))
		for _, variant := range variantSet {
			parts = append(parts, Predicate{
				Expr: "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value = ? OR LOWER(json_each.value) = ?)",
				Args: []any{variant, variant},
			})
		}
		return And(guard, Or(parts...))
	case "pg":
		guard := Predicate{Expr: "jsonb_typeof(" + column + "::jsonb) = 'array'"}
		parts := make([]Predicate, 0, len(variantSet))
		for _, variant := range variantSet {
			parts = append(parts, Predicate{
				Expr: "EXISTS (SELECT 1 FROM jsonb_array_elements_text(" + column + "::jsonb) AS elem(value) WHERE elem.value = ? OR LOWER(elem.value) = ?)",
				Args: []any{variant, variant},
			})
		}
		return And(guard, Or(parts...))
	case "mysql":
		guard := Predicate{Expr: "JSON_VALID(" + column + ")"}
		parts := make([]Predicate, 0, len(variantSet))
		for _, variant := range variantSet {
			parts = append(parts, Predicate{
				Expr: "JSON_CONTAINS(" + column + ", JSON_QUOTE(?)) OR JSON_CONTAINS(LOWER(" + column + "), JSON_QUOTE(?))",
				Args: []any{variant, variant},
			})
		}
		return And(guard, Or(parts...))
	default:
		// Unknown dialect: fall back to a quoted-substring scan over the raw
		// JSON text. Weaker than containment but still parameterised.
		parts := make([]Predicate, 0, len(variantSet))
		for _, variant := range variantSet {
			parts = append(parts, Predicate{
				Expr: "LOWER(" + column + ") LIKE ?",
				Args: []any{`%"` + variant + `"%`},
			})
		}
		return Or(parts...)
	}
}

// csvPredicate matches a free-text column holding comma separated names. Two
// tests run per variant to tolerate inconsistent delimiter use: a token match
// on the trimmed field and a wrapped-substring match on a space-stripped copy.
func csvPredicate(dialect, column string, variantSet []string) Predicate {
	tokenField := padCSV(dialect, "LOWER(TRIM("+column+"))")
	strippedField := padCSV(dialect, "REPLACE(LOWER("+column+"), ' ', '')")

	parts := make([]Predicate, 0, len(variantSet)*2)
	for _, variant := range variantSet {
		parts = append(parts, Predicate{
			Expr: tokenField + " LIKE ?",
			Args: []any{"%," + variant + ",%"},
		})
		parts = append(parts, Predicate{
			Expr: strippedField + " LIKE ?",
			Args: []any{"%," + strings.ReplaceAll(variant, " ", "") + ",%"},
		})
	}
	return Or(parts...)
}

// padCSV wraps a text expression in leading and trailing delimiters so token
// boundaries are explicit in the LIKE comparisons.
func padCSV(dialect, inner string) string {
	if dialect == "mysql" {
		return "CONCAT(',', " + inner + ", ',')"
	}
	return "(',' || " + inner + " || ',')"
}
