package aggregate

import (
	"fmt"
	"strings"
)

// SQL renders the spec as a single Postgres SELECT against table. Output
// columns come in spec order: group keys (aliased by field name), metrics,
// then derived ratios, each aliased by its metric name. Currency reductions
// are rounded to two places and the ratio division is CASE-guarded, so the
// statement reproduces Execute's semantics server-side.
func SQL(spec Spec, table string) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}

	var sel, group []string
	exprs := map[string]string{} // metric name -> unrounded aggregate expression

	for _, k := range spec.GroupKeys {
		expr := k.Field
		if k.TruncMonth {
			expr = fmt.Sprintf("DATE_TRUNC('month', %s)::date", k.Field)
		}
		sel = append(sel, fmt.Sprintf("%s AS %s", expr, k.Field))
		group = append(group, expr)
	}

	for _, m := range spec.Metrics {
		var expr string
		switch m.Reducer {
		case Sum:
			expr = fmt.Sprintf("COALESCE(SUM(%s), 0)", m.Field)
		case Avg:
			expr = fmt.Sprintf("COALESCE(AVG(%s), 0)", m.Field)
		case Count:
			field := m.Field
			if field == "" {
				field = "*"
			}
			expr = fmt.Sprintf("COUNT(%s)", field)
		case CountDistinct:
			expr = fmt.Sprintf("COUNT(DISTINCT %s)", m.Field)
		}
		exprs[m.Name] = expr

		out := expr
		if currencyFields[m.Field] && (m.Reducer == Sum || m.Reducer == Avg) {
			out = fmt.Sprintf("ROUND(%s, 2)", expr)
		}
		sel = append(sel, fmt.Sprintf("%s AS %s", out, m.Name))
	}

	for _, d := range spec.Derived {
		num, den := exprs[d.Numerator], exprs[d.Denominator]
		sel = append(sel, fmt.Sprintf(
			"CASE WHEN %s > 0 THEN ROUND(%s / %s * %d, 2) ELSE 0 END AS %s",
			den, num, den, d.Scale, d.Name))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(sel, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)
	if len(group) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(group, ", "))
	}
	if order := orderClause(spec); order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	return b.String(), nil
}

// orderClause renders OrderBy plus the ascending group key tie-break.
func orderClause(spec Spec) string {
	var parts []string
	ordered := map[string]bool{}
	for _, o := range spec.OrderBy {
		p := o.Field
		if o.Desc {
			p += " DESC"
		}
		parts = append(parts, p)
		ordered[o.Field] = true
	}
	for _, k := range spec.GroupKeys {
		if !ordered[k.Field] {
			parts = append(parts, k.Field)
		}
	}
	return strings.Join(parts, ", ")
}
