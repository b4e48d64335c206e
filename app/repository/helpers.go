package repository

import "strings"

// orderClause builds a safe ORDER BY from a sort-field whitelist. Unknown
// fields fall back to the default column, unknown orders to DESC.
func orderClause(whitelist map[string]string, opts ListOptions, defaultColumn string) string {
	column := defaultColumn
	if mapped, ok := whitelist[opts.SortBy]; ok {
		column = mapped
	}
	order := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		order = "ASC"
	}
	return column + " " + order
}
