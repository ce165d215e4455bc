package repository

import "strings"

// prefixColumns 给列清单加上表别名前缀，"id, name" -> "r.id, r.name"
func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
