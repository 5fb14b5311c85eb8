package gormstore

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using '\' as
// the escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// searchClause matches title, content or answer against one escaped
// pattern, ignoring case. Postgres folds case with ILIKE; SQLite's LIKE
// already ignores ASCII case and compares other characters exactly.
func searchClause(dialect string) string {
	op := "LIKE"
	if dialect == DriverPostgres {
		op = "ILIKE"
	}
	return fmt.Sprintf(`(title %[1]s ? ESCAPE '\' OR content %[1]s ? ESCAPE '\' OR answer %[1]s ? ESCAPE '\')`, op)
}

// decrementFloorZero is the counter expression shared by every unlink path;
// a counter never goes below zero even if it drifted.
func decrementFloorZero(column string) string {
	return "CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END"
}
