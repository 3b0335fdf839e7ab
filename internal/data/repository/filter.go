package repository

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE pattern matching it as a literal substring.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) next() string {
	return fmt.Sprintf("$%d", len(w.args)+1)
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(w.args))))
}

// addSearch matches one pattern argument against any of the given columns.
func (w *whereBuilder) addSearch(search string, columns ...string) {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return
	}
	w.args = append(w.args, containsPattern(search))
	placeholder := fmt.Sprintf("$%d", len(w.args))

	ors := make([]string, len(columns))
	for i, col := range columns {
		ors[i] = fmt.Sprintf("%s ILIKE %s", col, placeholder)
	}
	w.conds = append(w.conds, "("+strings.Join(ors, " OR ")+")")
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
