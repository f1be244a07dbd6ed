package persistence

import (
	"strings"

	"github.com/quotevoice/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list endpoint may order by. Anything
// else falls back to created_at so user input never reaches the SQL text.
type sortColumns map[string]struct{}

func newSortColumns(names ...string) sortColumns {
	cols := make(sortColumns, len(names))
	for _, n := range names {
		cols[n] = struct{}{}
	}
	return cols
}

var (
	quoteSortColumns = newSortColumns(
		"created_at", "updated_at", "quote_number", "client_name", "status", "total",
	)
	invoiceSortColumns = newSortColumns(
		"created_at", "updated_at", "invoice_number", "client_name", "status", "total",
		"issue_date", "due_date",
	)
)

// orderBy resolves the requested column and direction. Descending is the
// default direction.
func (s sortColumns) orderBy(field, dir string) clause.OrderByColumn {
	column := "created_at"
	if f := strings.TrimSpace(field); f != "" {
		if _, ok := s[f]; ok {
			column = f
		}
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}

func paginate(query *gorm.DB, filter shared.Filter, cols sortColumns) *gorm.DB {
	return query.
		Order(cols.orderBy(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}
