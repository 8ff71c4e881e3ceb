package containers

import (
	"strings"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	overviewView = "container_overview"
	allFilter    = "all"

	SortRecent = "recent"
)

// sortColumns is the allow-list of sort keys accepted from the query string.
var sortColumns = map[string]string{
	"number":      "container_number",
	"client":      "client_name",
	"start_date":  "start_date",
	"status":      "status",
	"item_count":  "item_count",
	"used_volume": "used_volume",
}

// ListQuery is the list screen state as sent by the caller.
type ListQuery struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	ClientID  string `form:"client_id" binding:"omitempty,uuid|eq=all"`
	Sort      string `form:"sort"`
	Direction string `form:"direction"`
}

func (q ListQuery) Pagination() repository.Pagination {
	return repository.NewPagination(q.Page, q.PageSize, repository.DefaultPageSizes)
}

// Filters holds the user selected equality filters. "all" and empty values
// are no filter.
func (q ListQuery) Filters() *repository.Conditions {
	filters := repository.NewQueryBuilder()
	if status := strings.ToLower(strings.TrimSpace(q.Status)); status != "" && status != allFilter {
		filters.AddCondition("status", status)
	}
	if clientID := strings.TrimSpace(q.ClientID); clientID != "" && clientID != allFilter {
		filters.AddCondition("client_id", clientID)
	}
	return filters
}

// SearchExpression matches the term anywhere in the container number or
// the client name, case-insensitively. Nil when there is nothing to search.
func (q ListQuery) SearchExpression() exp.Expression {
	term := strings.TrimSpace(q.Search)
	if term == "" {
		return nil
	}
	pattern := "%" + escapeLike(term) + "%"
	return goqu.Or(
		goqu.C("container_number").ILike(pattern),
		goqu.C("client_name").ILike(pattern),
	)
}

// OrderBy resolves the sort key against the allow-list. Unknown keys fall
// back to the most recent containers first; id keeps pages stable.
func (q ListQuery) OrderBy() []exp.OrderedExpression {
	column, ok := sortColumns[q.Sort]
	if !ok || q.Sort == SortRecent {
		return []exp.OrderedExpression{goqu.C("start_date").Desc(), goqu.C("id").Asc()}
	}

	primary := goqu.C(column).Asc()
	if strings.EqualFold(q.Direction, "desc") {
		primary = goqu.C(column).Desc()
	}
	return []exp.OrderedExpression{primary, goqu.C("id").Asc()}
}

// Apply narrows base by the scope, the equality filters and the search term.
// The result carries no ordering or paging so it can also be counted.
func (q ListQuery) Apply(base *goqu.SelectDataset, scope repository.QueryBuilder) *goqu.SelectDataset {
	query := repository.ApplyConditions(base, nil, scope, q.Filters())
	if search := q.SearchExpression(); search != nil {
		query = query.Where(search)
	}
	return query
}

// Build returns the page query and the count query for the same filters.
func (q ListQuery) Build(base *goqu.SelectDataset, scope repository.QueryBuilder) (page *goqu.SelectDataset, count *goqu.SelectDataset) {
	filtered := q.Apply(base, scope)
	pagination := q.Pagination()

	page = filtered.
		Order(q.OrderBy()...).
		Limit(pagination.Limit()).
		Offset(pagination.Offset())

	return page, filtered
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
