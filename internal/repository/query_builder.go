package repository

import "github.com/doug-martin/goqu/v9"

type QueryBuilder interface {
	BuildConditions(aliases map[string]string) goqu.Ex
}

// Conditions is a set of equality filters keyed by logical field name.
// Aliases passed to BuildConditions map the logical name onto a column.
type Conditions struct {
	conditions map[string]interface{}
}

func NewQueryBuilder() *Conditions {
	return &Conditions{
		conditions: make(map[string]interface{}),
	}
}

func (q *Conditions) AddCondition(key string, value interface{}) {
	q.conditions[key] = value
}

func (q *Conditions) HasConditions() bool {
	return len(q.conditions) > 0
}

func (q *Conditions) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}
	for key, value := range q.conditions {
		if alias, ok := aliases[key]; ok {
			conditions[alias] = value
		} else {
			conditions[key] = value
		}
	}
	return conditions
}

// ApplyConditions adds each non-empty builder as its own WHERE group, so two
// builders filtering the same column are ANDed instead of overwriting each other.
func ApplyConditions(query *goqu.SelectDataset, aliases map[string]string, builders ...QueryBuilder) *goqu.SelectDataset {
	for _, builder := range builders {
		if builder == nil {
			continue
		}
		if conditions := builder.BuildConditions(aliases); len(conditions) > 0 {
			query = query.Where(conditions)
		}
	}
	return query
}
