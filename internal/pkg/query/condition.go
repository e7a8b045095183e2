package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	// and must advance by exactly len(params) for the next condition.
	SQL(paramIndex int) (string, map[string]interface{})
}

// compareCondition implements binary comparison (field <op> value).
type compareCondition struct {
	field string
	op    string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "active") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Gte creates a WHERE condition for an inclusive lower bound.
// Example: Gte("effective_price", r) generates "effective_price >= @p0"
func Gte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

// Lte creates a WHERE condition for an inclusive upper bound.
// Example: Lte("rating", 4.0) generates "rating <= @p0"
func Lte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<=", value: value}
}

// SQL generates the SQL fragment for the comparison.
func (c *compareCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s %s @%s", c.field, c.op, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// inCondition implements set membership against an array parameter.
type inCondition struct {
	field  string
	values []string
}

// In creates a WHERE condition for set membership.
// Example: In("brand_id", []string{"a", "b"}) generates "brand_id IN UNNEST(@p0)"
func In(field string, values []string) Condition {
	return &inCondition{field: field, values: values}
}

// SQL generates the SQL fragment for set membership.
func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName)
	return sql, map[string]interface{}{paramName: c.values}
}

// containsFoldCondition implements case-insensitive substring matching.
type containsFoldCondition struct {
	field string
	term  string
	array bool
}

// ContainsFold creates a case-insensitive substring match on a string column.
// Example: ContainsFold("name", "Pad") generates "LOWER(name) LIKE @p0" with "%pad%"
func ContainsFold(field, term string) Condition {
	return &containsFoldCondition{field: field, term: term}
}

// ArrayContainsFold matches when any element of an ARRAY<STRING> column
// contains term, ignoring case.
func ArrayContainsFold(field, term string) Condition {
	return &containsFoldCondition{field: field, term: term, array: true}
}

// SQL generates the SQL fragment for the substring match.
func (c *containsFoldCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	var sql string
	if c.array {
		sql = fmt.Sprintf("EXISTS(SELECT 1 FROM UNNEST(%s) AS elem WHERE LOWER(elem) LIKE @%s)", c.field, paramName)
	} else {
		sql = fmt.Sprintf("LOWER(%s) LIKE @%s", c.field, paramName)
	}
	return sql, map[string]interface{}{paramName: likePattern(c.term)}
}

// orCondition joins conditions with OR.
type orCondition struct {
	conditions []Condition
}

// Or creates a disjunction of conditions.
// Example: Or(Eq("a", 1), Eq("b", 2)) generates "(a = @p0 OR b = @p1)"
func Or(conditions ...Condition) Condition {
	return &orCondition{conditions: conditions}
}

// SQL generates the SQL fragment for the disjunction. An empty disjunction
// matches nothing.
func (c *orCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	if len(c.conditions) == 0 {
		return "FALSE", map[string]interface{}{}
	}
	parts := make([]string, 0, len(c.conditions))
	params := make(map[string]interface{})
	for _, cond := range c.conditions {
		fragment, condParams := cond.SQL(paramIndex)
		parts = append(parts, fragment)
		for k, v := range condParams {
			params[k] = v
		}
		paramIndex += len(condParams)
	}
	return "(" + strings.Join(parts, " OR ") + ")", params
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
