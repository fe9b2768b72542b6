// Package apifilters translates raw request query parameters into a gorm
// query: filtering, sorting, field projection, full-text search and
// pagination, applied as builder steps before the query executes.
package apifilters

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// reservedKeys are query parameters with builder-level meaning; they are
// never interpreted as field filters.
var reservedKeys = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
	"search": {},
}

// operators maps a comparison suffix to its SQL operator.
var operators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// filterableColumns maps accepted query keys to job table columns. Keys not
// listed here are silently ignored rather than raising an error.
var filterableColumns = map[string]string{
	"title":      "title",
	"company":    "company",
	"industry":   "industry",
	"job_type":   "job_type",
	"jobType":    "job_type",
	"education":  "education",
	"experience": "experience",
	"salary":     "salary",
	"positions":  "positions",
	"last_date":  "last_date",
	"lastDate":   "last_date",
	"created_at": "created_at",
}

const DefaultPageSize = 10

// Builder wraps a pending query and the raw query-string mapping. The
// pending query is owned by the builder for the duration of one request and
// must be executed by the caller after all steps are applied.
type Builder struct {
	query    *gorm.DB
	params   url.Values
	pageSize int
}

func New(query *gorm.DB, params url.Values) *Builder {
	return &Builder{
		query:    query,
		params:   params,
		pageSize: DefaultPageSize,
	}
}

// WithPageSize overrides the default page size.
func (b *Builder) WithPageSize(size int) *Builder {
	if size > 0 {
		b.pageSize = size
	}
	return b
}

// Query returns the accumulated query for execution.
func (b *Builder) Query() *gorm.DB {
	return b.query
}

// Filter applies equality and comparison predicates for every
// non-reserved, recognized query key.
func (b *Builder) Filter() *Builder {
	for _, cond := range ParseConditions(b.params) {
		if len(cond.Values) == 1 {
			b.query = b.query.Where(fmt.Sprintf("%s %s ?", cond.Column, cond.Operator), cond.Values[0])
		} else {
			b.query = b.query.Where(fmt.Sprintf("%s IN ?", cond.Column), cond.Values)
		}
	}
	return b
}

// Sort orders results by the comma-separated sort fields ascending, or by
// descending creation order when no sort key is present.
func (b *Builder) Sort() *Builder {
	columns := ParseSort(b.params.Get("sort"))
	if len(columns) == 0 {
		b.query = b.query.Order("created_at DESC")
		return b
	}

	for _, col := range columns {
		b.query = b.query.Order(col + " ASC")
	}
	return b
}

// LimitFields projects exactly the requested columns when a fields key is
// present; otherwise the full row is selected.
func (b *Builder) LimitFields() *Builder {
	columns := ParseFields(b.params.Get("fields"))
	if len(columns) > 0 {
		b.query = b.query.Select(columns)
	}
	return b
}

// Search adds a full-text predicate over title and description when a
// search key is present.
func (b *Builder) Search() *Builder {
	term := strings.TrimSpace(b.params.Get("search"))
	if term == "" {
		return b
	}

	b.query = b.query.Where(
		"to_tsvector('english', title || ' ' || description) @@ plainto_tsquery('english', ?)",
		term,
	)
	return b
}

// Paginate applies skip/limit for the requested page.
func (b *Builder) Paginate() *Builder {
	limit, offset := PageWindow(b.params.Get("page"), b.params.Get("limit"), b.pageSize)
	b.query = b.query.Limit(limit).Offset(offset)
	return b
}

// Condition is one parsed filter predicate.
type Condition struct {
	Column   string
	Operator string
	Values   []string
}

// ParseConditions extracts filter predicates from the query mapping,
// dropping reserved keys and rewriting field[op] comparison keys into
// operator-qualified conditions. Unknown fields are ignored.
func ParseConditions(params url.Values) []Condition {
	conditions := make([]Condition, 0, len(params))

	for key, values := range params {
		if len(values) == 0 {
			continue
		}

		field, op := splitOperator(key)
		if _, reserved := reservedKeys[field]; reserved {
			continue
		}

		column, ok := filterableColumns[field]
		if !ok {
			continue
		}

		conditions = append(conditions, Condition{
			Column:   column,
			Operator: op,
			Values:   values,
		})
	}

	return conditions
}

// splitOperator parses keys of the form field[op]. A bare key (or an
// unrecognized suffix) means equality.
func splitOperator(key string) (field, operator string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, "="
	}

	suffix := key[open+1 : len(key)-1]
	op, ok := operators[suffix]
	if !ok {
		return key, "="
	}

	return key[:open], op
}

// ParseSort splits a sort value on commas and maps the entries to columns,
// ignoring unknown fields.
func ParseSort(value string) []string {
	if value == "" {
		return nil
	}

	var columns []string
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if column, ok := filterableColumns[field]; ok {
			columns = append(columns, column)
		}
	}
	return columns
}

// ParseFields splits a fields value on commas and maps the entries to
// columns. The row identifier is always included so results stay addressable.
func ParseFields(value string) []string {
	if value == "" {
		return nil
	}

	columns := []string{"id"}
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if column, ok := filterableColumns[field]; ok {
			columns = append(columns, column)
		}
	}
	if len(columns) == 1 {
		return nil
	}
	return columns
}

// PageWindow computes the limit/offset window for a page. Page defaults to
// 1; a positive limit parameter overrides the configured page size.
func PageWindow(pageValue, limitValue string, pageSize int) (limit, offset int) {
	page, err := strconv.Atoi(pageValue)
	if err != nil || page < 1 {
		page = 1
	}

	limit = pageSize
	if l, err := strconv.Atoi(limitValue); err == nil && l > 0 {
		limit = l
	}

	return limit, (page - 1) * limit
}
