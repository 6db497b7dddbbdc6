package query

import (
	sq "github.com/Masterminds/squirrel"
)

// Condition is one optional filter criterion for a searchable entity.
type Condition interface {
	// Predicate returns the squirrel predicate for this criterion, or
	// ok=false when the criterion is absent and must not constrain the
	// result set.
	Predicate() (sq.Sqlizer, bool)
}

// Contains matches rows whose Column contains Value as a
// case-insensitive substring.
type Contains struct {
	Column string
	Value  string
}

func (c Contains) Predicate() (sq.Sqlizer, bool) {
	if c.Value == "" {
		return nil, false
	}
	return sq.ILike{c.Column: "%" + c.Value + "%"}, true
}

// MemberOf matches rows having at least one related row whose Column
// is in Values. Any-match over the join, not exact-set-match: a book
// tagged {Fantasy, Horror} matches a filter of {Horror}.
type MemberOf struct {
	// From is the related source, e.g.
	// "book_genres bg join genres g on g.id = bg.genre_id".
	From string
	// Link correlates the subquery to the outer row, e.g.
	// "bg.book_id = b.id".
	Link   string
	Column string
	Values []string
}

func (m MemberOf) Predicate() (sq.Sqlizer, bool) {
	if len(m.Values) == 0 {
		return nil, false
	}
	sub, args, err := sq.Select("1").
		From(m.From).
		Where(m.Link).
		Where(sq.Eq{m.Column: m.Values}).
		ToSql()
	if err != nil {
		return nil, false
	}
	return sq.Expr("EXISTS ("+sub+")", args...), true
}

// Apply folds every present condition into b with logical AND. Absent
// conditions leave b untouched, so a request without criteria selects
// everything.
func Apply(b sq.SelectBuilder, conds ...Condition) sq.SelectBuilder {
	for _, c := range conds {
		if p, ok := c.Predicate(); ok {
			b = b.Where(p)
		}
	}
	return b
}
