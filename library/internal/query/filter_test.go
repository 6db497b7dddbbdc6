package query_test

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"

	"github.com/libris/library-service/library/internal/query"
)

func TestContains_Predicate(t *testing.T) {
	t.Parallel()

	t.Run("empty value is neutral", func(t *testing.T) {
		t.Parallel()
		_, ok := query.Contains{Column: "b.title", Value: ""}.Predicate()
		require.False(t, ok)
	})

	t.Run("wraps value for substring match", func(t *testing.T) {
		t.Parallel()
		p, ok := query.Contains{Column: "b.title", Value: "Go"}.Predicate()
		require.True(t, ok)
		sql, args, err := p.ToSql()
		require.NoError(t, err)
		require.Equal(t, "b.title ILIKE ?", sql)
		require.Equal(t, []interface{}{"%Go%"}, args)
	})
}

func TestMemberOf_Predicate(t *testing.T) {
	t.Parallel()
	m := query.MemberOf{
		From:   "book_genres bg join genres g on g.id = bg.genre_id",
		Link:   "bg.book_id = b.id",
		Column: "g.name",
	}

	t.Run("empty set is neutral", func(t *testing.T) {
		t.Parallel()
		_, ok := m.Predicate()
		require.False(t, ok)
	})

	t.Run("any match over the join", func(t *testing.T) {
		t.Parallel()
		m := m
		m.Values = []string{"Fantasy", "Horror"}
		p, ok := m.Predicate()
		require.True(t, ok)
		sql, args, err := p.ToSql()
		require.NoError(t, err)
		require.Equal(t,
			"EXISTS (SELECT 1 FROM book_genres bg join genres g on g.id = bg.genre_id WHERE bg.book_id = b.id AND g.name IN (?,?))",
			sql)
		require.Equal(t, []interface{}{"Fantasy", "Horror"}, args)
	})
}

func TestApply(t *testing.T) {
	t.Parallel()
	base := sq.Select("b.id").From("books b")

	t.Run("no criteria selects everything", func(t *testing.T) {
		t.Parallel()
		sql, args, err := query.Apply(base,
			query.Contains{Column: "b.title", Value: ""},
			query.MemberOf{From: "book_genres bg", Link: "bg.book_id = b.id", Column: "g.name"},
		).ToSql()
		require.NoError(t, err)
		require.Equal(t, "SELECT b.id FROM books b", sql)
		require.Empty(t, args)
	})

	t.Run("present criteria are ANDed", func(t *testing.T) {
		t.Parallel()
		sql, args, err := query.Apply(base,
			query.Contains{Column: "b.title", Value: "go"},
			query.Contains{Column: "a.surname", Value: "kern"},
		).ToSql()
		require.NoError(t, err)
		require.Equal(t, "SELECT b.id FROM books b WHERE b.title ILIKE ? AND a.surname ILIKE ?", sql)
		require.Equal(t, []interface{}{"%go%", "%kern%"}, args)
	})
}
