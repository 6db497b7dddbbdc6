package query_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/query"
)

func TestParseSort(t *testing.T) {
	t.Parallel()
	sortable := map[string]string{
		"id":              "b.id",
		"bookName":        "b.title",
		"authorFirstName": "a.first_name",
	}

	var tests = []struct {
		name    string
		sort    string
		want    query.OrderBy
		wantErr bool
	}{
		{
			name: "default",
			sort: query.DefaultSort,
			want: query.OrderBy{Column: "b.id"},
		},
		{
			name: "mapped field asc",
			sort: "bookName, asc",
			want: query.OrderBy{Column: "b.title"},
		},
		{
			name: "desc without space",
			sort: "authorFirstName,desc",
			want: query.OrderBy{Column: "a.first_name", Desc: true},
		},
		{
			name:    "unknown field",
			sort:    "passwordHash, asc",
			wantErr: true,
		},
		{
			name:    "injection attempt",
			sort:    "id; drop table books--, asc",
			wantErr: true,
		},
		{
			name:    "bad direction word",
			sort:    "bookName, up",
			wantErr: true,
		},
		{
			name:    "uppercase direction rejected",
			sort:    "id, ASC",
			wantErr: true,
		},
		{
			name:    "missing direction",
			sort:    "id",
			wantErr: true,
		},
		{
			name:    "too many tokens",
			sort:    "id, asc, desc",
			wantErr: true,
		},
		{
			name:    "empty",
			sort:    "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := query.ParseSort(tt.sort, sortable)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, errs.ErrInvalidSort))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOrderBy_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "b.id ASC", query.OrderBy{Column: "b.id"}.String())
	require.Equal(t, "b.id DESC", query.OrderBy{Column: "b.id", Desc: true}.String())
}
