package query

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/libris/library-service/library/internal/errs"
)

// DefaultSort is applied when the caller supplies no sort parameter.
const DefaultSort = "id, asc"

// OrderBy is a validated single-key ordering instruction.
type OrderBy struct {
	Column string
	Desc   bool
}

func (o OrderBy) String() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// ParseSort parses a "field, direction" string. The direction must be
// exactly "asc" or "desc"; anything else is a validation failure, not
// a silent default. The field is resolved against the entity's
// sortable set (caller-visible name -> SQL column), which keeps
// unknown names out of ORDER BY.
func ParseSort(s string, sortable map[string]string) (OrderBy, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return OrderBy{}, errors.Wrapf(errs.ErrInvalidSort, "want \"field, direction\", got %q", s)
	}
	field := strings.TrimSpace(parts[0])
	dir := strings.TrimSpace(parts[1])

	col, ok := sortable[field]
	if !ok {
		return OrderBy{}, errors.Wrapf(errs.ErrInvalidSort, "unknown sort field %q", field)
	}
	switch dir {
	case "asc":
		return OrderBy{Column: col}, nil
	case "desc":
		return OrderBy{Column: col, Desc: true}, nil
	default:
		return OrderBy{}, errors.Wrapf(errs.ErrInvalidSort, "invalid sort direction %q", dir)
	}
}
