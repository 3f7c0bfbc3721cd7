package hosted

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// Tables implements ports.DataStoreProvider over the hosted table API. The
// backend enforces its own row policies for the bearer of each request.
type Tables struct {
	client *Client
}

func NewTables(client *Client) *Tables {
	return &Tables{client: client}
}

// ForSession returns a store authorised as the session's user. A nil
// session yields an anonymous store.
func (t *Tables) ForSession(session *domain.Session) ports.DataStore {
	s := &tableStore{client: t.client}
	if session != nil {
		s.token = session.AccessToken
	}
	return s
}

type tableStore struct {
	client *Client
	token  string
}

func (s *tableStore) Select(ctx context.Context, table string, q ports.Query) ([]ports.Row, error) {
	query := filterValues(q.Filters)
	sel := "*"
	if q.Embed != nil {
		sel += "," + q.Embed.Table + "(*)"
	}
	query.Set("select", sel)
	if q.Order != nil {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		query.Set("order", q.Order.Column+"."+dir)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var rows []ports.Row
	if err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   tablePath(table),
		query:  query,
		token:  s.token,
	}, &rows); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	if q.Embed != nil {
		for _, r := range rows {
			if _, ok := r[q.Embed.Table]; !ok {
				r[q.Embed.Table] = nil
			}
		}
	}
	return rows, nil
}

func (s *tableStore) Insert(ctx context.Context, table string, rows ...ports.Row) ([]ports.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	var out []ports.Row
	if err := s.client.do(ctx, request{
		method:  http.MethodPost,
		path:    tablePath(table),
		token:   s.token,
		body:    rows,
		headers: map[string]string{"Prefer": "return=representation"},
	}, &out); err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	return out, nil
}

func (s *tableStore) Update(ctx context.Context, table string, patch ports.Row, filters ...ports.Filter) error {
	if len(patch) == 0 {
		return nil
	}
	if err := s.client.do(ctx, request{
		method:  http.MethodPatch,
		path:    tablePath(table),
		query:   filterValues(filters),
		token:   s.token,
		body:    patch,
		headers: map[string]string{"Prefer": "return=minimal"},
	}, nil); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

func (s *tableStore) Delete(ctx context.Context, table string, filters ...ports.Filter) error {
	if err := s.client.do(ctx, request{
		method: http.MethodDelete,
		path:   tablePath(table),
		query:  filterValues(filters),
		token:  s.token,
	}, nil); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func tablePath(table string) string {
	return "/rest/v1/" + url.PathEscape(table)
}

// filterValues renders filters in the table API's operator syntax:
// col=eq.value and col=in.("a","b").
func filterValues(filters []ports.Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		switch f.Op {
		case ports.OpIn:
			values, _ := f.Value.([]string)
			quoted := make([]string, len(values))
			for i, s := range values {
				quoted[i] = strconv.Quote(s)
			}
			v.Add(f.Column, "in.("+strings.Join(quoted, ",")+")")
		default:
			v.Add(f.Column, "eq."+fmt.Sprint(f.Value))
		}
	}
	return v
}
