package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Table: "bootcamps",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: Int},
		{Name: "name", Column: "name", Kind: Text},
		{Name: "averageCost", Column: "average_cost", Kind: Float},
		{Name: "housing", Column: "housing", Kind: Bool},
		{Name: "careers", Column: "careers", Kind: TextArray},
		{Name: "location.city", Column: "city", Kind: Text},
		{Name: "location.state", Column: "state", Kind: Text},
		{Name: "createdAt", Column: "created_at", Kind: Time},
	},
}

func mustParse(t *testing.T, raw string) *Query {
	t.Helper()
	params, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := Parse(params, testSchema)
	require.NoError(t, err)
	return q
}

func TestParseDefaults(t *testing.T) {
	q := mustParse(t, "")
	require.Empty(t, q.Filters)
	require.Equal(t, testSchema.Fields, q.Select)
	require.Equal(t, []SortKey{{Field: testSchema.Fields[7], Desc: true}}, q.Sort)
	require.Equal(t, DefaultPage, q.Page)
	require.Equal(t, DefaultLimit, q.Limit)
	require.Equal(t, 0, q.Offset())
}

func TestParsePagination(t *testing.T) {
	q := mustParse(t, "page=3&limit=10")
	require.Equal(t, 3, q.Page)
	require.Equal(t, 10, q.Limit)
	require.Equal(t, 20, q.Offset())

	for _, raw := range []string{"page=0&limit=-1", "page=abc&limit=1.5"} {
		q := mustParse(t, raw)
		require.Equal(t, DefaultPage, q.Page, raw)
		require.Equal(t, DefaultLimit, q.Limit, raw)
	}

	q = mustParse(t, "limit=50000")
	require.Equal(t, MaxLimit, q.Limit)
}

func TestParsePaginationHugePage(t *testing.T) {
	q := mustParse(t, "page=9223372036854775807&limit=2")
	require.Equal(t, 2, q.Limit)
	require.GreaterOrEqual(t, q.Offset(), 0)
	require.Positive(t, q.Page*q.Limit)
	require.Greater(t, q.Page*q.Limit, q.Offset())
}

func TestParseFilters(t *testing.T) {
	q := mustParse(t, "select=name&sort=name&page=1&limit=5&averageCost[gte]=100&housing=true&name=Dev&careers=Business&location.state=MA")
	require.Equal(t, []Filter{
		{Field: testSchema.Fields[2], Op: OpGte, Value: 100.0},
		{Field: testSchema.Fields[4], Op: OpEq, Value: "Business"},
		{Field: testSchema.Fields[3], Op: OpEq, Value: true},
		{Field: testSchema.Fields[6], Op: OpEq, Value: "MA"},
		{Field: testSchema.Fields[1], Op: OpEq, Value: "Dev"},
	}, q.Filters)
}

func TestParseInFilter(t *testing.T) {
	q := mustParse(t, "id[in]=1,2,3&careers[in]=UI/UX,Business&createdAt[lt]=2024-01-02")
	require.Len(t, q.Filters, 3)
	require.Equal(t, []string{"UI/UX", "Business"}, q.Filters[0].Value)
	require.Equal(t, OpLt, q.Filters[1].Op)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), q.Filters[1].Value)
	require.Equal(t, []int{1, 2, 3}, q.Filters[2].Value)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "price=1",
		"unknown operator": "averageCost[ne]=1",
		"malformed key":    "averageCost[gt=1",
		"empty name":       "[gt]=1",
		"bad float":        "averageCost[gt]=abc",
		"bad int in list":  "id[in]=1,x",
		"int out of range": "id[gt]=3000000000",
		"bad bool":         "housing=maybe",
		"range on bool":    "housing[gt]=true",
		"range on array":   "careers[lt]=a",
		"bad time":         "createdAt[gt]=yesterday",
		"unknown select":   "select=name,price",
		"unknown sort":     "sort=-price",
		"sort on array":    "sort=careers",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			params, err := url.ParseQuery(raw)
			require.NoError(t, err)
			_, err = Parse(params, testSchema)
			require.ErrorIs(t, err, ErrBadQuery)
		})
	}
}

func TestParseSelect(t *testing.T) {
	q := mustParse(t, "select=name,location,name")
	names := make([]string, len(q.Select))
	for i, f := range q.Select {
		names[i] = f.Name
	}
	require.Equal(t, []string{"id", "name", "location.city", "location.state"}, names)
}

func TestParseSort(t *testing.T) {
	q := mustParse(t, "sort=name,-averageCost")
	require.Equal(t, []SortKey{
		{Field: testSchema.Fields[1]},
		{Field: testSchema.Fields[2], Desc: true},
	}, q.Sort)
}

func TestBuild(t *testing.T) {
	q := mustParse(t, "select=name&sort=-averageCost&page=2&limit=10&averageCost[lte]=500&careers[in]=A,B&id[in]=4,5")
	st := q.build(testSchema, []Scope{{Column: "user_id", Value: 7}})

	require.Equal(t,
		"SELECT id, name FROM bootcamps WHERE user_id = $1 AND average_cost <= $2 AND careers && $3 AND id = ANY($4) ORDER BY average_cost DESC, id ASC LIMIT $5 OFFSET $6",
		st.list)
	require.Equal(t,
		"SELECT COUNT(*) FROM bootcamps WHERE user_id = $1 AND average_cost <= $2 AND careers && $3 AND id = ANY($4)",
		st.count)
	require.Equal(t, []any{7, 500.0, []string{"A", "B"}, []int{4, 5}, 10, 10}, st.args)
	require.Equal(t, []any{7, 500.0, []string{"A", "B"}, []int{4, 5}}, st.countArgs)
}

func TestBuildArrayMembershipAndIDSort(t *testing.T) {
	q := mustParse(t, "careers=Business&sort=-id")
	st := q.build(testSchema, nil)
	require.Equal(t,
		"SELECT id, name, average_cost, housing, careers, city, state, created_at FROM bootcamps WHERE $1 = ANY(careers) ORDER BY id DESC LIMIT $2 OFFSET $3",
		st.list)
	require.Equal(t, "SELECT COUNT(*) FROM bootcamps WHERE $1 = ANY(careers)", st.count)
}

func TestBuildNoFilters(t *testing.T) {
	q := mustParse(t, "select=name")
	st := q.build(testSchema, nil)
	require.Equal(t, "SELECT id, name FROM bootcamps ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2", st.list)
	require.Equal(t, "SELECT COUNT(*) FROM bootcamps", st.count)
	require.Empty(t, st.countArgs)
}
