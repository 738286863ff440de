// File: internal/query/query.go
package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ErrBadQuery 查詢參數無法解析時回傳，handler 會轉為 400
var ErrBadQuery = errors.New("invalid query")

// reserved 這些參數不會被當成 filter
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Op 是 filter 支援的比較運算子
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

var operators = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// Filter 是一個已型別化的條件
type Filter struct {
	Field Field
	Op    Op
	Value any
}

type SortKey struct {
	Field Field
	Desc  bool
}

// Query 由請求參數解析而來，不含任何原始字串拼接
type Query struct {
	Filters []Filter
	Select  []Field
	Sort    []SortKey
	Page    int
	Limit   int
}

// Offset 回傳分頁起點
func (q *Query) Offset() int { return (q.Page - 1) * q.Limit }

func badQuery(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadQuery, fmt.Sprintf(format, args...))
}

// Parse 將 URL 參數依 schema 轉成 Query
func Parse(params url.Values, schema Schema) (*Query, error) {
	q := &Query{
		Page:  positiveInt(params.Get("page"), DefaultPage),
		Limit: min(positiveInt(params.Get("limit"), DefaultLimit), MaxLimit),
	}
	// Page*Limit 不可溢位
	if maxPage := math.MaxInt / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		name, op, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		field, ok := schema.field(name)
		if !ok {
			return nil, badQuery("unknown field %q", name)
		}
		for _, raw := range params[key] {
			value, err := parseValue(field, op, raw)
			if err != nil {
				return nil, err
			}
			q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
		}
	}

	if sel := params.Get("select"); sel != "" {
		fields, err := parseSelect(sel, schema)
		if err != nil {
			return nil, err
		}
		q.Select = fields
	} else {
		q.Select = schema.Fields
	}

	sortParam := params.Get("sort")
	if sortParam == "" {
		sortParam = "-" + createdField
	}
	keysSort, err := parseSort(sortParam, schema)
	if err != nil {
		return nil, err
	}
	q.Sort = keysSort

	return q, nil
}

// splitKey 解析 "field" 或 "field[op]"
func splitKey(key string) (string, Op, error) {
	name, rest, found := strings.Cut(key, "[")
	if !found {
		return key, OpEq, nil
	}
	opName, ok := strings.CutSuffix(rest, "]")
	if !ok || name == "" {
		return "", "", badQuery("malformed filter %q", key)
	}
	op, ok := operators[opName]
	if !ok {
		return "", "", badQuery("unsupported operator %q", opName)
	}
	return name, op, nil
}

func parseValue(f Field, op Op, raw string) (any, error) {
	if op == OpIn {
		parts := strings.Split(raw, ",")
		if f.Kind == TextArray {
			return parts, nil
		}
		return parseList(f, parts)
	}

	switch f.Kind {
	case Bool, TextArray:
		if op != OpEq {
			return nil, badQuery("operator %s not supported on %q", op, f.Name)
		}
	}
	if f.Kind == TextArray {
		return raw, nil
	}
	return parseScalar(f, raw)
}

func parseScalar(f Field, raw string) (any, error) {
	switch f.Kind {
	case Int:
		// 欄位為 PostgreSQL INTEGER
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, badQuery("%q expects an integer", f.Name)
		}
		return int(n), nil
	case Float:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, badQuery("%q expects a number", f.Name)
		}
		return n, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, badQuery("%q expects true or false", f.Name)
		}
		return b, nil
	case Time:
		t, err := parseTime(raw)
		if err != nil {
			return nil, badQuery("%q expects a RFC3339 time or date", f.Name)
		}
		return t, nil
	default:
		return raw, nil
	}
}

// parseList 將 in 的每個值轉成同型別 slice，讓 pgx 以陣列參數傳遞
func parseList(f Field, parts []string) (any, error) {
	switch f.Kind {
	case Int:
		out := make([]int, 0, len(parts))
		for _, p := range parts {
			v, err := parseScalar(f, p)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int))
		}
		return out, nil
	case Float:
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := parseScalar(f, p)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(float64))
		}
		return out, nil
	case Bool:
		out := make([]bool, 0, len(parts))
		for _, p := range parts {
			v, err := parseScalar(f, p)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(bool))
		}
		return out, nil
	case Time:
		out := make([]time.Time, 0, len(parts))
		for _, p := range parts {
			v, err := parseScalar(f, p)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(time.Time))
		}
		return out, nil
	default:
		return parts, nil
	}
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func parseSelect(raw string, schema Schema) ([]Field, error) {
	seen := map[string]bool{}
	var out []Field
	add := func(f Field) {
		if !seen[f.Name] {
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	// id 永遠回傳
	if id, ok := schema.field(idField); ok {
		add(id)
	}
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fields := schema.project(name)
		if len(fields) == 0 {
			return nil, badQuery("unknown field %q", name)
		}
		for _, f := range fields {
			add(f)
		}
	}
	return out, nil
}

func parseSort(raw string, schema Schema) ([]SortKey, error) {
	var out []SortKey
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		f, ok := schema.field(name)
		if !ok {
			return nil, badQuery("cannot sort by %q", name)
		}
		if f.Kind == TextArray {
			return nil, badQuery("cannot sort by %q", name)
		}
		out = append(out, SortKey{Field: f, Desc: desc})
	}
	return out, nil
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
