// File: internal/query/result.go
package query

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"devcamper/internal/database"
)

// Row 是一筆投影後的資料，巢狀欄位 (location.city) 會展開成子物件
type Row map[string]any

// Populator 在取得資料後補上關聯資源 (例如 bootcamp 的 courses)
type Populator func(ctx context.Context, db database.DB, rows []Row) error

type Options struct {
	Scope    []Scope
	Populate Populator
}

// PageRef swagger:model query.PageRef
type PageRef struct {
	Page  int `json:"page" example:"2"`
	Limit int `json:"limit" example:"10"`
}

// Pagination 只有在有上一頁或下一頁時才帶對應欄位
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Result 是列表端點的回應本體，由 handler 直接輸出
type Result struct {
	Success    bool       `json:"success" example:"true"`
	Count      int        `json:"count" example:"1"`
	Pagination Pagination `json:"pagination"`
	Data       []Row      `json:"data"`
}

// Run 解析參數並執行查詢
func Run(ctx context.Context, db database.DB, schema Schema, params url.Values, opts Options) (*Result, error) {
	q, err := Parse(params, schema)
	if err != nil {
		return nil, err
	}
	return Execute(ctx, db, schema, q, opts)
}

// Execute 執行已解析的查詢；total 與資料使用同一組條件計算
func Execute(ctx context.Context, db database.DB, schema Schema, q *Query, opts Options) (*Result, error) {
	st := q.build(schema, opts.Scope)

	var total int
	if err := db.QueryRow(ctx, st.count, st.countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("query.Execute count: %w", err)
	}

	rows, err := db.Query(ctx, st.list, st.args...)
	if err != nil {
		return nil, fmt.Errorf("query.Execute: %w", err)
	}
	defer rows.Close()

	data := make([]Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("query.Execute values: %w", err)
		}
		if len(values) != len(q.Select) {
			return nil, fmt.Errorf("query.Execute: expected %d columns, got %d", len(q.Select), len(values))
		}
		row := Row{}
		for i, f := range q.Select {
			row.set(f.Name, normalize(values[i]))
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query.Execute rows: %w", err)
	}

	if opts.Populate != nil && len(data) > 0 {
		if err := opts.Populate(ctx, db, data); err != nil {
			return nil, err
		}
	}

	res := &Result{Success: true, Count: len(data), Data: data}
	start := q.Offset()
	end := q.Page * q.Limit
	if end < total {
		res.Pagination.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if start > 0 {
		res.Pagination.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	return res, nil
}

func (r Row) set(name string, v any) {
	head, rest, nested := strings.Cut(name, ".")
	if !nested {
		r[head] = v
		return
	}
	child, ok := r[head].(Row)
	if !ok {
		child = Row{}
		r[head] = child
	}
	child.set(rest, v)
}

// Int 讀取整數欄位，供 Populator 比對關聯 ID
func (r Row) Int(name string) (int, bool) {
	switch n := r[name].(type) {
	case int:
		return n, true
	default:
		return 0, false
	}
}

// pgx 對 int4/int8 回傳 int32/int64，統一成 int
func normalize(v any) any {
	switch n := v.(type) {
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	default:
		return v
	}
}
