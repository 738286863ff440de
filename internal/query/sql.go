// File: internal/query/sql.go
package query

import (
	"fmt"
	"strings"
)

// Scope 是由呼叫端固定的等值條件 (例如巢狀路由的 bootcamp_id)，不受使用者參數影響
type Scope struct {
	Column string
	Value  any
}

type statements struct {
	list      string
	count     string
	args      []any
	countArgs []any
}

// build 產生 list 與 count 兩個 SQL；兩者共用相同的 WHERE 條件
func (q *Query) build(schema Schema, scope []Scope) statements {
	var (
		where []string
		args  []any
	)
	param := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, s := range scope {
		where = append(where, s.Column+" = "+param(s.Value))
	}
	for _, f := range q.Filters {
		where = append(where, predicate(f, param))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	cols := make([]string, len(q.Select))
	for i, f := range q.Select {
		cols[i] = f.Column
	}

	countArgs := append([]any(nil), args...)
	list := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT %s OFFSET %s",
		strings.Join(cols, ", "),
		schema.Table,
		whereSQL,
		orderBy(q.Sort, schema),
		param(q.Limit),
		param(q.Offset()),
	)

	return statements{
		list:      list,
		count:     fmt.Sprintf("SELECT COUNT(*) FROM %s%s", schema.Table, whereSQL),
		args:      args,
		countArgs: countArgs,
	}
}

func predicate(f Filter, param func(any) string) string {
	col := f.Field.Column
	if f.Field.Kind == TextArray {
		if f.Op == OpIn {
			return col + " && " + param(f.Value)
		}
		return param(f.Value) + " = ANY(" + col + ")"
	}

	switch f.Op {
	case OpGt:
		return col + " > " + param(f.Value)
	case OpGte:
		return col + " >= " + param(f.Value)
	case OpLt:
		return col + " < " + param(f.Value)
	case OpLte:
		return col + " <= " + param(f.Value)
	case OpIn:
		return col + " = ANY(" + param(f.Value) + ")"
	default:
		return col + " = " + param(f.Value)
	}
}

// orderBy 以 id 作為最後排序鍵，確保相同參數的結果順序固定
func orderBy(keys []SortKey, schema Schema) string {
	parts := make([]string, 0, len(keys)+1)
	hasID := false
	for _, k := range keys {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, k.Field.Column+" "+dir)
		if k.Field.Name == idField {
			hasID = true
		}
	}
	if !hasID {
		if id, ok := schema.field(idField); ok {
			parts = append(parts, id.Column+" ASC")
		}
	}
	return strings.Join(parts, ", ")
}
