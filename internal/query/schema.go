// File: internal/query/schema.go
package query

import (
	"strings"
)

// Kind 欄位型別，決定 filter 值如何解析與可用的運算子
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Bool
	Time
	TextArray
)

// Field 對應 API 欄位名稱與資料表欄位；Name 可用 "." 表示巢狀物件 (例如 location.state)
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

// Schema 描述一個可被列表查詢的資料表
type Schema struct {
	Table  string
	Fields []Field
}

const (
	idField      = "id"
	createdField = "createdAt"
)

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// project 回傳 select 名稱對應的欄位；"location" 這類前綴會展開成所有子欄位
func (s Schema) project(name string) []Field {
	if f, ok := s.field(name); ok {
		return []Field{f}
	}
	var out []Field
	prefix := name + "."
	for _, f := range s.Fields {
		if strings.HasPrefix(f.Name, prefix) {
			out = append(out, f)
		}
	}
	return out
}
