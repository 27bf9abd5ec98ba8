package model

import "encoding/json"

// Nullable 部分更新中可以置空的字段
//
// 三种状态：请求中未出现（Set=false）、显式 null（Set=true, Value=nil）、有值。
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some 有值
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null 显式 null
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON 字段出现即视为 Set，null 清空 Value
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON 未设置或 null 都输出 null
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Interface 返回 Value（*T），供校验器取值
func (n Nullable[T]) Interface() any {
	return n.Value
}
