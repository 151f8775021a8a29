// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// List wraps zero or more nested objects (any *ListResponse).
type List struct {
	Objects    []Object
	TotalCount int64
}

func (*List) Kind() Kind { return KindList }

// Entries returns the Entry objects in list order.
func (l *List) Entries() []*Entry {
	var out []*Entry
	for _, o := range l.Objects {
		if e, ok := o.(*Entry); ok {
			out = append(out, e)
		}
	}
	return out
}

// LastEntry returns the last Entry in the list, nil when there is none.
func (l *List) LastEntry() *Entry {
	entries := l.Entries()
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1]
}

// Metadata returns the Metadata objects in list order.
func (l *List) Metadata() []*Metadata {
	var out []*Metadata
	for _, o := range l.Objects {
		if md, ok := o.(*Metadata); ok {
			out = append(out, md)
		}
	}
	return out
}

func matchList(f Fragment) bool {
	m, ok := asMap(f)
	return ok && hasArray(m, "objects")
}

// buildList parses each element with the same mapper. Elements that do not
// parse are dropped; order is preserved.
func buildList(mp *Mapper, f Fragment) (Object, error) {
	m, _ := asMap(f)
	items, ok := m["objects"].([]any)
	if !ok {
		return nil, fmt.Errorf("list: objects is %T", m["objects"])
	}
	l := &List{Objects: make([]Object, 0, len(items))}
	for _, item := range items {
		if obj := mp.Parse(item); obj != nil {
			l.Objects = append(l.Objects, obj)
		}
	}
	var total FlexInt64
	if raw, ok := m["totalCount"]; ok {
		if err := decodeInto(raw, &total); err == nil {
			l.TotalCount = int64(total)
		}
	}
	return l, nil
}
