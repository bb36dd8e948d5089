/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
)

const emptyTable = "<empty>"

type tableRow struct {
	field string
	value string
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

// writeTable flattens data into FIELD/VALUE rows. Nested keys are joined
// with dots and slice elements are indexed, e.g. "[0].Name", "Inner.Field".
func writeTable(w io.Writer, data any) error {
	var rows []tableRow
	flatten("", reflect.ValueOf(data), true, &rows)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	if len(rows) == 0 {
		fmt.Fprintf(tw, "%s\t\n", emptyTable)
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.field, r.value)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func flatten(prefix string, v reflect.Value, root bool, rows *[]tableRow) {
	if !v.IsValid() {
		if prefix != "" {
			*rows = append(*rows, tableRow{prefix, "<nil>"})
		}
		return
	}

	if !root && v.Type().Implements(stringerType) && v.CanInterface() {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			*rows = append(*rows, tableRow{prefix, "<nil>"})
			return
		}
		*rows = append(*rows, tableRow{prefix, v.Interface().(fmt.Stringer).String()})
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			*rows = append(*rows, tableRow{prefix, "<nil>"})
			return
		}
		flatten(prefix, v.Elem(), root, rows)

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if f.Anonymous {
				flatten(prefix, v.Field(i), false, rows)
				continue
			}
			flatten(joinKey(prefix, f.Name), v.Field(i), false, rows)
		}

	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			flatten(joinKey(prefix, fmt.Sprint(k.Interface())), v.MapIndex(k), false, rows)
		}

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 && !root {
			*rows = append(*rows, tableRow{prefix, "[]"})
			return
		}
		for i := 0; i < v.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), false, rows)
		}

	default:
		*rows = append(*rows, tableRow{prefix, fmt.Sprint(v.Interface())})
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return strings.Join([]string{prefix, key}, ".")
}
