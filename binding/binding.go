// Package binding fills ${...} placeholders, used for output file names such
// as "mondrian-${seed}-${resolution}.png".
package binding

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnresolved is returned by Strict when a placeholder has no value.
var ErrUnresolved = errors.New("binding: unresolved placeholder")

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 或 ${path|%05d} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := expand(text, data)
	return out
}

// Strict behaves like Interpolate but reports every placeholder it could not fill.
func Strict(text string, data any) (string, error) {
	out, missing := expand(text, data)
	if len(missing) > 0 {
		return out, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}
	return out, nil
}

// Placeholders lists the paths referenced by text, in order of appearance.
func Placeholders(text string) []string {
	var paths []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		path, _ := splitFormat(groups[1])
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

func expand(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path, format := splitFormat(groups[1])
		if path == "" {
			return match
		}
		val, ok := resolvePath(data, path)
		if !ok {
			missing = append(missing, path)
			return match
		}
		if format != "" {
			return fmt.Sprintf(format, val)
		}
		return fmt.Sprint(val)
	})
	return out, missing
}

func splitFormat(expr string) (path, format string) {
	path = expr
	if i := strings.IndexByte(expr, '|'); i != -1 {
		path, format = expr[:i], strings.TrimSpace(expr[i+1:])
	}
	return strings.TrimSpace(path), format
}

func resolvePath(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendKey(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendIndex(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	var indexes []string
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 && rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

// descendKey 支持 map[string]T 与导出的结构体字段。
func descendKey(current any, key string) (any, bool) {
	if m, ok := current.(map[string]any); ok {
		val, ok := m[key]
		return val, ok
	}
	v := indirect(reflect.ValueOf(current))
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		f := v.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, key) })
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

func descendIndex(current any, idx int) (any, bool) {
	v := indirect(reflect.ValueOf(current))
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if idx < 0 || idx >= v.Len() {
			return nil, false
		}
		return v.Index(idx).Interface(), true
	}
	return nil, false
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
