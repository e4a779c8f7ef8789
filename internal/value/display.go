package value

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders v the way a script's `print` would (spec §4.3, §6
// "Display"). Composite kinds detect self-reference through a shared
// cell and print `(*cycle*)` rather than recursing forever.
func (v Value) String() string {
	var sb strings.Builder
	writeDisplay(&sb, v, map[any]bool{})
	return sb.String()
}

// Debug renders v the way a script's `debug` would: a top-level string or
// char is quoted; every other value renders as String does (spec §4.3).
func (v Value) Debug() string {
	var sb strings.Builder
	writeDebug(&sb, v, map[any]bool{})
	return sb.String()
}

func writeDisplay(sb *strings.Builder, v Value, seen map[any]bool) {
	v = v.readThroughShared()
	switch v.kind {
	case KindUnit:
		sb.WriteString("()")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.i != 0))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindDecimal:
		sb.WriteString(strconv.FormatFloat(v.f, 'f', -1, 64))
	case KindChar:
		sb.WriteRune(rune(v.i))
	case KindString:
		sb.WriteString(v.ref.(*InternedString).Value())
	case KindBlob:
		sb.WriteString(fmt.Sprintf("[blob of %d bytes]", len(v.ref.([]byte))))
	case KindArray:
		arr := v.ref.(*ArrayValue)
		if seen[arr] {
			sb.WriteString("(*cycle*)")
			return
		}
		seen[arr] = true
		sb.WriteByte('[')
		for i, e := range arr.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeDisplay(sb, e, seen)
		}
		sb.WriteByte(']')
		delete(seen, arr)
	case KindMap:
		m := v.ref.(*MapValue)
		if seen[m] {
			sb.WriteString("(*cycle*)")
			return
		}
		seen[m] = true
		sb.WriteString("#{")
		for i, k := range m.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			writeDisplay(sb, m.entries[k], seen)
		}
		sb.WriteByte('}')
		delete(seen, m)
	case KindFnPtr:
		fp := v.ref.(*FnPtr)
		sb.WriteString("Fn(")
		sb.WriteString(fp.name)
		sb.WriteByte(')')
	case KindTimestamp:
		sb.WriteString(v.ref.(fmt.Stringer).String())
	case KindForeign:
		fv := v.ref.(*ForeignValue)
		sb.WriteString(fv.TypeName)
	default:
		sb.WriteString("?")
	}
}

func writeDebug(sb *strings.Builder, v Value, seen map[any]bool) {
	v = v.readThroughShared()
	if v.kind == KindString {
		sb.WriteByte('"')
		sb.WriteString(v.ref.(*InternedString).Value())
		sb.WriteByte('"')
		return
	}
	if v.kind == KindChar {
		sb.WriteByte('\'')
		sb.WriteRune(rune(v.i))
		sb.WriteByte('\'')
		return
	}
	writeDisplay(sb, v, seen)
}
