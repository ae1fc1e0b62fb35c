package jsdata

import "fmt"

// Kind identifies the type of a literal value.
type Kind uint8

const (
	Null Kind = iota
	String
	Number
	Bool
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a JavaScript literal read from a data script.
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Bool   bool
	Items  []Value // Array elements in source order.
	Fields []Field // Object members in source order.
	Line   int     // 1-based line where the literal starts.
}

// Field is one member of an object literal.
type Field struct {
	Key   string
	Value Value
}

// IsNull reports whether v is the null literal.
func (v Value) IsNull() bool { return v.Kind == Null }

// Get returns the first object member with the given key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Script holds the variables assigned by a data script, in declaration order.
type Script struct {
	Names []string
	vars  map[string]Value
}

// Lookup returns the value assigned to name. A later assignment to the same
// name replaces an earlier one.
func (s *Script) Lookup(name string) (Value, bool) {
	if s == nil || s.vars == nil {
		return Value{}, false
	}
	v, ok := s.vars[name]
	return v, ok
}

func (s *Script) set(name string, v Value) {
	if s.vars == nil {
		s.vars = make(map[string]Value)
	}
	if _, ok := s.vars[name]; !ok {
		s.Names = append(s.Names, name)
	}
	s.vars[name] = v
}
