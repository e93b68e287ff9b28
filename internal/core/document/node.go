// Package document implements the self-describing tree the serializer maps
// Go values onto: null, bool, number, string, array and object nodes.
package document

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is a single document tree value. The zero value and the nil pointer
// are both null. Numbers keep their literal text so integers of any width
// survive a round trip.
type Node struct {
	kind    Kind
	b       bool
	num     string
	str     string
	items   []*Node
	members []Member
}

// ShapeError reports a node of the wrong kind.
type ShapeError struct {
	Want Kind
	Got  Kind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
}

func Null() *Node {
	return &Node{kind: KindNull}
}

func Bool(b bool) *Node {
	return &Node{kind: KindBool, b: b}
}

func Int(i int64) *Node {
	return &Node{kind: KindNumber, num: strconv.FormatInt(i, 10)}
}

func Uint(u uint64) *Node {
	return &Node{kind: KindNumber, num: strconv.FormatUint(u, 10)}
}

// Float stores f using the shortest representation that parses back to
// the same float64. NaN and infinities have no document form and become null.
func Float(f float64) *Node {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return &Node{kind: KindNumber, num: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number wraps a numeric literal. It returns an error when lit is not a
// valid JSON number.
func Number(lit string) (*Node, error) {
	if !isNumberLiteral(lit) {
		return nil, fmt.Errorf("invalid number literal %q", lit)
	}
	return &Node{kind: KindNumber, num: lit}, nil
}

func String(s string) *Node {
	return &Node{kind: KindString, str: s}
}

// Array creates an array node holding items in order.
func Array(items ...*Node) *Node {
	n := &Node{kind: KindArray, items: make([]*Node, 0, len(items))}
	for _, it := range items {
		n.items = append(n.items, orNull(it))
	}
	return n
}

// Object creates an empty object node.
func Object() *Node {
	return &Node{kind: KindObject}
}

func orNull(n *Node) *Node {
	if n == nil {
		return Null()
	}
	return n
}

// Kind returns the node variant; nil is null.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsNull() bool {
	return n.Kind() == KindNull
}

// Set stores v under key, replacing an existing member in place so keys stay
// unique. It returns n so calls can be chained. Set on a non-object is a no-op.
func (n *Node) Set(key string, v *Node) *Node {
	if n.Kind() != KindObject {
		return n
	}
	v = orNull(v)
	for i := range n.members {
		if n.members[i].Key == key {
			n.members[i].Value = v
			return n
		}
	}
	n.members = append(n.members, Member{Key: key, Value: v})
	return n
}

// Get returns the member stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind() != KindObject {
		return nil, false
	}
	for _, m := range n.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Delete removes key from an object, reporting whether it was present.
func (n *Node) Delete(key string) bool {
	if n.Kind() != KindObject {
		return false
	}
	for i, m := range n.members {
		if m.Key == key {
			n.members = append(n.members[:i], n.members[i+1:]...)
			return true
		}
	}
	return false
}

// Keys lists object keys in insertion order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	keys := make([]string, len(n.members))
	for i, m := range n.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns a copy of the object members in insertion order.
func (n *Node) Members() []Member {
	if n.Kind() != KindObject {
		return nil
	}
	out := make([]Member, len(n.members))
	copy(out, n.members)
	return out
}

// Append adds v to an array node. Append on a non-array is a no-op.
func (n *Node) Append(v *Node) *Node {
	if n.Kind() != KindArray {
		return n
	}
	n.items = append(n.items, orNull(v))
	return n
}

// Len is the number of array items or object members.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindArray:
		return len(n.items)
	case KindObject:
		return len(n.members)
	default:
		return 0
	}
}

// Index returns the i-th array item, or nil when out of range.
func (n *Node) Index(i int) *Node {
	if n.Kind() != KindArray || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Items returns a copy of the array items.
func (n *Node) Items() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}

func (n *Node) AsBool() (bool, error) {
	if n.Kind() != KindBool {
		return false, &ShapeError{Want: KindBool, Got: n.Kind()}
	}
	return n.b, nil
}

func (n *Node) AsString() (string, error) {
	if n.Kind() != KindString {
		return "", &ShapeError{Want: KindString, Got: n.Kind()}
	}
	return n.str, nil
}

// Literal returns the number literal as stored.
func (n *Node) Literal() (string, error) {
	if n.Kind() != KindNumber {
		return "", &ShapeError{Want: KindNumber, Got: n.Kind()}
	}
	return n.num, nil
}

// AsInt64 parses the number as a signed integer. Literals such as "3.0" or
// "1e3" are accepted when they denote an exact integer.
func (n *Node) AsInt64() (int64, error) {
	lit, err := n.Literal()
	if err != nil {
		return 0, err
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("number %s is not an int64", lit)
	}
	return int64(f), nil
}

// AsUint64 parses the number as an unsigned integer.
func (n *Node) AsUint64() (uint64, error) {
	lit, err := n.Literal()
	if err != nil {
		return 0, err
	}
	if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return u, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
		return 0, fmt.Errorf("number %s is not a uint64", lit)
	}
	return uint64(f), nil
}

func (n *Node) AsFloat64() (float64, error) {
	lit, err := n.Literal()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("number %s is not a float64: %w", lit, err)
	}
	return f, nil
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{kind: n.kind, b: n.b, num: n.num, str: n.str}
	if n.items != nil {
		c.items = make([]*Node, len(n.items))
		for i, it := range n.items {
			c.items[i] = it.Clone()
		}
	}
	if n.members != nil {
		c.members = make([]Member, len(n.members))
		for i, m := range n.members {
			c.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return c
}

// Equal reports structural equality. Object member order is ignored and
// numbers compare by value.
func Equal(a, b *Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.str == b.str
	case KindNumber:
		if a.num == b.num {
			return true
		}
		ai, aerr := a.AsInt64()
		bi, berr := b.AsInt64()
		if aerr == nil && berr == nil {
			return ai == bi
		}
		af, aerr := a.AsFloat64()
		bf, berr := b.AsFloat64()
		return aerr == nil && berr == nil && af == bf
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for _, m := range a.members {
			other, ok := b.Get(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// SortKeys orders object members by key, recursively.
func (n *Node) SortKeys() {
	switch n.Kind() {
	case KindObject:
		sort.SliceStable(n.members, func(i, j int) bool {
			return n.members[i].Key < n.members[j].Key
		})
		for _, m := range n.members {
			m.Value.SortKeys()
		}
	case KindArray:
		for _, it := range n.items {
			it.SortKeys()
		}
	}
}

// String renders the node as compact JSON, for logs and test failures.
func (n *Node) String() string {
	var sb strings.Builder
	if err := writeJSON(&sb, n, "", 0); err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return sb.String()
}

func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '-' {
		i++
		if i == len(s) {
			return false
		}
	}
	if s[i] == '0' {
		i++
	} else if s[i] >= '1' && s[i] <= '9' {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	} else {
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}
