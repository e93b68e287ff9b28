package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// decodeAPI keeps numbers as json.Number so integer literals are not
// squeezed through float64.
var decodeAPI = sonic.Config{UseNumber: true}.Froze()

// EncodeJSON renders n as JSON. Object members keep insertion order. With
// indent set, nested values are indented by two spaces.
func EncodeJSON(n *Node, indent bool) ([]byte, error) {
	var sb strings.Builder
	step := ""
	if indent {
		step = "  "
	}
	if err := writeJSON(&sb, n, step, 0); err != nil {
		return nil, err
	}
	if indent {
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// MarshalJSON lets a Node be embedded in values handed to sonic or
// encoding/json.
func (n *Node) MarshalJSON() ([]byte, error) {
	return EncodeJSON(n, false)
}

// UnmarshalJSON replaces n with the decoded document.
func (n *Node) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

func writeJSON(sb *strings.Builder, n *Node, step string, depth int) error {
	switch n.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if n.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(n.num)
	case KindString:
		quoted, err := sonic.Marshal(n.str)
		if err != nil {
			return fmt.Errorf("encode string: %w", err)
		}
		sb.Write(quoted)
	case KindArray:
		if len(n.items) == 0 {
			sb.WriteString("[]")
			return nil
		}
		sb.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			newline(sb, step, depth+1)
			if err := writeJSON(sb, it, step, depth+1); err != nil {
				return err
			}
		}
		newline(sb, step, depth)
		sb.WriteByte(']')
	case KindObject:
		if len(n.members) == 0 {
			sb.WriteString("{}")
			return nil
		}
		sb.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			newline(sb, step, depth+1)
			key, err := sonic.Marshal(m.Key)
			if err != nil {
				return fmt.Errorf("encode key %q: %w", m.Key, err)
			}
			sb.Write(key)
			sb.WriteByte(':')
			if step != "" {
				sb.WriteByte(' ')
			}
			if err := writeJSON(sb, m.Value, step, depth+1); err != nil {
				return fmt.Errorf("%s: %w", m.Key, err)
			}
		}
		newline(sb, step, depth)
		sb.WriteByte('}')
	default:
		return fmt.Errorf("unknown node kind %d", n.Kind())
	}
	return nil
}

func newline(sb *strings.Builder, step string, depth int) {
	if step == "" {
		return
	}
	sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		sb.WriteString(step)
	}
}

// DecodeJSON parses data into a document. Object keys come back sorted:
// JSON object order carries no meaning for persisted documents.
func DecodeJSON(data []byte) (*Node, error) {
	var raw interface{}
	if err := decodeAPI.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return fromInterface(raw)
}

func fromInterface(v interface{}) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String())
	case float64:
		return Float(t), nil
	case int64:
		return Int(t), nil
	case []interface{}:
		arr := Array()
		for i, it := range t {
			child, err := fromInterface(it)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr.Append(child)
		}
		return arr, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := Object()
		for _, k := range keys {
			child, err := fromInterface(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj.Set(k, child)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported decoded value %T", v)
	}
}
