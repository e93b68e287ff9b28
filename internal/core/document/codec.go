package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Codec converts between bytes and a document tree.
type Codec interface {
	Name() string
	Encode(n *Node) ([]byte, error)
	Decode(data []byte) (*Node, error)
}

type jsonCodec struct{ indent bool }

func (c jsonCodec) Name() string                      { return "json" }
func (c jsonCodec) Encode(n *Node) ([]byte, error)    { return EncodeJSON(n, c.indent) }
func (c jsonCodec) Decode(data []byte) (*Node, error) { return DecodeJSON(data) }

type yamlCodec struct{}

func (yamlCodec) Name() string                      { return "yaml" }
func (yamlCodec) Encode(n *Node) ([]byte, error)    { return EncodeYAML(n) }
func (yamlCodec) Decode(data []byte) (*Node, error) { return DecodeYAML(data) }

var (
	// JSON writes indented JSON.
	JSON Codec = jsonCodec{indent: true}
	// CompactJSON writes JSON without whitespace.
	CompactJSON Codec = jsonCodec{}
	YAML        Codec = yamlCodec{}
)

// CodecForPath picks a codec from the file extension.
func CodecForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".funscript":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return nil, fmt.Errorf("no document codec for %q", filepath.Ext(path))
	}
}
