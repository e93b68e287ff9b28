package serializer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-funscripter/internal/core/document"
	"github.com/penwyp/go-funscripter/internal/util"
)

type mode int32

const (
	modeFull mode = iota
	modeLeft
	modeRight
)

func (m mode) Valid() bool { return m >= modeFull && m <= modeRight }

type level uint8

type point struct {
	At  int64 `fs:"at"`
	Pos int32 `fs:"pos"`
}

type meta struct {
	Title string   `fs:"title"`
	Tags  []string `fs:"tags"`
}

type script struct {
	Version  string            `fs:"version"`
	Inverted bool              `fs:"inverted"`
	Range    int               `fs:"range"`
	Mode     mode              `fs:"mode,enum"`
	Level    level             `fs:"level,enum"`
	Speed    float32           `fs:"speed"`
	Points   []point           `fs:"actions"`
	Meta     *meta             `fs:"metadata"`
	Extra    map[string]string `fs:"extra"`
	Cache    []byte            `fs:"-"`
	internal int
}

type base struct {
	ID string `fs:"id"`
}

type withEmbedded struct {
	base
	Name string `fs:"name"`
}

func newTestSerializer() (*Serializer, *util.MemoryOutput) {
	logger := util.NewNopLogger()
	logger.SetLevel(util.LevelDebug)
	mem := util.NewMemoryOutput(0)
	logger.AddOutput(mem)
	return New(WithLogger(logger)), mem
}

func sampleScript() script {
	return script{
		Version:  "1.0",
		Inverted: true,
		Range:    90,
		Mode:     modeRight,
		Level:    3,
		Speed:    0.1,
		Points:   []point{{At: 0, Pos: 0}, {At: 500, Pos: 100}},
		Meta:     &meta{Title: "demo", Tags: []string{"a", "b"}},
		Extra:    map[string]string{"z": "1", "a": "2"},
		Cache:    []byte{1},
		internal: 7,
	}
}

func TestSerializeWritesTaggedMembersInOrder(t *testing.T) {
	s, _ := newTestSerializer()
	n, err := s.Serialize(sampleScript())
	require.NoError(t, err)

	assert.Equal(t, []string{"version", "inverted", "range", "mode", "level", "speed", "actions", "metadata", "extra"}, n.Keys())

	m, _ := n.Get("mode")
	lit, err := m.Literal()
	require.NoError(t, err)
	assert.Equal(t, "2", lit)

	speed, _ := n.Get("speed")
	lit, err = speed.Literal()
	require.NoError(t, err)
	assert.Equal(t, "0.1", lit)

	extra, _ := n.Get("extra")
	assert.Equal(t, []string{"a", "z"}, extra.Keys())

	assert.Equal(t,
		`{"at":0,"pos":0}`,
		func() string { a, _ := n.Get("actions"); return a.Index(0).String() }())
}

func TestRoundTrip(t *testing.T) {
	s, mem := newTestSerializer()
	orig := sampleScript()
	n, err := s.Serialize(orig)
	require.NoError(t, err)

	var back script
	rep, err := s.DeserializeReport(&back, n)
	require.NoError(t, err)
	assert.False(t, rep.HasWarnings())
	assert.Empty(t, mem.Messages("WARN"))

	orig.Cache = nil
	orig.internal = 0
	assert.Equal(t, orig, back)
}

func TestRoundTripThroughJSON(t *testing.T) {
	orig := sampleScript()
	n, err := Serialize(orig)
	require.NoError(t, err)
	data, err := document.EncodeJSON(n, true)
	require.NoError(t, err)

	decoded, err := document.DecodeJSON(data)
	require.NoError(t, err)
	var back script
	require.NoError(t, Deserialize(&back, decoded))
	assert.Equal(t, orig.Points, back.Points)
	assert.Equal(t, orig.Meta, back.Meta)
	assert.Equal(t, orig.Speed, back.Speed)
}

func TestMissingFieldsKeepDefaultsAndWarn(t *testing.T) {
	s, mem := newTestSerializer()
	n := document.Object().
		Set("version", document.String("1.0")).
		Set("actions", document.Array())

	dst := script{Range: 100, Inverted: true}
	rep, err := s.DeserializeReport(&dst, n)
	require.NoError(t, err)

	assert.Equal(t, 100, dst.Range)
	assert.True(t, dst.Inverted)
	assert.Equal(t, "1.0", dst.Version)
	assert.Contains(t, rep.Missing, "range")
	assert.Contains(t, rep.Missing, "inverted")
	assert.Contains(t, mem.Messages("WARN"), `The field "range" was not found.`)
}

func TestUnknownKeysIgnored(t *testing.T) {
	s, _ := newTestSerializer()
	n := document.Object().Set("at", document.Int(5)).Set("pos", document.Int(7)).Set("type", document.String("x"))

	var p point
	rep, err := s.DeserializeReport(&p, n)
	require.NoError(t, err)
	assert.Equal(t, point{At: 5, Pos: 7}, p)
	assert.Equal(t, []string{"type"}, rep.Unknown)
}

func TestTypeMismatchFailsWithoutTouchingSiblings(t *testing.T) {
	s, _ := newTestSerializer()
	n := document.Object().Set("at", document.String("late")).Set("pos", document.Int(42))

	p := point{At: 1}
	err := s.Deserialize(&p, n)
	require.Error(t, err)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "at", fe.Path)
	var shape *document.ShapeError
	assert.ErrorAs(t, err, &shape)

	assert.Equal(t, int64(1), p.At)
	assert.Equal(t, int32(42), p.Pos)
}

func TestRangeErrors(t *testing.T) {
	tests := []struct {
		name string
		node *document.Node
	}{
		{name: "overflow int32", node: document.Object().Set("at", document.Int(0)).Set("pos", document.Int(math.MaxInt32+1))},
		{name: "fraction into int", node: document.Object().Set("at", document.Float(1.5)).Set("pos", document.Int(0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p point
			err := Deserialize(&p, tt.node)
			assert.Error(t, err)
		})
	}

	var p point
	err := Deserialize(&p, document.Object().Set("at", document.Int(0)).Set("pos", document.Int(math.MaxInt32+1)))
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "2147483648", re.Value)
}

func TestEnumHandling(t *testing.T) {
	s, _ := newTestSerializer()

	dst := script{Mode: modeLeft}
	err := s.Deserialize(&dst, document.Object().Set("mode", document.Int(9)))
	var ee *EnumError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, int64(9), ee.Value)
	assert.Equal(t, modeLeft, dst.Mode)

	// Types without a validator pass any in-range value through.
	require.NoError(t, s.Deserialize(&dst, document.Object().Set("level", document.Int(200))))
	assert.Equal(t, level(200), dst.Level)

	err = s.Deserialize(&dst, document.Object().Set("level", document.Int(300)))
	var re *RangeError
	assert.ErrorAs(t, err, &re)
}

func TestSliceReadStopsAtFirstFailure(t *testing.T) {
	n := document.Object().Set("actions", document.Array(
		document.Object().Set("at", document.Int(1)).Set("pos", document.Int(1)),
		document.Object().Set("at", document.String("bad")).Set("pos", document.Int(2)),
		document.Object().Set("at", document.Int(3)).Set("pos", document.Int(3)),
	))
	dst := script{Points: []point{{At: 99}}}

	err := Deserialize(&dst, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actions[1].at")
	// The failing element is kept with the members that could be read.
	assert.Equal(t, []point{{At: 1, Pos: 1}, {At: 0, Pos: 2}}, dst.Points)
}

func TestFixedArrays(t *testing.T) {
	var arr [2]int
	require.NoError(t, Deserialize(&arr, document.Array(document.Int(1), document.Int(2))))
	assert.Equal(t, [2]int{1, 2}, arr)

	err := Deserialize(&arr, document.Array(document.Int(3), document.Int(4), document.Int(5)))
	assert.Error(t, err)
	assert.Equal(t, [2]int{3, 4}, arr)
}

func TestPointersAndNull(t *testing.T) {
	dst := script{Meta: &meta{Title: "old"}}
	require.NoError(t, Deserialize(&dst, document.Object().Set("metadata", document.Null())))
	assert.Nil(t, dst.Meta)

	require.NoError(t, Deserialize(&dst, document.Object().Set("metadata", document.Object().Set("title", document.String("new")).Set("tags", document.Array()))))
	require.NotNil(t, dst.Meta)
	assert.Equal(t, "new", dst.Meta.Title)
	assert.Empty(t, dst.Meta.Tags)
}

func TestEmbeddedStructsFlatten(t *testing.T) {
	n, err := Serialize(withEmbedded{base: base{ID: "x"}, Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, n.Keys())

	var back withEmbedded
	require.NoError(t, Deserialize(&back, n))
	assert.Equal(t, "x", back.ID)
}

func TestInterfacesAndNodes(t *testing.T) {
	type holder struct {
		Any  interface{}    `fs:"any"`
		Raw  *document.Node `fs:"raw"`
		NaNs float64        `fs:"nan"`
	}
	src := holder{
		Any:  map[string]interface{}{"k": []interface{}{int64(1), "two"}},
		Raw:  document.Object().Set("x", document.Bool(true)),
		NaNs: math.NaN(),
	}
	n, err := Serialize(src)
	require.NoError(t, err)

	nan, _ := n.Get("nan")
	assert.True(t, nan.IsNull())

	var back holder
	require.NoError(t, Deserialize(&back, n))
	assert.Equal(t, src.Any, back.Any)
	assert.True(t, document.Equal(src.Raw, back.Raw))
	assert.True(t, math.IsNaN(back.NaNs))
}

func TestUnsupportedTypesAggregate(t *testing.T) {
	type bad struct {
		Fn   func()      `fs:"fn"`
		Ch   chan int    `fs:"ch"`
		Keys map[int]int `fs:"keys"`
		OK   string      `fs:"ok"`
	}
	n, err := Serialize(bad{OK: "yes"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)

	ok, found := n.Get("ok")
	require.True(t, found)
	s, _ := ok.AsString()
	assert.Equal(t, "yes", s)
}

func TestDeserializeRejectsNonPointer(t *testing.T) {
	var p point
	assert.Error(t, Deserialize(p, document.Object()))
	assert.Error(t, Deserialize((*point)(nil), document.Object()))
	assert.Error(t, Deserialize(&p, document.Array()))
}

func TestRegisterValidatesTags(t *testing.T) {
	require.NoError(t, Register(script{}, &withEmbedded{}))

	type dup struct {
		A int `fs:"x"`
		B int `fs:"x"`
	}
	assert.Error(t, Register(dup{}))

	type badEnum struct {
		S string `fs:"s,enum"`
	}
	assert.Error(t, Register([]badEnum{}))

	type badOpt struct {
		S string `fs:"s,omitempty"`
	}
	assert.Error(t, Register(badOpt{}))
	assert.Error(t, Register(nil))
}
