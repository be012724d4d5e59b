package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind_Coercion(t *testing.T) {
	desc := Descriptor{
		Name: "test.bind",
		Options: []Option{
			{Name: "s", Type: TypeString},
			{Name: "b", Type: TypeBool},
			{Name: "i", Type: TypeInt},
			{Name: "n", Type: TypeNumber},
			{Name: "o", Type: TypeObject},
			{Name: "a", Type: TypeStringArray},
			{Name: "d", Type: TypeInt, Default: int64(10)},
		},
	}

	opts, err := Bind(desc, map[string]any{
		"s":     float64(3),
		"b":     "true",
		"i":     float64(42),
		"n":     json.Number("1.5"),
		"o":     map[string]any{"k": "v"},
		"a":     []any{"x", "y"},
		"extra": "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "3", opts.String("s"))
	assert.True(t, opts.Bool("b"))
	assert.Equal(t, int64(42), opts.Int("i"))
	assert.Equal(t, 1.5, opts.Float("n"))
	assert.Equal(t, map[string]any{"k": "v"}, opts.Object("o"))
	assert.Equal(t, []string{"x", "y"}, opts.Strings("a"))
	assert.Equal(t, int64(10), opts.Int("d"))
	assert.False(t, opts.Has("extra"))
}

func TestBind_CoercionFailures(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		val  any
	}{
		{"bool from word", Option{Name: "b", Type: TypeBool}, "maybe"},
		{"int from fraction", Option{Name: "i", Type: TypeInt}, 1.5},
		{"int from text", Option{Name: "i", Type: TypeInt}, "ten"},
		{"number from bool", Option{Name: "n", Type: TypeNumber}, true},
		{"object from string", Option{Name: "o", Type: TypeObject}, "{}"},
		{"array with number", Option{Name: "a", Type: TypeStringArray}, []any{"x", 1.0}},
		{"string from map", Option{Name: "s", Type: TypeString}, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind(Descriptor{Options: []Option{tt.opt}}, map[string]any{tt.opt.Name: tt.val})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.opt.Name, verr.Option)
			assert.Contains(t, verr.Error(), tt.opt.Name)
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Equal(t, StatusOK, FromError(nil).Status)
	assert.Equal(t, StatusBadRequest, FromError(MissingRequired("key")).Status)
	assert.Equal(t, StatusNotFound, FromError(&NotFoundError{Name: "x"}).Status)
	assert.Equal(t, StatusInternalError, FromError(assert.AnError).Status)
}
