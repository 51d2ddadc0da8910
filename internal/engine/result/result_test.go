package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	t.Run("success builder", func(t *testing.T) {
		c := New("quadratic_solve").
			Set("discriminant", 9.0).
			Step("Discriminant: b² − 4ac = %s", FormatNumber(9)).
			Math("result", "x = 1")

		assert.Equal(t, "ok", c.Status)
		assert.False(t, c.IsError())
		assert.Equal(t, 9.0, c.Payload["discriminant"])
		require.Len(t, c.Steps, 1)
		assert.Equal(t, "x = 1", c.Display["result"])
		assert.NotNil(t, c.PlotElements)
	})

	t.Run("error envelope", func(t *testing.T) {
		c := Error("limit", KindParse, "unknown symbol %q", "q")
		assert.True(t, c.IsError())
		assert.Equal(t, `unknown symbol "q"`, c.Payload["error"])
		assert.Equal(t, "parse", c.Payload["error_kind"])
		require.Len(t, c.Steps, 1)
		assert.Contains(t, c.Steps[0], "Error:")
	})
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{-2, "-2"},
		{0.5, "0.5"},
		{1.0 / 3.0, "0.3333"},
		{1234.5678, "1235"},
		{0, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatNumber(tc.in), "input %v", tc.in)
	}
}

func TestFormatComplex(t *testing.T) {
	assert.Equal(t, "3", FormatComplex(complex(3, 0)))
	assert.Equal(t, "2i", FormatComplex(complex(0, 2)))
	assert.Equal(t, "1 + 2i", FormatComplex(complex(1, 2)))
	assert.Equal(t, "1 - 2i", FormatComplex(complex(1, -2)))
}
