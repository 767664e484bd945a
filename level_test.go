package chirp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/chirp"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  chirp.Level
		err   error
	}{
		"debug":             {input: "debug", want: chirp.LevelDebug},
		"log":               {input: "log", want: chirp.LevelLog},
		"info":              {input: "info", want: chirp.LevelInfo},
		"warning":           {input: "warning", want: chirp.LevelWarning},
		"warn alias":        {input: "warn", want: chirp.LevelWarning},
		"assert":            {input: "assert", want: chirp.LevelAssert},
		"error":             {input: "error", want: chirp.LevelError},
		"exception":         {input: "exception", want: chirp.LevelException},
		"upper case":        {input: "ERROR", want: chirp.LevelError},
		"surrounding space": {input: " info ", want: chirp.LevelInfo},
		"ordinal":           {input: "3", want: chirp.LevelWarning},
		"last ordinal":      {input: "6", want: chirp.LevelException},
		"ordinal too large": {input: "7", err: chirp.ErrUnknownLevel},
		"unknown":           {input: "fatal", err: chirp.ErrUnknownLevel},
		"empty":             {input: "", err: chirp.ErrUnknownLevel},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := chirp.ParseLevel(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"debug", "log", "info", "warning", "assert", "error", "exception"},
		chirp.GetAllLevelStrings())

	for i, l := range chirp.AllLevels() {
		assert.Equal(t, chirp.Level(i), l)
		assert.True(t, l.Valid())
		assert.Equal(t, chirp.GetAllLevelStrings()[i], l.String())
	}

	assert.False(t, chirp.Level(7).Valid())
	assert.Equal(t, "level(7)", chirp.Level(7).String())
	assert.Equal(t, "level(-1)", chirp.Level(-1).String())
}

func TestLevelText(t *testing.T) {
	t.Parallel()

	b, err := chirp.LevelAssert.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "assert", string(b))

	var l chirp.Level

	require.NoError(t, l.UnmarshalText([]byte("Warning")))
	assert.Equal(t, chirp.LevelWarning, l)

	require.ErrorIs(t, l.UnmarshalText([]byte("loud")), chirp.ErrUnknownLevel)
	assert.Equal(t, chirp.LevelWarning, l, "failed unmarshal leaves the level unchanged")

	_, err = chirp.Level(42).MarshalText()
	require.ErrorIs(t, err, chirp.ErrUnknownLevel)
}
