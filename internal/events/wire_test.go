package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameLayout(t *testing.T) {
	framed := Frame(258, []byte(`{"a":1}`))
	require.Equal(t, []byte{0, 0, 0, 1, 2}, framed[:5])
	require.Equal(t, `{"a":1}`, string(framed[5:]))

	id, payload, err := Unframe(framed)
	require.NoError(t, err)
	require.Equal(t, 258, id)
	require.JSONEq(t, `{"a":1}`, string(payload))

	payload[0] = 'x'
	require.Equal(t, byte('{'), framed[5], "payload is copied out of the frame")
}

func TestUnframeRejectsMalformedValues(t *testing.T) {
	for name, value := range map[string][]byte{
		"short":      {0, 0, 1},
		"magic byte": append([]byte{9}, Frame(1, []byte(`{}`))[1:]...),
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Unframe(value)
			require.ErrorIs(t, err, ErrBadFrame)
		})
	}
}

func TestUnframeAcceptsEmptyPayload(t *testing.T) {
	id, payload, err := Unframe(Frame(7, nil))
	require.NoError(t, err)
	require.Equal(t, 7, id)
	require.Empty(t, payload)
}
