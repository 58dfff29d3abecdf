package scan

import (
	"context"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_SessionsEndWithDecode(t *testing.T) {
	svc := NewService(newTestDecoder(t), &mockMerger{}, zap.NewNop())
	frame := FrameFromImage(qrImage(t, "milk"))

	for i := 0; i < 20; i++ {
		text, err := svc.DecodeFrame(context.Background(), fmt.Sprintf("user-%d", i), frame)
		require.NoError(t, err)
		assert.Equal(t, "milk", text)
	}
	assert.Equal(t, 0, svc.inFlight())

	// Failed decodes release the owner too
	blank := FrameFromImage(image.NewGray(image.Rect(0, 0, 64, 64)))
	_, err := svc.DecodeFrame(context.Background(), "user-blank", blank)
	require.Error(t, err)
	assert.Equal(t, 0, svc.inFlight())
}

func TestService_OneDecodePerOwner(t *testing.T) {
	svc := NewService(newTestDecoder(t), &mockMerger{}, zap.NewNop())
	frame := FrameFromImage(qrImage(t, "milk"))

	_, err := svc.acquire("user-1")
	require.NoError(t, err)

	_, err = svc.DecodeFrame(context.Background(), "user-1", frame)
	assert.ErrorIs(t, err, ErrBusy)

	// Other owners are unaffected
	text, err := svc.DecodeFrame(context.Background(), "user-2", frame)
	require.NoError(t, err)
	assert.Equal(t, "milk", text)
	assert.Equal(t, 1, svc.inFlight())

	svc.release("user-1")
	text, err = svc.DecodeFrame(context.Background(), "user-1", frame)
	require.NoError(t, err)
	assert.Equal(t, "milk", text)
	assert.Equal(t, 0, svc.inFlight())
}
