package contextutil_test

import (
	"context"
	"testing"

	"go-staff/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadataRoundTrip(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
	ctx = contextutil.WithUserID(ctx, 42)

	meta := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "REQ-1", meta.RequestID)
	assert.Equal(t, uint(42), meta.UserID)
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewExample()

	t.Run("scoped logger wins", func(t *testing.T) {
		scoped := zap.NewNop()
		ctx := contextutil.WithLogger(context.Background(), scoped)

		assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))
	})

	t.Run("fallback when absent", func(t *testing.T) {
		assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	})

	t.Run("never nil", func(t *testing.T) {
		assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
	})
}
