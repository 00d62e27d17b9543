package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfeed/backend/internal/errs"
	"github.com/forkfeed/backend/internal/logging"
	"github.com/forkfeed/backend/internal/service"
)

func TestImageResolve(t *testing.T) {
	// No object storage configured.
	svc := service.NewImageService(nil, logging.Nop())
	ctx := context.Background()

	resolved, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, resolved)

	resolved, err = svc.Resolve(ctx, "https://cdn.example.com/cake.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cake.png", resolved)

	// Uploads need a bucket; without one the payload is rejected.
	_, err = svc.Resolve(ctx, "data:image/png;base64,iVBORw0KGgo=")
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Resolve(ctx, "ftp://example.com/cake.png")
	assert.True(t, errs.IsValidation(err))
}
