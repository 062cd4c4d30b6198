package tracing_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/Aidin1998/qrmenu/pkg/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupExportsSpans(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	shutdown, err := tracing.Setup(ctx, tracing.Config{Enabled: true, ServiceName: "qrmenu-test", Writer: &buf})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "list-categories")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), "list-categories")
	assert.Contains(t, buf.String(), "qrmenu-test")
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background(), tracing.Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
