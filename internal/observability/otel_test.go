package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

func TestParseHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y"}, ParseHeaders(" a=1 , b=x=y, bad, =v, k= "))
	assert.Nil(t, ParseHeaders(""))
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.Nop(), OtelConfig{})
	assert.NoError(t, shutdown(context.Background()))
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.25, clampRatio(0.25))
}
