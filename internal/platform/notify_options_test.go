package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	assert.Equal(t, "trendlines", o.appName())
	assert.Equal(t, int32(5000), o.expireMillis())

	o = Options{AppName: "charts", Timeout: 1500 * time.Millisecond}
	assert.Equal(t, "charts", o.appName())
	assert.Equal(t, int32(1500), o.expireMillis())

	o.Timeout = -1
	assert.Equal(t, int32(-1), o.expireMillis())
}
