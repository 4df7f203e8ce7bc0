package shutdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminateRunsHooksThenHandler(t *testing.T) {
	t.Parallel()

	var calls []string
	m := New()
	m.SetHandler(func(reason string) { calls = append(calls, "handler:"+reason) })
	m.SetHandler(nil)
	m.BeforeTerminate(func() { calls = append(calls, "flush logs") })
	m.BeforeTerminate(nil)
	m.BeforeTerminate(func() { calls = append(calls, "close notifier") })

	m.Terminate("update installed")

	assert.Equal(t, []string{"flush logs", "close notifier", "handler:update installed"}, calls)
}
