package logx

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetDebugConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		debugMutex.Lock()
		defer debugMutex.Unlock()
		debugConfig.Enabled = false
		debugConfig.Domains = nil
	})
}

func TestInitDebugFromEnv(t *testing.T) {
	resetDebugConfig(t)
	t.Setenv("DEBUG", "1")
	t.Setenv("DEBUG_DOMAINS", "llm, generator")
	initDebugFromEnv()

	assert.True(t, IsDebugEnabledForDomain("llm"))
	assert.True(t, IsDebugEnabledForDomain("generator"))
	assert.False(t, IsDebugEnabledForDomain("values"))
}

func TestInitDebugFromEnvAllDomains(t *testing.T) {
	resetDebugConfig(t)
	t.Setenv("DEBUG", "true")
	t.Setenv("DEBUG_DOMAINS", "")
	initDebugFromEnv()

	assert.True(t, IsDebugEnabledForDomain("anything"))
}

func TestDebugDisabledByDefault(t *testing.T) {
	resetDebugConfig(t)
	assert.False(t, IsDebugEnabledForDomain("llm"))
}

func TestLoggerTagsComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{component: "history", logger: log.New(&buf, "", 0)}

	l.Info("recorded %d runs", 3)

	out := buf.String()
	assert.Contains(t, out, "[history]")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "recorded 3 runs")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{component: "a", logger: log.New(&buf, "", 0)}

	tagged := l.WithComponent("b")
	assert.Equal(t, "b", tagged.GetComponent())
	assert.Equal(t, "a", l.GetComponent())
}
