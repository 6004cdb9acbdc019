package gekko

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "ibl", false)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("careful")
	l.Errorf("broken")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[ibl] INFO: shown 2")
	assert.Contains(t, errOut.String(), "[ibl] WARN: careful")
	assert.Contains(t, errOut.String(), "[ibl] ERROR: broken")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("now visible")
	assert.Contains(t, out.String(), "DEBUG: now visible")
}

func TestAppLoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.False(t, NewAppBuilder().Build().Logger().DebugEnabled())

	var out bytes.Buffer
	logger := NewLoggerTo(&out, &out, "", true)
	built := NewAppBuilder().UseModule(LoggingModule{Logger: logger}).Build()
	assert.Same(t, logger, built.Logger())
}

func TestNamedLoggerSharesLevel(t *testing.T) {
	var out bytes.Buffer
	root := NewLoggerTo(&out, &out, "ibl", false)
	stage := root.Named("envmap").Named("prefilter")

	stage.Debugf("dropped")
	stage.Infof("5 levels")
	assert.NotContains(t, out.String(), "dropped")
	assert.Contains(t, out.String(), "[ibl/envmap/prefilter] INFO: 5 levels")

	root.SetDebug(true)
	assert.True(t, stage.DebugEnabled())
	stage.Debugf("kept")
	assert.Contains(t, out.String(), "[ibl/envmap/prefilter] DEBUG: kept")

	root.SetLevel(LevelError)
	stage.Warnf("quiet")
	assert.NotContains(t, out.String(), "quiet")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	assert.NoError(t, err)
	assert.Equal(t, LevelWarn, l)
	assert.Equal(t, "ERROR", LevelError.String())

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
