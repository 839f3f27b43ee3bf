package instrace

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestTracer_nilLoggerIsNoop(t *testing.T) {
	tr := New(nil, "m")
	require.NotPanics(t, func() {
		tr.Step("allocate_memories", logrus.Fields{"count": 1})
		tr.Reject("resolve_imports", errors.New("boom"))
	})
}

func TestTracer_logsSteps(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	tr := New(l, "m")
	tr.Step("allocate_memories", logrus.Fields{"count": 1})
	require.Contains(t, buf.String(), "allocate_memories")
	require.Contains(t, buf.String(), `module=m`)
}

func TestTracer_logsRejection(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)

	tr := New(l, "m")
	tr.Reject("resolve_imports", errors.New("missing import"))
	require.Contains(t, buf.String(), "resolve_imports")
	require.Contains(t, buf.String(), "missing import")
}
