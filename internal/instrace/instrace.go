// Package instrace traces the instantiation engine's step-by-step progress
// through a structured logger, for embedders that want visibility into why
// a module was accepted or rejected without instrumenting the engine
// itself.
package instrace

import "github.com/sirupsen/logrus"

// Tracer emits one structured log entry per instantiation step. A nil
// *Tracer, or one returned by New with a nil logger, is valid and emits
// nothing, so callers never need to nil-check before calling Step or
// Reject.
type Tracer struct {
	log    logrus.FieldLogger
	module string
}

// New returns a Tracer that logs to l, tagged with the given module name.
// If l is nil, the returned Tracer is a no-op.
func New(l logrus.FieldLogger, module string) *Tracer {
	return &Tracer{log: l, module: module}
}

// Step records a successfully completed instantiation step.
func (t *Tracer) Step(step string, fields logrus.Fields) {
	if t == nil || t.log == nil {
		return
	}
	t.entry(fields).Debugf("instantiation step %q complete", step)
}

// Reject records the step at which instantiation failed and why.
func (t *Tracer) Reject(step string, err error) {
	if t == nil || t.log == nil {
		return
	}
	t.entry(logrus.Fields{"error": err}).Warnf("instantiation rejected at step %q", step)
}

func (t *Tracer) entry(fields logrus.Fields) *logrus.Entry {
	merged := logrus.Fields{"module": t.module}
	for k, v := range fields {
		merged[k] = v
	}
	return t.log.WithFields(merged)
}
