// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/x/profiler"
	"github.com/luthersystems/schemer/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

func TestNewOpenCensusAnnotator(t *testing.T) {
	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	// Let's sample at 100% for the purposes of this test...
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := &recordingExporter{}
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, context.Background())
	assert.NoError(t, ppa.Enable())
	res := env.LoadString("test.scm", testSource)
	require.NotEqual(t, lisp.LError, res.Type, res.String())
	// Mark the profile as complete
	assert.NoError(t, ppa.Complete())

	spans := exporter.Spans()
	require.Len(t, spans, 3)
	assert.Equal(t, "define", spans[0].Name)
	assert.Equal(t, "cdr", spans[1].Name)
	assert.Equal(t, "car", spans[2].Name)
	assert.Equal(t, spans[2].SpanID, spans[1].ParentSpanID)
	require.Len(t, spans[2].Annotations, 1)
	assert.Equal(t, "test.scm", spans[2].Annotations[0].Attributes["file"])
	assert.Equal(t, int64(3), spans[2].Annotations[0].Attributes["line"])
}

// recordingExporter keeps exported spans in memory.  In the real world you'd
// go to one of the exporters supported by opencensus.
type recordingExporter struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (e *recordingExporter) ExportSpan(sd *trace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, sd)
}

func (e *recordingExporter) Spans() []*trace.SpanData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*trace.SpanData(nil), e.spans...)
}
