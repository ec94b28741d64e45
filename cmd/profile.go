// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/x/profiler"
	"github.com/sirupsen/logrus"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Profiler names accepted by --profiler.
const (
	profilerCallgrind     = "callgrind"
	profilerPprof         = "pprof"
	profilerOpenTelemetry = "opentelemetry"
	profilerOpenCensus    = "opencensus"
)

var defaultProfileOutput = map[string]string{
	profilerCallgrind: "callgrind.out.schemer",
	profilerPprof:     "cpu.pprof",
}

type profileOptions struct {
	kind         string
	output       string
	sourceLabels bool
	// trace selects the opentelemetry profiler when kind is empty.
	trace bool
}

func (o profileOptions) enabled() bool {
	return o.kind != "" || o.trace
}

func (o profileOptions) profilerKind() string {
	if o.kind == "" && o.trace {
		return profilerOpenTelemetry
	}
	return o.kind
}

func (o profileOptions) outputFile() string {
	if o.output != "" {
		return o.output
	}
	return defaultProfileOutput[o.kind]
}

// startProfiler attaches the selected profiler to rt.  The returned function
// completes the profile and releases its resources.
func startProfiler(o profileOptions, rt *lisp.Runtime, logger *logrus.Logger) (func() error, error) {
	var opts []profiler.Option
	if o.sourceLabels {
		opts = append(opts, profiler.WithSourceLabeler())
	}
	switch kind := o.profilerKind(); kind {
	case "":
		return func() error { return nil }, nil
	case profilerCallgrind:
		return startCallgrind(rt, o.outputFile(), opts)
	case profilerPprof:
		return startPprof(rt, o.outputFile(), opts)
	case profilerOpenTelemetry:
		return startOpenTelemetry(rt, traceLogger(logger), opts)
	case profilerOpenCensus:
		return startOpenCensus(rt, traceLogger(logger), opts)
	default:
		return nil, fmt.Errorf("unknown profiler %q", kind)
	}
}

func startCallgrind(rt *lisp.Runtime, file string, opts []profiler.Option) (func() error, error) {
	p := profiler.NewCallgrindProfiler(rt, opts...)
	if err := p.SetFile(file); err != nil {
		return nil, err
	}
	if err := p.Enable(); err != nil {
		return nil, err
	}
	return p.Complete, nil
}

func startPprof(rt *lisp.Runtime, file string, opts []profiler.Option) (func() error, error) {
	f, err := os.Create(file) //nolint:gosec // CLI tool writes user-specified files
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	p := profiler.NewPprofAnnotator(rt, context.Background(), opts...)
	if err := p.Enable(); err != nil {
		pprof.StopCPUProfile()
		_ = f.Close()
		return nil, err
	}
	return func() error {
		err := p.Complete()
		pprof.StopCPUProfile()
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

func startOpenTelemetry(rt *lisp.Runtime, log *logrus.Entry, opts []profiler.Option) (func() error, error) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logSpanExporter{log: log}))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	ctx := context.WithValue(context.Background(), profiler.ContextOpenTelemetryTracerKey, "schemer")
	p := profiler.NewOpenTelemetryAnnotator(rt, ctx, opts...)
	if err := p.Enable(); err != nil {
		otel.SetTracerProvider(prev)
		return nil, err
	}
	return func() error {
		err := p.Complete()
		if serr := tp.Shutdown(context.Background()); err == nil {
			err = serr
		}
		otel.SetTracerProvider(prev)
		return err
	}, nil
}

func startOpenCensus(rt *lisp.Runtime, log *logrus.Entry, opts []profiler.Option) (func() error, error) {
	exp := &logCensusExporter{log: log}
	octrace.RegisterExporter(exp)
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
	p := profiler.NewOpenCensusAnnotator(rt, context.Background(), opts...)
	if err := p.Enable(); err != nil {
		octrace.UnregisterExporter(exp)
		return nil, err
	}
	return func() error {
		err := p.Complete()
		octrace.UnregisterExporter(exp)
		return err
	}, nil
}

// traceLogger returns an entry which reports spans at info level regardless
// of the configured log level.
func traceLogger(logger *logrus.Logger) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(logger.Out)
	l.SetFormatter(logger.Formatter)
	l.SetLevel(logrus.InfoLevel)
	return l.WithField("component", "trace")
}
