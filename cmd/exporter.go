// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	octrace "go.opencensus.io/trace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logSpanExporter is an opentelemetry SpanExporter which logs each span.
type logSpanExporter struct {
	log *logrus.Entry
}

var _ sdktrace.SpanExporter = &logSpanExporter{}

func (e *logSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":     span.Name(),
			"duration": span.EndTime().Sub(span.StartTime()),
		}
		for _, kv := range span.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		if parent := span.Parent(); parent.IsValid() {
			fields["parent"] = parent.SpanID().String()
		}
		fields["id"] = span.SpanContext().SpanID().String()
		e.log.WithFields(fields).Info("span")
	}
	return nil
}

func (e *logSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// logCensusExporter is an opencensus Exporter which logs each span.
type logCensusExporter struct {
	log *logrus.Entry
}

var _ octrace.Exporter = &logCensusExporter{}

func (e *logCensusExporter) ExportSpan(sd *octrace.SpanData) {
	fields := logrus.Fields{
		"span":     sd.Name,
		"duration": sd.EndTime.Sub(sd.StartTime),
		"id":       sd.SpanID.String(),
	}
	for _, a := range sd.Annotations {
		for k, v := range a.Attributes {
			fields[k] = v
		}
	}
	e.log.WithFields(fields).Info("span")
}
