// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false, ServiceName: "test-service", ExporterType: "grpc"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if provider.Enabled() {
		t.Error("Expected noop provider")
	}

	_, span := otel.Tracer("test").Start(context.Background(), "noop-check")
	if span.IsRecording() {
		t.Error("Expected noop tracer span to be non-recording")
	}
	span.End()

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on noop provider: %v", err)
	}
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, ServiceName: "test-service", ExporterType: "invalid"})
	if err == nil {
		t.Fatal("Expected error for invalid exporter type")
	}
	want := "unsupported exporter type: invalid (supported: grpc, http)"
	if err.Error() != want {
		t.Errorf("Expected error message %q, got %q", want, err.Error())
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 1.0, want: sdktrace.AlwaysSample().Description()},
		{rate: 2.0, want: sdktrace.AlwaysSample().Description()},
		{rate: 0.0, want: sdktrace.NeverSample().Description()},
		{rate: 0.25, want: sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestEntryAttributes(t *testing.T) {
	attrs := EntryAttributes("0_abc", 0, true)
	if len(attrs) != 2 {
		t.Fatalf("expected partner attribute to be omitted, got %v", attrs)
	}
	if attrs[0] != attribute.String(EntryIDKey, "0_abc") {
		t.Errorf("unexpected entry attribute %v", attrs[0])
	}

	attrs = EntryAttributes("0_abc", 2093031, false)
	if len(attrs) != 3 || attrs[1] != attribute.Int64(PartnerIDKey, 2093031) {
		t.Errorf("unexpected attributes %v", attrs)
	}
}

func TestBatchAttributes(t *testing.T) {
	attrs := BatchAttributes([]string{"session.startWidgetSession", "baseEntry.list"})
	if attrs[0] != attribute.Int(BatchSizeKey, 2) {
		t.Errorf("unexpected size attribute %v", attrs[0])
	}
}
