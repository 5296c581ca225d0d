package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	roadauth "github.com/roadinfra/roadauth"
	"github.com/roadinfra/roadauth/metrics/export/internaldefs"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// metricsSource is the slice of the client the exporter reads.
// *roadauth.Client satisfies it.
type metricsSource interface {
	MetricsSnapshot() roadauth.MetricsSnapshot
	EventsDropped() uint64
}

type observedCounter struct {
	id         roadauth.MetricID
	instrument metric.Int64ObservableCounter
}

// OTelExporter publishes client counters through observable
// instruments. Close unregisters the collection callback.
type OTelExporter struct {
	source        metricsSource
	registration  metric.Registration
	counters      []observedCounter
	eventsDropped metric.Int64ObservableCounter
}

// NewOTelExporter registers instruments for the client's counters.
func NewOTelExporter(meter metric.Meter, client *roadauth.Client) (*OTelExporter, error) {
	if client == nil {
		return nil, ErrNilSource
	}
	return NewOTelExporterFromSource(meter, client)
}

// NewOTelExporterFromSource is NewOTelExporter for any snapshot source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:   source,
		counters: make([]observedCounter, 0, len(internaldefs.CounterDefs)),
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+1)
	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	eventsDropped, err := meter.Int64ObservableCounter(
		"roadauth_events_dropped_total",
		metric.WithDescription("Events shed by the dispatcher under backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create events dropped counter: %w", err)
	}
	exporter.eventsDropped = eventsDropped
	observables = append(observables, eventsDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		observer.ObserveInt64(exporter.eventsDropped, int64(exporter.source.EventsDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
