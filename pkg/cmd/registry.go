// Package cmd provides common initialization functions for the command-line
// binaries.
package cmd

import (
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/registry"
	"github.com/dwellwatch/dwellwatch/pkg/sinks/console"
	kafkasink "github.com/dwellwatch/dwellwatch/pkg/sinks/kafka"
	"github.com/dwellwatch/dwellwatch/pkg/sinks/logsink"
	"github.com/dwellwatch/dwellwatch/pkg/sources/fhir"
	"github.com/dwellwatch/dwellwatch/pkg/sources/fixture"
)

func registerNativeSources(reg *registry.Registry) {
	reg.RegisterSource(fixture.NewFactory())
	reg.RegisterSource(fhir.NewFactory())
}

func registerNativeSinks(reg *registry.Registry) {
	reg.RegisterSink(console.NewFactory())
	reg.RegisterSink(logsink.NewFactory())
	reg.RegisterSink(kafkasink.NewFactory())
}

func NewRegistry(log *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(log)

	registerNativeSources(reg)
	registerNativeSinks(reg)

	return reg
}
