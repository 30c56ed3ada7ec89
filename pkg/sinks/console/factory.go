package console

import (
	"log/slog"

	"github.com/dwellwatch/dwellwatch/pkg/protocol"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (*Factory) ID() string {
	return "console"
}

func (f *Factory) Create(_ map[string]any, logger *slog.Logger) (protocol.AlertSink, error) {
	return NewSink(nil, logger), nil
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
