package rules

import (
	"log/slog"

	"github.com/akshaykmanoj/spry-sub002/edge"
)

// Trace logs every edge passing through it at debug level. A nil logger
// discards output.
func Trace(logger *slog.Logger) edge.Rule {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return edge.Tap("trace", func(_ *edge.Context, e edge.Edge) {
		logger.Debug("edge",
			"rel", string(e.Rel),
			"from", e.From.String(),
			"to", e.To.String(),
		)
	})
}
