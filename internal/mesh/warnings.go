package mesh

import (
	"fmt"

	"go.uber.org/zap"
)

// WarningKind classifies a non-fatal decode anomaly.
type WarningKind string

const (
	// WarnUnsupported: a recognized feature was read and discarded.
	WarnUnsupported WarningKind = "unsupported"
	// WarnMissingData: data implied by a flag was absent.
	WarnMissingData WarningKind = "missing"
	// WarnStripped: data was stripped from the package.
	WarnStripped WarningKind = "stripped"
)

// Warning is a non-fatal anomaly. LOD is -1 for mesh-level warnings.
type Warning struct {
	Kind    WarningKind
	LOD     int
	Message string
}

func (w Warning) String() string {
	if w.LOD >= 0 {
		return fmt.Sprintf("%s: lod %d: %s", w.Kind, w.LOD, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Reporter collects warnings for one conversion and logs each one.
type Reporter struct {
	log      *zap.Logger
	warnings []Warning
}

// NewReporter returns a reporter logging to log; a nil logger discards output.
func NewReporter(log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{log: log}
}

func (r *Reporter) Warn(kind WarningKind, lod int, format string, args ...any) {
	w := Warning{Kind: kind, LOD: lod, Message: fmt.Sprintf(format, args...)}
	r.warnings = append(r.warnings, w)
	r.log.Warn(w.Message, zap.String("kind", string(kind)), zap.Int("lod", lod))
}

// Logger returns the underlying logger.
func (r *Reporter) Logger() *zap.Logger { return r.log }

// Warnings returns the warnings collected so far.
func (r *Reporter) Warnings() []Warning { return r.warnings }
