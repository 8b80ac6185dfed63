package mesh

import (
	"errors"
	"fmt"

	"uemesh-converter/internal/indexbuf"
)

// Fatal decode conditions. A DecodeError wraps one of these.
var (
	ErrTooManyUVSets     = errors.New("too many UV sets")
	ErrTooManyInfluences = errors.New("too many bone influences")
	ErrIndexSize         = indexbuf.ErrElementSize
	ErrMalformed         = errors.New("malformed mesh data")
	ErrUnsupported       = errors.New("unsupported mesh format")
)

// DecodeError is a fatal decode failure. LOD and Section are -1 when the failure
// is not tied to one.
type DecodeError struct {
	LOD     int
	Section int
	Err     error
}

func (e *DecodeError) Error() string {
	switch {
	case e.LOD >= 0 && e.Section >= 0:
		return fmt.Sprintf("lod %d section %d: %v", e.LOD, e.Section, e.Err)
	case e.LOD >= 0:
		return fmt.Sprintf("lod %d: %v", e.LOD, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LodError wraps err as a DecodeError for one LOD. Errors that already carry a
// location keep it, only gaining the LOD when it was unset.
func LodError(lod int, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		if de.LOD < 0 {
			return &DecodeError{LOD: lod, Section: de.Section, Err: de.Err}
		}
		return err
	}
	return &DecodeError{LOD: lod, Section: -1, Err: err}
}

// SectionError wraps err as a DecodeError for one section of a LOD.
func SectionError(lod, section int, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{LOD: lod, Section: section, Err: err}
}

// Malformed formats a DecodeError wrapping ErrMalformed.
func Malformed(lod int, format string, args ...any) error {
	return &DecodeError{LOD: lod, Section: -1, Err: fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))}
}

// Classified reports whether err carries one of the fatal sentinels.
func Classified(err error) bool {
	for _, s := range []error{ErrTooManyUVSets, ErrTooManyInfluences, ErrIndexSize, ErrMalformed, ErrUnsupported} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// Fatal wraps err as a DecodeError for lod. Errors carrying no sentinel are read
// failures and are classified as ErrMalformed.
func Fatal(lod int, err error) error {
	if err == nil {
		return nil
	}
	if !Classified(err) {
		err = fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return LodError(lod, err)
}
