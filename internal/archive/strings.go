package archive

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// maxStringLen bounds string lengths so corrupt counts fail fast.
const maxStringLen = 1 << 20

// String reads a length-prefixed string. Positive lengths are Latin-1 bytes,
// negative lengths are UTF-16 code units; both include the terminating NUL.
func (r *Reader) String() string {
	at := r.off
	n := int(r.I32())
	if r.err != nil || n == 0 {
		return ""
	}
	wide := n < 0
	if wide {
		n = -n
	}
	if n > maxStringLen {
		r.Fail(fmt.Errorf("archive: string length %d at offset %d", n, at))
		return ""
	}

	var raw []byte
	if wide {
		raw = r.take(n * 2)
	} else {
		raw = r.take(n)
	}
	if raw == nil {
		return ""
	}

	var (
		s   []byte
		err error
	)
	if wide {
		endian := unicode.LittleEndian
		if r.reverse {
			endian = unicode.BigEndian
		}
		s, err = unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	} else {
		s, err = charmap.ISO8859_1.NewDecoder().Bytes(raw)
	}
	if err != nil {
		r.Fail(fmt.Errorf("archive: decode string at offset %d: %w", at, err))
		return ""
	}
	return strings.TrimRight(string(s), "\x00")
}

// Name reads a name reference (table index plus instance number) and resolves it
// against the package name table.
func (r *Reader) Name() string {
	at := r.off
	idx := r.I32()
	num := r.I32()
	if r.err != nil {
		return ""
	}
	if idx < 0 || int(idx) >= len(r.names) {
		r.Fail(fmt.Errorf("archive: name index %d at offset %d outside table of %d", idx, at, len(r.names)))
		return ""
	}
	if num > 0 {
		return fmt.Sprintf("%s_%d", r.names[idx], num-1)
	}
	return r.names[idx]
}
