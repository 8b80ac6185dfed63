package archive

import "uemesh-converter/internal/version"

// StripFlags reads the two strip flag bytes that prefix many serialized structs.
func (r *Reader) StripFlags() version.StripFlags {
	return version.StripFlags{Global: r.U8(), Class: r.U8()}
}

// StripFlagsIf reads strip flags only when gate g is active; packages without
// them strip nothing.
func (r *Reader) StripFlagsIf(g version.Gate) version.StripFlags {
	if !r.Active(g, version.StripFlags{}) {
		return version.StripFlags{}
	}
	return r.StripFlags()
}
