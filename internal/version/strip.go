package version

// Global strip flag bits.
const (
	StripEditor = 1 << 0
	StripServer = 1 << 1
)

// StripFlags is the per-struct record of which data classes the cooker removed.
type StripFlags struct {
	Global uint8
	Class  uint8
}

func (s StripFlags) IsEditorDataStripped() bool {
	return s.Global&StripEditor != 0
}

func (s StripFlags) IsDataStrippedForServer() bool {
	return s.Global&StripServer != 0
}

func (s StripFlags) IsClassDataStripped(flag uint8) bool {
	return s.Class&flag != 0
}
