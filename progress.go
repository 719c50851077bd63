package tfs

// Progress is the advisory progress sink. Implementations receive phase and
// per-item text and may request cooperative cancellation; the engine checks
// Cancelled between phases and items only, so an in-flight transfer is not
// guaranteed to stop mid-way.
type Progress interface {
	// Phase reports the current phase of the operation.
	Phase(text string)

	// Item reports the item currently being processed. An empty string
	// clears the item line.
	Item(text string)

	// Determinate switches the sink between determinate and indeterminate
	// display.
	Determinate(on bool)

	// Cancelled reports whether the caller requested cancellation.
	Cancelled() bool
}

// NopProgress is a Progress that discards everything and never cancels.
type NopProgress struct{}

func (NopProgress) Phase(string)      {}
func (NopProgress) Item(string)       {}
func (NopProgress) Determinate(bool)  {}
func (NopProgress) Cancelled() bool   { return false }
