package bank

// Report counts the soft failures of one parse. None of them stop the pass.
type Report struct {
	Paragraphs int `json:"paragraphs"` // paragraphs received
	Lines      int `json:"lines"`      // non-empty lines after normalization

	// UnattachedLines were dropped because no question was in progress.
	UnattachedLines int `json:"unattached_lines"`

	// MissingType questions were finalized without a type and became single.
	MissingType int `json:"missing_type"`

	// RawOptions used the whole line because the option text was not captured.
	RawOptions int `json:"raw_options"`

	// Unresolved true/false answers matched neither marker set.
	Unresolved int `json:"unresolved"`

	// SplitOptionLines held more than one option and were split.
	SplitOptionLines int `json:"split_option_lines"`

	// DroppedChapters had no questions.
	DroppedChapters int `json:"dropped_chapters"`
}

// Clean reports whether no soft failure was recorded.
func (r Report) Clean() bool {
	return r.UnattachedLines == 0 && r.MissingType == 0 && r.RawOptions == 0 && r.Unresolved == 0
}
