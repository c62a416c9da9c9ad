package models

// PreservedSections holds the three immutable zones of an article, re-derived
// from the current content on every rewrite. Any field may be empty; a
// single-paragraph article yields Hook == Disclaimer.
type PreservedSections struct {
	Hook       string `json:"hook"`
	Summary    string `json:"summary"`
	Disclaimer string `json:"disclaimer"`
}

// GenerationRequest carries the constraint contract for one rewrite. All
// fields are untrusted user input; they are embedded into prompts as template
// data, never as instructions to execute.
type GenerationRequest struct {
	Tone                string `json:"tone"`
	ToneDescription     string `json:"tone_description"`
	Keywords            string `json:"keywords"`
	FirmName            string `json:"firm_name"`
	Location            string `json:"location"`
	LawyerName          string `json:"lawyer_name"`
	City                string `json:"city"`
	State               string `json:"state"`
	DiscoveryCallLink   string `json:"discovery_call_link"`
	PlanningSessionName string `json:"planning_session_name"`
}

// ValidationReport is the judge's structured verdict on an assembled document.
// It is advisory: a nil report means "no opinion", never "failed".
type ValidationReport struct {
	Components        map[string]ComponentCheck `json:"components"`
	PreservedSections PreservedSectionsCheck    `json:"preserved_sections"`
	ChangeAnalysis    ChangeAnalysis            `json:"change_analysis"`
	Warnings          []string                  `json:"warnings"`
	MissingComponents []string                  `json:"missing_components"`
}

// ComponentCheck reports whether one required SEO component was found.
// The judge populates different detail fields per component.
type ComponentCheck struct {
	Found       bool     `json:"found"`
	Occurrences int      `json:"occurrences,omitempty"`
	Variations  []string `json:"variations,omitempty"`
	InFirst150  bool     `json:"in_first_150,omitempty"`
	Name        bool     `json:"name,omitempty"`
	Location    bool     `json:"location,omitempty"`
	Link        bool     `json:"link,omitempty"`
	References  int      `json:"references,omitempty"`
}

// PreservedSectionsCheck reports per-zone fidelity.
type PreservedSectionsCheck struct {
	Hook       bool `json:"hook"`
	Summary    bool `json:"summary"`
	Disclaimer bool `json:"disclaimer"`
}

// ChangeAnalysis reports how far the rewrite moved from the original.
type ChangeAnalysis struct {
	Percentage         float64 `json:"percentage"`
	SignificantChanges bool    `json:"significant_changes"`
	MaintainedEssence  bool    `json:"maintained_essence"`
}
