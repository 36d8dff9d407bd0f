package fitment

// BaselineState describes whether a session's baseline can anchor
// comparisons.
type BaselineState string

const (
	// BaselineAbsent means no baseline has been resolved yet.
	BaselineAbsent BaselineState = "absent"
	// BaselineValid means the baseline resolved cleanly and comparisons may run.
	BaselineValid BaselineState = "valid"
	// BaselineRejected means the baseline carries a diameter mismatch. It is
	// kept on the session so the error can be shown, but it gates all
	// comparisons off until replaced.
	BaselineRejected BaselineState = "rejected"
)

// Session is an immutable snapshot of one fitment working set: a baseline,
// an ordered list of candidate setups, and the identity of the setup the
// user last selected. Every With method returns a new Session and leaves
// the receiver untouched, so concurrent readers never observe a partial
// update and stale snapshots stay internally consistent.
type Session struct {
	Baseline   *Setup  `json:"baseline,omitempty"`
	Candidates []Setup `json:"candidates"`
	SelectedID string  `json:"selected_id,omitempty"`
}

// WithBaseline returns a copy of the session anchored to the given setup.
// A mismatched setup is still stored, so callers can surface the rejection,
// but BaselineState reports it as rejected and comparisons stay gated off.
func (s Session) WithBaseline(baseline Setup) Session {
	next := s.clone()
	next.Baseline = &baseline
	return next
}

// WithCandidate returns a copy of the session with the given setup added.
// A candidate whose field ID matches an existing one replaces it in place,
// preserving list order; anything else is appended.
func (s Session) WithCandidate(candidate Setup) Session {
	next := s.clone()
	for i, existing := range next.Candidates {
		if existing.Fields.ID == candidate.Fields.ID {
			next.Candidates[i] = candidate
			return next
		}
	}
	next.Candidates = append(next.Candidates, candidate)
	return next
}

// WithoutCandidate returns a copy of the session with the identified
// candidate removed. Removing the selected candidate clears the selection.
func (s Session) WithoutCandidate(id string) Session {
	next := s.clone()
	kept := next.Candidates[:0]
	for _, c := range next.Candidates {
		if c.Fields.ID != id {
			kept = append(kept, c)
		}
	}
	next.Candidates = kept
	if next.SelectedID == id {
		next.SelectedID = ""
	}
	return next
}

// WithSelected returns a copy of the session with the given setup marked as
// selected. An empty id clears the selection; an id naming no setup on the
// session leaves the selection unchanged.
func (s Session) WithSelected(id string) Session {
	next := s.clone()
	if id == "" || next.lookup(id) != nil {
		next.SelectedID = id
	}
	return next
}

// Selected returns a copy of the setup the session's selection points at,
// or nil when nothing is selected.
func (s Session) Selected() *Setup {
	if s.SelectedID == "" {
		return nil
	}
	found := s.lookup(s.SelectedID)
	if found == nil {
		return nil
	}
	setup := *found
	return &setup
}

// BaselineState reports which of the three baseline states the session is in.
func (s Session) BaselineState() BaselineState {
	switch {
	case s.Baseline == nil:
		return BaselineAbsent
	case s.Baseline.Mismatch != nil:
		return BaselineRejected
	default:
		return BaselineValid
	}
}

// CandidateComparison pairs a candidate's identity with its comparison
// outcome. Mismatch is set when the candidate cannot seat on its declared
// wheel; Result is nil for any candidate that could not be compared.
type CandidateComparison struct {
	SetupID  string            `json:"setup_id"`
	Mismatch *DiameterMismatch `json:"mismatch,omitempty"`
	Result   *ComparisonResult `json:"result,omitempty"`
}

// Comparisons evaluates every candidate against the baseline, in candidate
// order. It returns nil unless the baseline is valid: an absent baseline has
// nothing to compare against, and a rejected one must not anchor results.
func (s Session) Comparisons() []CandidateComparison {
	if s.BaselineState() != BaselineValid {
		return nil
	}

	out := make([]CandidateComparison, 0, len(s.Candidates))
	for _, candidate := range s.Candidates {
		out = append(out, CandidateComparison{
			SetupID:  candidate.Fields.ID,
			Mismatch: candidate.Mismatch,
			Result:   CompareSetups(*s.Baseline, candidate),
		})
	}
	return out
}

// clone copies the session deeply enough that mutating the copy's slice or
// baseline pointer cannot touch the receiver. Setups themselves are value
// objects and safe to share.
func (s Session) clone() Session {
	next := s
	if s.Baseline != nil {
		baseline := *s.Baseline
		next.Baseline = &baseline
	}
	next.Candidates = make([]Setup, len(s.Candidates))
	copy(next.Candidates, s.Candidates)
	return next
}

func (s Session) lookup(id string) *Setup {
	for i := range s.Candidates {
		if s.Candidates[i].Fields.ID == id {
			return &s.Candidates[i]
		}
	}
	if s.Baseline != nil && s.Baseline.Fields.ID == id {
		return s.Baseline
	}
	return nil
}
