package prtview

import "errors"

// ErrSessionClosed is returned when a finished session is used again.
var ErrSessionClosed = errors.New("settings session already closed")

// ColorTarget picks which color a session edit applies to.
type ColorTarget int

// Color targets.
const (
	Color2D ColorTarget = iota
	Color3D
	ColorFog
)

// Session is one modal edit of a Settings value. Edits go to a draft; Commit
// copies the draft to the owner in one step, Cancel drops it.
type Session struct {
	owner *Settings
	draft Settings
	done  bool
}

// Begin opens an edit session on owner.
func Begin(owner *Settings) *Session {
	return &Session{owner: owner, draft: *owner}
}

// Draft returns the settings as edited so far.
func (s *Session) Draft() Settings {
	return s.draft
}

// SetWidth2D sets the 2D line width, clamped, and returns the stored value.
func (s *Session) SetWidth2D(v float64) float64 {
	s.draft.Width2D = clamp(v, MinLineWidth, MaxLineWidth)
	return s.draft.Width2D
}

// SetWidth3D sets the 3D line width, clamped, and returns the stored value.
func (s *Session) SetWidth3D(v float64) float64 {
	s.draft.Width3D = clamp(v, MinLineWidth, MaxLineWidth)
	return s.draft.Width3D
}

// SetTransparency sets polygon transparency in percent, clamped.
func (s *Session) SetTransparency(v float64) float64 {
	s.draft.Trans3D = clamp(v, MinTransparency, MaxTransparency)
	return s.draft.Trans3D
}

// SetClipRange sets the cubic clip range in steps, clamped.
func (s *Session) SetClipRange(v float64) float64 {
	s.draft.ClipRange = clamp(v, MinClipRange, MaxClipRange)
	return s.draft.ClipRange
}

// SetZBuffer sets the depth mode.
func (s *Session) SetZBuffer(m ZBufferMode) {
	s.draft.ZBuffer = m
}

// SetColor sets one of the portal colors.
func (s *Session) SetColor(target ColorTarget, c Color) {
	switch target {
	case Color2D:
		s.draft.Color2D = c
	case Color3D:
		s.draft.Color3D = c
	case ColorFog:
		s.draft.ColorFog = c
	}
}

// Toggle applies fn to the draft, for the boolean check boxes.
func (s *Session) Toggle(fn func(*Settings)) {
	fn(&s.draft)
}

// Commit writes the draft back to the owner and closes the session.
func (s *Session) Commit() error {
	if s.done {
		return ErrSessionClosed
	}
	s.draft.Clamp()
	*s.owner = s.draft
	s.done = true
	return nil
}

// Cancel discards the draft and closes the session. Cancel after Commit is
// a no-op, so it can be deferred.
func (s *Session) Cancel() {
	s.done = true
}
