package domain

// RevealCursor counts the leading observations currently drawn. Progress is
// always within [0, Bound()]. A cursor has exactly one writer; it carries no
// synchronization.
type RevealCursor struct {
	progress int
	bound    int
}

// NewRevealCursor returns a cursor at zero progress bounded by bound, which is
// normally the observation count of the series being revealed.
func NewRevealCursor(bound int) RevealCursor {
	return RevealCursor{bound: max(0, bound)}
}

// CursorAt returns a cursor for series positioned at progress (clamped).
func CursorAt(series Series, progress int) RevealCursor {
	c := NewRevealCursor(series.Len())
	c.Set(progress)
	return c
}

// Progress returns the number of revealed observations.
func (c RevealCursor) Progress() int { return c.progress }

// Bound returns the largest allowed progress.
func (c RevealCursor) Bound() int { return c.bound }

// Done reports whether every observation is revealed.
func (c RevealCursor) Done() bool { return c.progress >= c.bound }

// Set clamps n to [0, Bound()] and stores it. It returns the stored value.
func (c *RevealCursor) Set(n int) int {
	c.progress = clampProgress(n, c.bound)
	return c.progress
}

// Advance moves the cursor by delta (which may be negative), clamped.
func (c *RevealCursor) Advance(delta int) int {
	return c.Set(c.progress + delta)
}

// Rebind changes the bound, for example after the series is reloaded, and
// re-clamps the current progress.
func (c *RevealCursor) Rebind(bound int) int {
	c.bound = max(0, bound)
	return c.Set(c.progress)
}

func clampProgress(n, bound int) int {
	return max(0, min(n, bound))
}
