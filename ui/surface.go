// Package ui renders playback state to the embedding surface.
//
// The playback core never talks to a rendering toolkit directly; it drives a
// Surface, and the embedder decides how errors and loading states appear.
package ui

// Surface receives user-visible playback state changes.
// Implementations must tolerate repeated calls: showing an already visible
// loader or re-showing the same error is always a no-op.
type Surface interface {
	// ShowError displays a playback error message, replacing any previous one.
	ShowError(message string)

	// HideError clears the visible error, if any.
	HideError()

	// ShowLoader displays the buffering indicator.
	ShowLoader()

	// HideLoader clears the buffering indicator.
	HideLoader()
}

// CastStatus reports whether playback is remoted to a cast device.
// While casting, local connectivity changes do not concern playback.
type CastStatus interface {
	Casting() bool
}

// NeverCasting is the CastStatus of players without cast support.
type NeverCasting struct{}

func (NeverCasting) Casting() bool { return false }
