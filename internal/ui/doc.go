package ui

// Package ui contains the Fyne desktop front end. RootUI draws what the
// session asks for (video card, progress modal, history and queue tabs,
// toasts) and forwards button taps to the session on background goroutines.
// All UI strings are localized via Localization.
