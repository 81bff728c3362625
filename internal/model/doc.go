package model

// Package model defines the data exchanged with the download server: video
// metadata, download tasks with their status enum, and history entries.
// Values are decoded straight from the server's JSON and treated as read-only
// snapshots; the client never computes progress on its own.
