// Package platform contains OS integration glue: the user's downloads
// directory, collision-free file creation for saved downloads, and opening
// files, folders and URLs with the system handlers.
package platform
