// Package navigation drives a manual page: it owns the sidebar, the loaded
// table of contents, the current document and the version catalog, and
// publishes immutable State snapshots to a host View as route changes and
// remote loads complete.
//
// Hosts (the HTTP live session and the terminal reader) supply a Router that
// reports route changes to the controller and a View that receives state.
package navigation
