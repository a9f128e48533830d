// Package plex reads TV season watch state from a Plex Media Server.
//
// Every library section of type show is walked: the section's shows, then
// each show's seasons. The "All episodes" pseudo-season Plex injects at the
// top of a show is dropped. A season counts as fully watched when every
// indexed episode has been viewed.
package plex
