// Package jellyfin reads TV season watch state for one Jellyfin (or Emby)
// user.
package jellyfin
