// Package provision drives one player through the provisioning sequence:
//
//  1. ensure the media player is installed and the media directory exists
//  2. copy media files that are not on the player yet
//  3. rewrite the playlist
//  4. install the autostart hook (login shell or systemd user unit)
//  5. restart playback with the current options
//  6. flush every queued command to the player in one remote script
//
// Every step is safe to repeat against an already provisioned player.
package provision
