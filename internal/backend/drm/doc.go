// Package drm adjusts gamma through the Linux kernel mode setting
// interface. The single site is a directory of card nodes (normally
// /dev/dri), each graphics card is a partition and each KMS CRTC of a card
// is a CRTC.
//
// The package is empty on other platforms.
package drm
