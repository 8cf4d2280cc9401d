// Package hid writes encoded reports to the light's hidraw device node.
//
// The kernel's hidraw interface accepts raw output reports as plain
// writes, so no userspace HID library is needed: open the node, write
// 64 bytes, done. The transmitter reopens the node on write failure so
// an unplugged and replugged light recovers without a daemon restart.
package hid
