// Package tui renders the live monitor dashboard.
//
// The dashboard polls a running satellite's status endpoint once a second
// and shows the hub link, browser clients, and audio buffer state. It is a
// read-only view; all control flows through the device and browser
// protocols, never through the monitor.
package tui
