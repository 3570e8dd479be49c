// Package discovery advertises the satellite's device link over mDNS.
//
// Hub controllers browse for "_esphomelib._tcp" instances when scanning the
// network for native-API devices; advertising the device-link port lets a
// hub offer the satellite for adoption without manual host configuration.
//
// # TXT Records
//
// The advertisement carries the same identity the device-info handler
// reports: firmware version, bare mac address, friendly name, and project
// coordinates, plus platform/board markers identifying the satellite as a
// host-run device.
//
// # Failure Handling
//
// Registration is best-effort. A hub configured with an explicit satellite
// host works without mDNS, so registration failures are logged and the
// daemon carries on.
package discovery
