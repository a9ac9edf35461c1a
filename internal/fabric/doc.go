// Package fabric implements the controller workflows behind the fabricctl
// commands: edge-port import, IP-pool import, segment listing and user
// template deployment.
//
// Every flow runs sequentially against one logged-in controller.Client held by
// a Session. Each change is committed as a single request whose asynchronous
// task is polled to completion before the next one starts. A failure stops the
// flow; changes already committed are not rolled back.
//
// Progress is reported through the Session's Observer so the CLI can render it
// without the flows knowing about the terminal.
package fabric
