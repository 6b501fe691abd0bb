// Package process spawns the application server as a child process and
// owns its lifecycle: start, blocking wait, interrupt forwarding, and
// exit-code reporting.
package process
