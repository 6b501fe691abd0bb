// Package launcher sequences one launch of the permit application:
// activate the runtime environment, resolve the LAN address, print access
// URLs, then start and supervise the server process until it exits or the
// operator interrupts.
package launcher
