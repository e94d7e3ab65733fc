// Package device talks to the buzzer microcontroller over a serial port.
//
// A Connector opens a Channel; a Channel sends one-byte commands and is
// closed by its owner. The serial implementation uses go.bug.st/serial, the
// fake implementation lets tests script connection and write failures.
package device
