// Package bus carries calls and signals between this client and the VM
// services over the system D-Bus.
//
// A Conn is the single connection owned by the process. Channel layers a
// request/reply protocol on top of it: the request payload travels as one
// serialised byte-array argument and the reply is decoded against the
// method's response schema within a per-call timeout. Waiter blocks for one
// asynchronous signal and always removes its subscription before returning.
//
// Failures are reported as *TransportError, *TimeoutError or *DecodeError.
package bus
