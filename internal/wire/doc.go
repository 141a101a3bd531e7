// Package wire defines the request, response and signal payloads exchanged
// with the VM services. Each payload is encoded in the protobuf binary format
// and travels as a single byte-array argument on the bus.
//
// Messages are written by hand against protowire. The schemas they follow
// are kept in proto/, trimmed to the fields this client reads or writes, and
// the golden tests pin the encodings to those field numbers and types.
// Unknown fields, and known fields carrying an unexpected wire type, are
// skipped on decode the way generated code does.
package wire
