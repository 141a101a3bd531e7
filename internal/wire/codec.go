package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// errWireType marks a known field that arrived with an unexpected wire type.
// Such a field is skipped like an unknown one.
var errWireType = errors.New("wire: unexpected wire type")

// Message is a request, response or signal payload. Every bus method carries
// exactly one Message serialised as its first byte-array argument.
type Message interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

// encoder appends proto3 fields, omitting zero values the same way a generated
// marshaller does.
type encoder struct {
	buf []byte
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

func (e *encoder) uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *encoder) int64(num protowire.Number, v int64) {
	e.uint64(num, uint64(v))
}

func (e *encoder) int32(num protowire.Number, v int32) {
	e.uint64(num, uint64(int64(v)))
}

func (e *encoder) fixed32(num protowire.Number, v uint32) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.Fixed32Type)
	e.buf = protowire.AppendFixed32(e.buf, v)
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

// message always emits the field: an embedded message that is present but
// empty is still distinguishable from an absent one.
func (e *encoder) message(num protowire.Number, m Message) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, m.Marshal())
}

func (e *encoder) repeatedString(num protowire.Number, vs []string) {
	for _, v := range vs {
		e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
		e.buf = protowire.AppendString(e.buf, v)
	}
}

// field is a single tagged value being decoded. Accessors store into dst
// only when the value decodes; fields nobody reads are skipped by unmarshal.
type field struct {
	num      protowire.Number
	typ      protowire.Type
	data     []byte
	consumed int
}

func (f *field) expect(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("%w %d for field %d", errWireType, f.typ, f.num)
	}
	return nil
}

func (f *field) varint() (uint64, error) {
	if err := f.expect(protowire.VarintType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeVarint(f.data)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	f.consumed = n
	return v, nil
}

func (f *field) uint64(dst *uint64) error {
	v, err := f.varint()
	if err == nil {
		*dst = v
	}
	return err
}

func (f *field) int64(dst *int64) error {
	v, err := f.varint()
	if err == nil {
		*dst = int64(v)
	}
	return err
}

func (f *field) uint32(dst *uint32) error {
	v, err := f.varint()
	if err == nil {
		*dst = uint32(v)
	}
	return err
}

func (f *field) fixed32(dst *uint32) error {
	if err := f.expect(protowire.Fixed32Type); err != nil {
		return err
	}
	v, n := protowire.ConsumeFixed32(f.data)
	if n < 0 {
		return protowire.ParseError(n)
	}
	f.consumed = n
	*dst = v
	return nil
}

func (f *field) bool(dst *bool) error {
	v, err := f.varint()
	if err == nil {
		*dst = protowire.DecodeBool(v)
	}
	return err
}

func (f *field) bytes() ([]byte, error) {
	if err := f.expect(protowire.BytesType); err != nil {
		return nil, err
	}
	v, n := protowire.ConsumeBytes(f.data)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	f.consumed = n
	return v, nil
}

func (f *field) string(dst *string) error {
	v, err := f.bytes()
	if err == nil {
		*dst = string(v)
	}
	return err
}

func (f *field) message(m Message) error {
	v, err := f.bytes()
	if err != nil {
		return err
	}
	return m.Unmarshal(v)
}

func enum[E ~int32](f *field, dst *E) error {
	v, err := f.varint()
	if err == nil {
		*dst = E(int32(v))
	}
	return err
}

// unmarshal walks every field in data, handing each to visit. Unknown fields,
// and known fields with a wire type other than the one declared, are skipped
// so newer peers can add or retype fields without breaking this client.
func unmarshal(name string, data []byte, visit func(f *field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("wire: decode %s: %w", name, protowire.ParseError(n))
		}
		data = data[n:]

		f := &field{num: num, typ: typ, data: data}
		if err := visit(f); err != nil && !errors.Is(err, errWireType) {
			return fmt.Errorf("wire: decode %s: %w", name, err)
		}
		if f.consumed == 0 {
			f.consumed = protowire.ConsumeFieldValue(num, typ, data)
			if f.consumed < 0 {
				return fmt.Errorf("wire: decode %s: %w", name, protowire.ParseError(f.consumed))
			}
		}
		data = data[f.consumed:]
	}
	return nil
}

func enumName(names map[int32]string, prefix string, v int32) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s_%d", prefix, v)
}
