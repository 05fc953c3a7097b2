// Package wire implements the envelope encoding for the status/error/command
// sockets (spec.md §6): a length-delimited, tagged-fields binary encoding
// built directly on the published protobuf wire primitives
// (google.golang.org/protobuf/encoding/protowire) rather than generated
// .proto code, without requiring a protoc run. Field numbers and
// MessageType values are local to this package (see status_codec.go), so the
// encoding is not bit-compatible with upstream Machinetalk peers. See
// DESIGN.md for why protowire was
// chosen over hand-rolling a stdlib-only format.
package wire

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Scalar fields follow proto3 "omit the zero value" semantics: a field
// equal to its zero value is not written to the wire at all. This is what
// produces the "field unset vs field set to zero" ambiguity spec.md's Open
// Questions call out — we document it rather than redesign around it.

func appendVarintField(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendDoubleField(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendRepeatedMessageField always writes its tag and payload, even when
// payload is empty — unlike appendBytesField, it is used for elements of a
// repeated field, where omitting an all-zero element would silently drop it
// from the list.
func appendRepeatedMessageField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// fieldVisitor is called once per top-level field encountered while
// decoding; it must consume exactly the bytes belonging to that field's
// value (not including the tag, already stripped by consumeFields) and
// return how many bytes it consumed.
type fieldVisitor func(num protowire.Number, typ protowire.Type, b []byte) (consumed int, err error)

// consumeFields walks every tagged field in b, dispatching each to visit.
// Unknown or visitor-declined fields are skipped via protowire's own
// field-skipping logic so forward-compatible senders never break decoding.
func consumeFields(b []byte, visit fieldVisitor) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		consumed, err := visit(num, typ, b)
		if err != nil {
			return err
		}
		if consumed == 0 {
			// Visitor didn't recognize this (num, typ); skip it generically.
			skip := protowire.ConsumeFieldValue(num, typ, b)
			if skip < 0 {
				return fmt.Errorf("wire: invalid field value: %w", protowire.ParseError(skip))
			}
			consumed = skip
		}
		b = b[consumed:]
	}
	return nil
}

func consumeVarint(b []byte) (int64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("wire: invalid varint: %w", protowire.ParseError(n))
	}
	return int64(v), n, nil
}

func consumeBool(b []byte) (bool, int, error) {
	v, n, err := consumeVarint(b)
	return v != 0, n, err
}

func consumeDouble(b []byte) (float64, int, error) {
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("wire: invalid fixed64: %w", protowire.ParseError(n))
	}
	return math.Float64frombits(v), n, nil
}

func consumeString(b []byte) (string, int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return "", 0, fmt.Errorf("wire: invalid string: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, fmt.Errorf("wire: invalid bytes: %w", protowire.ParseError(n))
	}
	return v, n, nil
}
