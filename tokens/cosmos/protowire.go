package cosmos

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// small helpers for the hand written messages below, fields with zero value are skipped like proto3 does

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

type protoField struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

// walkFields decodes varint and length delimited fields, others are skipped
func walkFields(bz []byte, fn func(f *protoField) error) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return protowire.ParseError(n)
		}
		bz = bz[n:]
		field := &protoField{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			field.varint, n = protowire.ConsumeVarint(bz)
		case protowire.BytesType:
			field.bytes, n = protowire.ConsumeBytes(bz)
		default:
			n = protowire.ConsumeFieldValue(num, typ, bz)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		bz = bz[n:]
		if typ != protowire.VarintType && typ != protowire.BytesType {
			continue
		}
		if err := fn(field); err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
	}
	return nil
}
