// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"nickandperla.net/calc/internal/value"
)

// encodedLiteral is the serialized form of a literal: its kind name and a
// text payload. Vectors carry their elements as a JSON array.
type encodedLiteral struct {
	Kind string `json:"k"`
	Data string `json:"d"`
}

func encode(v value.Literal) (kind, data string, err error) {
	switch v.Kind() {
	case value.IntKind, value.StrKind, value.FloatKind:
		return v.Kind().String(), v.String(), nil
	case value.ByteKind:
		b, _ := v.AsByte()
		return v.Kind().String(), strconv.Itoa(int(b)), nil
	case value.VectorKind:
		elems, _ := v.Elems()
		out := make([]encodedLiteral, len(elems))
		for i, e := range elems {
			k, d, err := encode(e)
			if err != nil {
				return "", "", err
			}
			out[i] = encodedLiteral{Kind: k, Data: d}
		}
		buf, err := json.Marshal(out)
		if err != nil {
			return "", "", err
		}
		return v.Kind().String(), string(buf), nil
	}
	return "", "", fmt.Errorf("cannot encode %s literal", v.Kind())
}

func decode(kind, data string) (value.Literal, error) {
	switch kind {
	case value.IntKind.String():
		n, err := strconv.ParseInt(data, 10, 32)
		if err != nil {
			return value.Literal{}, fmt.Errorf("decode int: %w", err)
		}
		return value.Int(int32(n)), nil
	case value.StrKind.String():
		return value.Str(data), nil
	case value.FloatKind.String():
		f, err := strconv.ParseFloat(data, 64)
		if err != nil {
			return value.Literal{}, fmt.Errorf("decode float: %w", err)
		}
		return value.Float(f), nil
	case value.ByteKind.String():
		n, err := strconv.ParseUint(data, 10, 8)
		if err != nil {
			return value.Literal{}, fmt.Errorf("decode byte: %w", err)
		}
		return value.Byte(byte(n)), nil
	case value.VectorKind.String():
		var in []encodedLiteral
		if err := json.Unmarshal([]byte(data), &in); err != nil {
			return value.Literal{}, fmt.Errorf("decode vector: %w", err)
		}
		elems := make([]value.Literal, len(in))
		for i, e := range in {
			v, err := decode(e.Kind, e.Data)
			if err != nil {
				return value.Literal{}, err
			}
			elems[i] = v
		}
		return value.Vector(elems...), nil
	}
	return value.Literal{}, fmt.Errorf("unknown literal kind %q", kind)
}
