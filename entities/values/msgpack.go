//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package values

import (
	"bytes"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
	_ msgpack.CustomEncoder = Properties{}
	_ msgpack.CustomDecoder = (*Properties)(nil)
)

// EncodeMsgpack writes a value as a two element array of kind and payload.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(v.kind)); err != nil {
		return err
	}

	switch v.kind {
	case KindNull:
		return enc.EncodeNil()
	case KindString:
		return enc.EncodeString(v.str)
	case KindInt:
		return enc.EncodeInt(int64(v.num))
	case KindUint:
		return enc.EncodeUint(v.num)
	case KindFloat:
		return enc.EncodeFloat64(math.Float64frombits(v.num))
	case KindBool:
		return enc.EncodeBool(v.num == 1)
	case KindUUID:
		return enc.EncodeBytes(v.id[:])
	case KindDate:
		return enc.EncodeTime(v.date)
	case KindArray:
		if err := enc.EncodeArrayLen(len(v.arr)); err != nil {
			return err
		}
		for i := range v.arr {
			if err := v.arr[i].EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindObject:
		return v.obj.EncodeMsgpack(enc)
	default:
		return errors.Errorf("cannot encode value of %s", v.kind)
	}
}

func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return errors.Errorf("value header has %d elements, expected 2", n)
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}

	out := Value{kind: Kind(k)}
	switch out.kind {
	case KindNull:
		err = dec.DecodeNil()
	case KindString:
		out.str, err = dec.DecodeString()
	case KindInt:
		var i int64
		i, err = dec.DecodeInt64()
		out.num = uint64(i)
	case KindUint:
		out.num, err = dec.DecodeUint64()
	case KindFloat:
		var f float64
		f, err = dec.DecodeFloat64()
		out.num = math.Float64bits(f)
	case KindBool:
		var b bool
		b, err = dec.DecodeBool()
		out = Bool(b)
	case KindUUID:
		var raw []byte
		raw, err = dec.DecodeBytes()
		if err == nil {
			out.id, err = uuid.FromBytes(raw)
		}
	case KindDate:
		out.date, err = dec.DecodeTime()
		out.date = out.date.UTC()
	case KindArray:
		var l int
		l, err = dec.DecodeArrayLen()
		if err == nil && l > 0 {
			out.arr = make([]Value, l)
			for i := 0; i < l && err == nil; i++ {
				err = out.arr[i].DecodeMsgpack(dec)
			}
		}
	case KindObject:
		err = out.obj.DecodeMsgpack(dec)
	default:
		err = errors.Errorf("unknown value kind %d", k)
	}
	if err != nil {
		return errors.Wrapf(err, "decode %s value", out.kind)
	}
	*v = out
	return nil
}

func (p Properties) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(p)); err != nil {
		return err
	}
	for i := range p {
		if err := enc.EncodeString(p[i].Key); err != nil {
			return err
		}
		if err := p[i].Value.EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

func (p *Properties) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	if n <= 0 {
		*p = nil
		return nil
	}
	out := make(Properties, n)
	for i := 0; i < n; i++ {
		if out[i].Key, err = dec.DecodeString(); err != nil {
			return err
		}
		if err := out[i].Value.DecodeMsgpack(dec); err != nil {
			return errors.Wrapf(err, "property %q", out[i].Key)
		}
	}
	*p = out
	return nil
}

// MarshalProperties encodes properties into buf, which may be nil.
func MarshalProperties(buf *bytes.Buffer, p Properties) error {
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	enc.Reset(buf)
	return p.EncodeMsgpack(enc)
}

func UnmarshalProperties(data []byte) (Properties, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)
	dec.Reset(bytes.NewReader(data))

	var p Properties
	if err := p.DecodeMsgpack(dec); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodeKey returns the bytes a secondary index stores for v. Equal values
// of the same kind always produce equal keys.
func EncodeKey(v Value) ([]byte, error) {
	return msgpack.Marshal(v)
}

func DecodeKey(data []byte) (Value, error) {
	var v Value
	err := msgpack.Unmarshal(data, &v)
	return v, err
}
