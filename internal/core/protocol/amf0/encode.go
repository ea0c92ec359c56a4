// If you are AI: This file implements AMF0 encoding for FLV script data (onMetaData).
// Only encodes the types that appear in metadata tags.

package amf0

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
)

// Encode writes an AMF0 value to the writer.
func Encode(w io.Writer, val Value) error {
	switch v := val.(type) {
	case float64:
		return encodeNumber(w, v)
	case int:
		return encodeNumber(w, float64(v))
	case int64:
		return encodeNumber(w, float64(v))
	case bool:
		return encodeBoolean(w, v)
	case string:
		return encodeString(w, v)
	case nil:
		return encodeNull(w)
	case Object:
		return encodeObject(w, v)
	case Properties:
		return encodeProperties(w, v)
	case ECMAArray:
		return encodeECMAArray(w, v)
	case Array:
		return encodeArray(w, v)
	case []float64:
		return encodeNumberArray(w, v)
	default:
		return encodeNull(w)
	}
}

// encodeNumber encodes an AMF0 number.
func encodeNumber(w io.Writer, num float64) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeNumber)); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, num)
}

// encodeBoolean encodes an AMF0 boolean.
func encodeBoolean(w io.Writer, b bool) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeBoolean)); err != nil {
		return err
	}
	var val byte
	if b {
		val = 1
	}
	return binary.Write(w, binary.BigEndian, val)
}

// encodeString encodes an AMF0 string.
func encodeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeString)); err != nil {
		return err
	}
	return encodeKey(w, s)
}

// encodeKey writes a length-prefixed UTF-8 string without a type marker.
func encodeKey(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// encodeNull encodes an AMF0 null.
func encodeNull(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, byte(TypeNull))
}

// encodeObject encodes an AMF0 object.
// Map keys are sorted so the output is deterministic.
func encodeObject(w io.Writer, obj Object) error {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	props := make(Properties, 0, len(keys))
	for _, key := range keys {
		props = append(props, Property{Key: key, Value: obj[key]})
	}
	return encodeProperties(w, props)
}

// encodeProperties encodes an ordered AMF0 object.
func encodeProperties(w io.Writer, props Properties) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeObject)); err != nil {
		return err
	}
	return encodePropertyList(w, props)
}

// encodeECMAArray encodes an AMF0 ECMA array with its approximate count.
func encodeECMAArray(w io.Writer, arr ECMAArray) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeECMAArray)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(arr))); err != nil {
		return err
	}
	return encodePropertyList(w, Properties(arr))
}

// encodePropertyList writes key-value pairs followed by the object end marker.
func encodePropertyList(w io.Writer, props Properties) error {
	for _, p := range props {
		if err := encodeKey(w, p.Key); err != nil {
			return err
		}
		if err := Encode(w, p.Value); err != nil {
			return err
		}
	}
	// Object end marker
	if err := binary.Write(w, binary.BigEndian, uint16(0)); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, byte(TypeObjectEnd))
}

// encodeArray encodes an AMF0 strict array.
func encodeArray(w io.Writer, arr Array) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeStrictArray)); err != nil {
		return err
	}
	count := uint32(len(arr))
	if err := binary.Write(w, binary.BigEndian, count); err != nil {
		return err
	}
	for _, val := range arr {
		if err := Encode(w, val); err != nil {
			return err
		}
	}
	return nil
}

// encodeNumberArray encodes a strict array of numbers, the layout used by
// keyframes.times and keyframes.filepositions.
func encodeNumberArray(w io.Writer, nums []float64) error {
	arr := make(Array, len(nums))
	for i, n := range nums {
		arr[i] = n
	}
	return encodeArray(w, arr)
}

// EncodeScriptData encodes a script data payload: the handler name as an AMF0
// string followed by its value (normally "onMetaData" + ECMA array).
func EncodeScriptData(name string, val Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeString(&buf, name); err != nil {
		return nil, err
	}
	if err := Encode(&buf, val); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
