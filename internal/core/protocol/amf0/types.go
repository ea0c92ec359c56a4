// If you are AI: This file defines AMF0 type constants and basic types.

package amf0

// AMF0 type markers
const (
	TypeNumber      = 0
	TypeBoolean     = 1
	TypeString      = 2
	TypeObject      = 3
	TypeNull        = 5
	TypeUndefined   = 6
	TypeReference   = 7
	TypeECMAArray   = 8
	TypeObjectEnd   = 9
	TypeStrictArray = 10
	TypeDate        = 11
	TypeLongString  = 12
	TypeXMLDocument = 15
	TypeTypedObject = 16
)

// Sizes of fixed-width AMF0 fields.
const (
	NumberSize      = 8
	ArrayCountSize  = 4
	NumberValueSize = 1 + NumberSize // type marker + payload
)

// Value represents a decoded AMF0 value.
type Value interface{}

// Object represents an AMF0 object (key-value pairs).
type Object map[string]Value

// Array represents an AMF0 strict array.
type Array []Value

// Property is a single key-value pair with a stable position.
type Property struct {
	Key   string
	Value Value
}

// Properties is an AMF0 object whose keys are encoded in slice order.
// onMetaData writers rely on this ordering (duration before keyframes).
type Properties []Property

// ECMAArray is an ordered AMF0 ECMA array, the usual onMetaData container.
type ECMAArray []Property
