package babeltrace

import "github.com/majorcontext/babeltrace/internal/native"

// FieldType is the declaration kind of a field.
type FieldType int

const (
	FieldUnknown FieldType = iota
	FieldInteger
	FieldFloat
	FieldEnum
	FieldString
	FieldStruct
	FieldUntaggedVariant
	FieldVariant
	FieldArray
	FieldSequence
)

func (t FieldType) String() string {
	switch t {
	case FieldInteger:
		return "integer"
	case FieldFloat:
		return "float"
	case FieldEnum:
		return "enum"
	case FieldString:
		return "string"
	case FieldStruct:
		return "struct"
	case FieldUntaggedVariant:
		return "untagged_variant"
	case FieldVariant:
		return "variant"
	case FieldArray:
		return "array"
	case FieldSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Compound reports whether fields of this type have children reachable
// through Event.Fields.
func (t FieldType) Compound() bool {
	switch t {
	case FieldStruct, FieldUntaggedVariant, FieldVariant, FieldArray, FieldSequence:
		return true
	}
	return false
}

func fieldTypeFromNative(id native.TypeID) FieldType {
	switch id {
	case native.TypeInteger:
		return FieldInteger
	case native.TypeFloat:
		return FieldFloat
	case native.TypeEnum:
		return FieldEnum
	case native.TypeString:
		return FieldString
	case native.TypeStruct:
		return FieldStruct
	case native.TypeUntaggedVariant:
		return FieldUntaggedVariant
	case native.TypeVariant:
		return FieldVariant
	case native.TypeArray:
		return FieldArray
	case native.TypeSequence:
		return FieldSequence
	default:
		return FieldUnknown
	}
}
