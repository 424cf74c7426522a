package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AttrKind tipo de un atributo libre de producto.
type AttrKind uint8

const (
	AttrString AttrKind = iota + 1
	AttrNumber
	AttrBool
)

// AttrValue valor de atributo de producto: string, número o booleano (conjunto cerrado).
// El valor cero no es válido; se construye con StringAttr, NumberAttr o BoolAttr.
type AttrValue struct {
	kind AttrKind
	str  string
	num  float64
	b    bool
}

func StringAttr(s string) AttrValue  { return AttrValue{kind: AttrString, str: s} }
func NumberAttr(n float64) AttrValue { return AttrValue{kind: AttrNumber, num: n} }
func BoolAttr(b bool) AttrValue      { return AttrValue{kind: AttrBool, b: b} }

// Kind devuelve el tipo del valor (0 si no fue inicializado).
func (v AttrValue) Kind() AttrKind { return v.kind }

func (v AttrValue) AsString() (string, bool) { return v.str, v.kind == AttrString }
func (v AttrValue) AsNumber() (float64, bool) { return v.num, v.kind == AttrNumber }
func (v AttrValue) AsBool() (bool, bool)      { return v.b, v.kind == AttrBool }

// String representación para mostrar en ofertas y exportaciones.
func (v AttrValue) String() string {
	switch v.kind {
	case AttrString:
		return v.str
	case AttrNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case AttrBool:
		if v.b {
			return "da"
		}
		return "nu"
	default:
		return ""
	}
}

// MarshalJSON emite el primitivo JSON correspondiente.
func (v AttrValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AttrString:
		return json.Marshal(v.str)
	case AttrNumber:
		return json.Marshal(v.num)
	case AttrBool:
		return json.Marshal(v.b)
	default:
		return nil, fmt.Errorf("atributo sin inicializar")
	}
}

// UnmarshalJSON acepta únicamente string, número o booleano.
func (v *AttrValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("atributo vacío")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringAttr(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolAttr(b)
	case '{', '[', 'n':
		return fmt.Errorf("tipo de atributo no soportado: %s", string(data))
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberAttr(n)
	}
	return nil
}

// ParseAttr interpreta texto libre (celdas de Excel, formularios): número, da/nu/true/false o string.
func ParseAttr(raw string) AttrValue {
	switch raw {
	case "da", "DA", "Da", "true", "TRUE", "True":
		return BoolAttr(true)
	case "nu", "NU", "Nu", "false", "FALSE", "False":
		return BoolAttr(false)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return NumberAttr(n)
	}
	return StringAttr(raw)
}
