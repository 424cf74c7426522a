package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Claves con tipo propio; no pueden aparecer como atributo libre.
const (
	KeyCod  = "cod"
	KeyPret = "pret"
)

// descriptionKeys atributos que se usan, en este orden, como descripción en la oferta.
var descriptionKeys = []string{"denumire", "nume", "name", "descriere", "description"}

// Product producto del catálogo. Cod y Pret son obligatorios; el resto son atributos libres.
// En JSON se serializa plano: {"cod":"M-01","pret":1200,"material":"stejar"}.
type Product struct {
	Cod        string
	Pret       decimal.Decimal // precio base, sin adaos
	Attributes map[string]AttrValue
}

// Description texto principal de la línea de oferta.
func (p Product) Description() string {
	for _, k := range descriptionKeys {
		if v, ok := p.Attributes[k]; ok {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return p.Cod
}

// AttributeKeys claves de atributos en orden alfabético (salida determinista).
func (p Product) AttributeKeys() []string {
	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone copia profunda (el mapa de atributos no se comparte).
func (p Product) Clone() Product {
	out := Product{Cod: p.Cod, Pret: p.Pret}
	if p.Attributes != nil {
		out.Attributes = make(map[string]AttrValue, len(p.Attributes))
		for k, v := range p.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// MarshalJSON aplana Cod, Pret y atributos en un único objeto.
func (p Product) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(p.Attributes)+2)
	for k, v := range p.Attributes {
		m[k] = v
	}
	m[KeyCod] = p.Cod
	m[KeyPret] = json.Number(p.Pret.String())
	return json.Marshal(m)
}

// UnmarshalJSON separa cod/pret del resto de atributos. Los null se ignoran.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Product{Attributes: make(map[string]AttrValue, len(raw))}
	for k, v := range raw {
		switch k {
		case KeyCod:
			var cod interface{}
			if err := json.Unmarshal(v, &cod); err != nil {
				return fmt.Errorf("cod: %w", err)
			}
			switch c := cod.(type) {
			case string:
				out.Cod = c
			case float64:
				out.Cod = decimal.NewFromFloat(c).String()
			case nil:
			default:
				return fmt.Errorf("cod: tipo no soportado")
			}
		case KeyPret:
			if string(v) == "null" {
				continue
			}
			if err := out.Pret.UnmarshalJSON(v); err != nil {
				return fmt.Errorf("pret: %w", err)
			}
		default:
			if string(v) == "null" {
				continue
			}
			var av AttrValue
			if err := av.UnmarshalJSON(v); err != nil {
				return fmt.Errorf("atributo %q: %w", k, err)
			}
			out.Attributes[k] = av
		}
	}
	*p = out
	return nil
}
