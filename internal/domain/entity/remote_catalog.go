package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexID id de la API remota: acepta string o número en el JSON y se guarda como string.
type FlexID string

// UnmarshalJSON acepta "12", 12 y null.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id remoto inválido: %s", string(data))
		}
		*id = FlexID(n.String())
	}
	return nil
}

// RemoteCategory categoría de FeroShop. Los campos desconocidos se conservan en Extra.
type RemoteCategory struct {
	ID    FlexID
	Slug  string
	Name  string
	Extra map[string]json.RawMessage
}

// RemoteProduct producto de FeroShop. CategorySlug lo completa el filtrado.
type RemoteProduct struct {
	ID           FlexID
	CategoryID   FlexID
	CategorySlug string
	Extra        map[string]json.RawMessage
}

// RemoteCatalog documento devuelto por la API remota.
type RemoteCatalog struct {
	Categories []RemoteCategory `json:"categories"`
	Products   []RemoteProduct  `json:"products"`
}

func (c *RemoteCategory) UnmarshalJSON(data []byte) error {
	raw, err := splitKnown(data, "id", "slug", "name")
	if err != nil {
		return err
	}
	out := RemoteCategory{Extra: raw.extra}
	if err := raw.decode("id", &out.ID); err != nil {
		return err
	}
	if err := raw.decode("slug", &out.Slug); err != nil {
		return err
	}
	if err := raw.decode("name", &out.Name); err != nil {
		return err
	}
	*c = out
	return nil
}

func (c RemoteCategory) MarshalJSON() ([]byte, error) {
	m := cloneRaw(c.Extra)
	if c.ID != "" {
		m["id"] = mustRaw(string(c.ID))
	}
	m["slug"] = mustRaw(c.Slug)
	if c.Name != "" {
		m["name"] = mustRaw(c.Name)
	}
	return json.Marshal(m)
}

func (p *RemoteProduct) UnmarshalJSON(data []byte) error {
	raw, err := splitKnown(data, "id", "categoryId", "categorySlug")
	if err != nil {
		return err
	}
	out := RemoteProduct{Extra: raw.extra}
	if err := raw.decode("id", &out.ID); err != nil {
		return err
	}
	if err := raw.decode("categoryId", &out.CategoryID); err != nil {
		return err
	}
	if err := raw.decode("categorySlug", &out.CategorySlug); err != nil {
		return err
	}
	*p = out
	return nil
}

func (p RemoteProduct) MarshalJSON() ([]byte, error) {
	m := cloneRaw(p.Extra)
	if p.ID != "" {
		m["id"] = mustRaw(string(p.ID))
	}
	m["categoryId"] = mustRaw(string(p.CategoryID))
	if p.CategorySlug != "" {
		m["categorySlug"] = mustRaw(p.CategorySlug)
	}
	return json.Marshal(m)
}

// Field devuelve un campo extra decodificado en v (false si no existe o no se puede decodificar).
func (p RemoteProduct) Field(key string, v interface{}) bool {
	raw, ok := p.Extra[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

type knownFields struct {
	known map[string]json.RawMessage
	extra map[string]json.RawMessage
}

func splitKnown(data []byte, keys ...string) (knownFields, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return knownFields{}, err
	}
	out := knownFields{known: map[string]json.RawMessage{}, extra: map[string]json.RawMessage{}}
	for k, v := range all {
		out.extra[k] = v
	}
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out.known[k] = v
			delete(out.extra, k)
		}
	}
	return out, nil
}

func (f knownFields) decode(key string, v interface{}) error {
	raw, ok := f.known[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(key), err)
	}
	return nil
}

func cloneRaw(in map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(in)+3)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func mustRaw(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
