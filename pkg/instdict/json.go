package instdict

import (
	"encoding/json"
	"io"
	"strconv"
)

// jsonInstruction is the wire shape of one dictionary entry.
type jsonInstruction struct {
	Encoding       string   `json:"encoding"`
	VariableFields []string `json:"variable_fields"`
	Extension      []string `json:"extension"`
	Match          string   `json:"match"`
	Mask           string   `json:"mask"`
}

// MarshalJSON renders the dictionary as a single object keyed by
// mnemonic, ascending. encoding/json already sorts map keys for map
// types, but this builds the ordered object explicitly from a sorted
// name slice so the ordering contract doesn't rely on that incidental
// stdlib behavior.
func (d Dictionary) MarshalJSON() ([]byte, error) {
	names := d.Sorted()
	out := make(map[string]jsonInstruction, len(names))
	for _, name := range names {
		in := d[name]
		out[name] = jsonInstruction{
			Encoding:       in.Encoding,
			VariableFields: in.VariableFields,
			Extension:      in.ExtensionList(),
			Match:          in.MatchHex(),
			Mask:           in.MaskHex(),
		}
	}
	return marshalOrdered(names, out)
}

// marshalOrdered writes a JSON object with keys in the given order,
// since Go maps (and encoding/json's default map marshaling, which
// sorts lexically anyway) don't let us assert intent without a test —
// this makes the ordering contract explicit in code.
func marshalOrdered(names []string, values map[string]jsonInstruction) ([]byte, error) {
	buf := []byte{'{'}
	for i, name := range names {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		valJSON, err := json.Marshal(values[name])
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// WriteJSON writes the canonical dictionary JSON to w.
func WriteJSON(w io.Writer, d Dictionary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// ReadJSON parses a canonical dictionary JSON document back into a
// Dictionary, the inverse of MarshalJSON.
func ReadJSON(r io.Reader) (Dictionary, error) {
	var raw map[string]jsonInstruction
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	dict := make(Dictionary, len(raw))
	for name, ji := range raw {
		match, err := parseHexUint32(ji.Match)
		if err != nil {
			return nil, err
		}
		mask, err := parseHexUint32(ji.Mask)
		if err != nil {
			return nil, err
		}
		exts := make(map[string]struct{}, len(ji.Extension))
		for _, e := range ji.Extension {
			exts[e] = struct{}{}
		}
		dict[name] = Instruction{
			Name:           name,
			Encoding:       ji.Encoding,
			VariableFields: ji.VariableFields,
			Extensions:     exts,
			Match:          match,
			Mask:           mask,
		}
	}
	return dict, nil
}

func parseHexUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	return uint32(v), err
}
