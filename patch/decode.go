package patch

import (
	"encoding/json"
	"fmt"
)

type wirePatch struct {
	Type  string    `json:"type"`
	Path  []int     `json:"path"`
	ID    string    `json:"id,omitempty"`
	Tag   string    `json:"tag,omitempty"`
	Text  *string   `json:"text,omitempty"`
	Name  *string   `json:"name,omitempty"`
	Value *string   `json:"value,omitempty"`
	Index *int      `json:"index,omitempty"`
	Node  *NodeData `json:"node,omitempty"`
	From  *int      `json:"from,omitempty"`
	To    *int      `json:"to,omitempty"`
	Child string    `json:"child,omitempty"`
}

// UnmarshalJSON decodes one wire patch. An unrecognized type or a missing
// required field is a decode-time error, never a silently-ignored case.
func (p *Patch) UnmarshalJSON(d []byte) error {
	var w wirePatch
	if err := json.Unmarshal(d, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	var k Kind
	if err := k.UnmarshalText([]byte(w.Type)); err != nil {
		return err
	}
	out := Patch{
		Kind:  k,
		Path:  w.Path,
		ID:    w.ID,
		Tag:   w.Tag,
		Child: w.Child,
	}
	switch k {
	case SetText:
		if w.Text == nil {
			return fmt.Errorf("%w: SetText missing 'text'", ErrMalformed)
		}
		out.Text = *w.Text
	case SetAttribute:
		if w.Name == nil || *w.Name == "" {
			return fmt.Errorf("%w: SetAttribute missing 'name'", ErrMalformed)
		}
		out.Name = *w.Name
		out.Value = w.Value
	case InsertChild:
		if w.Index == nil {
			return fmt.Errorf("%w: InsertChild missing 'index'", ErrMalformed)
		}
		if w.Node == nil {
			return fmt.Errorf("%w: InsertChild missing 'node'", ErrMalformed)
		}
		out.Index = *w.Index
		out.Node = w.Node
	case RemoveChild:
		if w.Index == nil {
			return fmt.Errorf("%w: RemoveChild missing 'index'", ErrMalformed)
		}
		out.Index = *w.Index
	case MoveChild:
		if w.To == nil {
			return fmt.Errorf("%w: MoveChild missing 'to'", ErrMalformed)
		}
		if w.From == nil && w.Child == "" {
			return fmt.Errorf("%w: MoveChild missing 'from'", ErrMalformed)
		}
		if w.From != nil {
			out.From = *w.From
		}
		out.To = *w.To
	}
	*p = out
	return nil
}

func (p Patch) MarshalJSON() ([]byte, error) {
	w := wirePatch{
		Path:  p.Path,
		ID:    p.ID,
		Tag:   p.Tag,
		Child: p.Child,
	}
	if w.Path == nil {
		w.Path = []int{}
	}
	switch p.Kind {
	case SetText:
		w.Type = "SetText"
		w.Text = &p.Text
	case SetAttribute:
		w.Type = "SetAttribute"
		w.Name = &p.Name
		w.Value = p.Value
	case InsertChild:
		w.Type = "InsertChild"
		w.Index = &p.Index
		w.Node = p.Node
	case RemoveChild:
		w.Type = "RemoveChild"
		w.Index = &p.Index
	case MoveChild:
		w.Type = "MoveChild"
		w.From = &p.From
		w.To = &p.To
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrMalformed, p.Kind)
	}
	return json.Marshal(w)
}

// DecodeBatch decodes the "patches" array of a patch message.
func DecodeBatch(d []byte) ([]Patch, error) {
	var ps []Patch
	if err := json.Unmarshal(d, &ps); err != nil {
		return nil, fmt.Errorf("decoding patch batch: %w", err)
	}
	return ps, nil
}
