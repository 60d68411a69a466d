package model

import (
	"cmp"
	"slices"
)

// Field is one field of a flashcard note.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Note is a flashcard note as supplied by the flashcard application.
type Note struct {
	// NoteID identifies the note for write-back.
	NoteID int64 `json:"note_id"`

	// ModelName is the note type, e.g. "Basic".
	ModelName string `json:"model_name,omitempty"`

	// Tags are the note's tags.
	Tags []string `json:"tags,omitempty"`

	// Fields maps field names to their content.
	Fields map[string]Field `json:"fields"`
}

// FieldValue returns the value of the named field and whether the note has it.
func (n *Note) FieldValue(name string) (string, bool) {
	f, ok := n.Fields[name]
	if !ok {
		return "", false
	}
	return f.Value, true
}

// FieldNames returns the field names in the note type's display order.
func (n *Note) FieldNames() []string {
	names := make([]string, 0, len(n.Fields))
	for name := range n.Fields {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(n.Fields[a].Order, n.Fields[b].Order), cmp.Compare(a, b))
	})
	return names
}
