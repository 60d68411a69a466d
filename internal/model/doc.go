// Package model defines the data passed between the flashcard client, the
// conversion pipeline, and the report writers.
//
//   - Note: a flashcard note and its fields
//   - NoteResult: everything that happened to one note
//   - RunReport: the results of one deck conversion
//   - Status: the outcome of one note
//
// The types are plain structs with JSON tags so that reports can be
// serialized as they are.
package model
