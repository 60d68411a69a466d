// Package pipeline runs each note through a fixed sequence of steps:
// extracting the fields, sanitizing, deciding the conversion, suggesting a
// reading, composing the safety net, and writing back.
//
// Every step records what it did in a model.NoteResult. A step that fails
// stops processing of that note only; the Processor moves on to the next
// note and the failure appears in the run report.
package pipeline
