// Package anki talks to the AnkiConnect add-on, which exposes a running Anki
// instance over a local JSON API.
//
// Every request is a POST of {"action", "version", "params"} and every
// response is an object with exactly two members, "result" and "error".
// Responses of any other shape are rejected.
package anki
