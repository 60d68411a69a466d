// Package edict reads the EDICT Japanese-English dictionary.
//
// The dictionary is a flat, EUC-JP encoded file with one entry per line in
// one of two shapes:
//
//	WORD [READING] /GLOSS/
//	WORD /GLOSS/
//
// The second shape is used for loan words, whose written form already is the
// reading. Lines matching neither shape are logged and skipped.
//
// An Index holds the parsed entries in file order and answers exact-word
// lookups. It loads its entries at most once, from any Loader: the flat file
// itself (FileLoader) or a SQLite cache of a previous parse (Store).
package edict
