package search

import "errors"

// ErrNoCorpus is returned when search runs without a loaded corpus.
var ErrNoCorpus = errors.New("no corpus loaded")

// ErrNoTextbook is returned when textbook search runs on a corpus without textbooks.
var ErrNoTextbook = errors.New("no textbooks in corpus")
