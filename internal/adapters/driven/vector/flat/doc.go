// Package flat provides an exact, brute-force L2 vector index.
//
// Every search scans all stored vectors, so results are exact and
// deterministic. The corpora this tool indexes (a syllabus and a few
// textbooks) hold thousands of vectors at most, well within what a linear
// scan handles per query.
package flat
