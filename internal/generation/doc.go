// Package generation builds board content for the word-board memory game.
//
// It holds three cooperating pieces:
//   - LayoutGenerator places N words on a size×size grid so that all cells are
//     distinct and no three are collinear, retrying random layouts under a
//     bounded attempt budget.
//   - ContentValidator tokenizes a candidate sentence and reports duplicate
//     and overflowing words before any layout is attempted.
//   - Builder ties both together, binding the i-th word to the i-th point and
//     drawing candidate sentences from a SentenceSource when none is given.
//
// Invalid content never produces a BoardContent: it is rejected with a
// ContentError and the caller chooses another sentence.
package generation
