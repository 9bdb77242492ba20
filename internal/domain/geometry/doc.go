// Package geometry holds the pure grid predicates used when laying out and
// scoring boards: point collinearity and Euclidean distance between cells.
//
// Everything here is deterministic and allocation-free; callers pass small
// point sets (a board rarely carries more than fifteen words).
package geometry
