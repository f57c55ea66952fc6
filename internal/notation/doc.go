// Package notation rewrites mathematical text into words a speech engine can
// pronounce: "x^2 - 4 = 0" becomes "x squared minus four equals zero".
//
// Text is split into tokens and passed through a fixed sequence of stages.
// Each stage owns an ordered list of rules, and the first rule that matches
// at a position wins. Symbols no rule recognizes pass through unchanged.
package notation
