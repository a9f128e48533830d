// Package textutil normalizes free-form titles so names reported by different
// media services can be compared.
//
// Fold applies Unicode compatibility normalization, case folding, and
// whitespace collapsing. It is deliberately lossy and is only used by the
// opt-in fold title matcher; exact comparison remains the default elsewhere.
package textutil
