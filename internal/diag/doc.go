// Package diag defines findings, the evidence invariant, and the Bag that
// accumulates findings during one analysis.
//
// A Finding is the unit of output for the whole pipeline. Its Primary span
// is a byte range into the inspected document; line and column are derived
// at render time. Construction through New enforces the evidence invariant:
// a finding with empty evidence is refused.
package diag
