// ABOUTME: Package documentation for the synth engine
// ABOUTME: Describes the patch language and block-based processing model
// Package synth implements a small block-based synthesis engine driven by a
// textual patch language.
//
// The engine computes audio in fixed blocks of BlockSize frames. A patch is a
// set of named chains, one per line:
//
//	out: saw 440 >> mul 0.1
//	~am: sin 2 >> mul 0.5 >> add 0.5
//	lead: squ 220 >> mul ~am >> lpf 800 1.0
//
// Chains whose name starts with "~" are auxiliary: they are not mixed into
// the output but can be referenced as a modulation source by other chains.
// A "~name" argument reads the referenced chain's previous block, which gives
// every reference a one-block delay and makes feedback loops legal without
// any graph ordering analysis.
//
// All non-auxiliary chains are summed into both output channels. The engine
// is not safe for concurrent use; callers that share an Engine across
// goroutines must serialize access (see internal/bridge.Handle).
package synth
