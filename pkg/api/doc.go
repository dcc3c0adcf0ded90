// Package api defines the public types of the flowkit editing model: the
// Flow document and its States, the Editor interface, name and integrity
// validation, the error taxonomy, and the EventSink audit surface.
//
// Most users import the root flowkit package, which re-exports everything
// here together with the per-backend editor constructors.
package api
