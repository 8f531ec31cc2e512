// Package transcript records calculator key presses and renders them.
//
// Recorder and ChannelSink implement calcx.Sink. Encode writes a recorded
// session as JSON or YAML, and ExportDOT draws the input-mode chart for
// Graphviz with the active mode highlighted.
package transcript
