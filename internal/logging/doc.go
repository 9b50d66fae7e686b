// Package logging builds the slog loggers shared by the moviebuff CLI and
// daemon.
//
// Console output uses a compact human handler; file output is JSON and is
// rotated through lumberjack. Context helpers stamp request correlation IDs
// and movie identifiers onto records so API traffic can be traced end to end.
package logging
