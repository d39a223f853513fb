// Package path owns the immutable path model consumed by the controller
// and the adapter that turns a raw polyline into it.
//
// A Path is built once, by Adapt, and is read-only afterwards. Positions
// along the path are expressed by composition over PathPosition:
// TargetPoint adds a target velocity and Waypoint adds a turn angle on top
// of that, so any Waypoint can be used where a TargetPoint is expected via
// Waypoint.Target.
package path
