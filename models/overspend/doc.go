// Package overspend holds the decision and workflow rules that turn a
// household member's statement charges into an accountability project: charge
// grouping, overspend detection, responsibility calculation, the project and
// task state machines, the approval gate and notification composition.
//
// Everything here is free of I/O. Persistence and delivery live in
// models/overspend/service and the store packages.
package overspend
