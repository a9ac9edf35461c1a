// Package reconcile computes the interface configuration to commit for one
// fabric edge device.
//
// The controller stores the fabric role of each edge port in the device's
// DeviceInfo document as a list of interface entries. Given that document
// and the desired rows for the device, Reconcile removes, updates or adds
// entries and returns the list to send back in a single commit.
//
// Controller generations differ in how untouched entries are committed and in
// which fields are reset on update. A Profile captures those differences so
// the algorithm itself exists once.
package reconcile
