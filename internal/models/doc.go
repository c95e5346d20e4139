// Package models defines the value records shared by the share calculator,
// the settlement engine and the persistence layer.
//
// Records reference each other by ID only (a split holds its participants
// by value and names members by MemberID); there are no back-pointers.
//
//   - Split: one shared expense with its computed participant shares
//   - ParticipantInput: caller-supplied split strategy input for one member
//   - ParticipantShare: computed share of one member in a split
//   - Settlement: a proposed transfer between two members of a trip
//   - Tag: label attached to splits
package models
