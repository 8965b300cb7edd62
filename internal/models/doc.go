// Package models defines the domain entities of the songq music catalog.
//
// The package contains two categories of types:
//
// 1. Value types shared by the in-memory structures and the flat-file codec
//   - [Song] : A catalog record, plus the priority flag and sequence it carries while queued
//   - [Priority] : Tri-state queue priority (unset, high, normal)
//
// 2. Persistent Entities: Database-backed models with lifecycle management
//   - [Snapshot] : An archived copy of the catalog and queue files
//
// Persistent entities implement the [Model] interface providing ID, timestamps, and validation.
// The [Repository] interface defines the archive operations for database access.
package models
