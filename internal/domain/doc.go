// Package domain contains the core entities of the task manager:
// users, roles and tasks. Entities validate themselves; persistence
// and transport concerns live elsewhere.
package domain
