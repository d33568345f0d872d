// Package aggregate turns the accident log into the grouped, counted and
// sorted tables each dashboard chart draws.
//
// Every function here is pure: inputs are never mutated and results are
// freshly allocated. Counting follows dataframe group-by semantics, which
// means rows whose grouping key or accident id is empty are dropped and a
// group's count is the number of distinct accident ids it contains. The log
// can be per-person, so an accident involving three people still counts once.
package aggregate
