// Package history stores completed analyses in SQLite.
//
// Every applied completion is saved with its action, the artifact kind it
// produced, the payload sent and the text displayed. Transport failures are
// saved with the error as result so they show up in the history list.
package history
