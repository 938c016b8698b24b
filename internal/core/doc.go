// Package core provides the business logic for the users CSV import.
//
// This package contains all domain logic independent of the command line
// and of any specific database driver. Drivers satisfy the narrow [Store]
// interface; the CLI builds a [RunConfig] and calls [Run].
//
// # Pipeline
//
// A run moves data through four stages:
//
//  1. [LoadInput] reads the file, checks it and converts it to clean UTF-8
//  2. [ParseBatch] tokenizes rows and applies [Normalize] to each
//  3. [BuildIntents] turns users into parameter-bound [InsertionIntent] values
//  4. The store executes each intent rendered by its [Dialect]
//
// [Bootstrap] is separate: it drops and recreates the database and the
// users table, and only runs when explicitly requested.
//
// # Normalization
//
// Names are trimmed, lowercased and given a capital first letter:
//
//	Normalize(RawRecord{"jAne", " SMITH ", " Jane.Smith@Example.COM "}, 1)
//	// NormalizedUser{Name: "Jane", Surname: "Smith", Email: "jane.smith@example.com"}
//
// Emails are trimmed, lowercased and checked against an RFC 5322 dot-atom
// grammar (see [ValidEmail]).
//
// # Error Handling
//
// Whole-run failures are typed: [*FileError], [ValidationError],
// [*StoreConnectionError] and [*StoreQueryError]. Insert rejections are
// row-scoped and collected in [ImportResult.Failures]. [MapError] turns any
// of them into a coded, user-friendly message.
package core
