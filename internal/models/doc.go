// Package models defines the core domain models for Trip Ledger.
//
// # Models
//
//   - Trip: a journey shared by an ordered list of members
//   - Expense: a single payment made during a trip, in any currency
//   - Category: the fixed set of expense categories used for reporting
//   - User: a registered account; trip members reference user IDs
//   - Note: a memo shared by the members of a trip
//   - Restaurant, Visit: a user's restaurant journal, optionally linked to a trip
//
// Balances and settlement suggestions are not models: they are derived on
// every request by the calculator package and never stored.
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are expressed with ID strings
// 2. **Unix timestamps**: all dates are stored as seconds since the epoch
// 3. **Validation lives with the model**: Validate() checks well-formedness only;
// membership and permissions are checked by the service layer
package models
