// Package models defines the core domain models for the expense tracker.
//
// # Stores and their models
//
//   - Group, Member, GroupExpense, SplitMember: the group ledger — shared
//     costs, who fronted them, and who still owes their share
//   - Expense: a personal (non-group) expense
//   - Investment: a holding with purchase and current prices
//   - Subscription: a recurring charge on a billing cycle
//   - Settings: the local user's preferences
//
// Every model is a plain value type that serializes to the JSON documents
// kept in local storage. The JSON tag names are a compatibility surface:
// documents written by earlier versions of the app must keep loading, so
// they are never renamed.
//
// # Design principles
//
// 1. **Weak references**: relations use ID strings, never pointers. A
// member removed from a group may still be referenced by old expenses;
// readers resolve IDs by lookup and treat misses as "not found".
//
// 2. **Typed patches**: partial updates go through explicit *Patch structs
// with pointer fields instead of free-form merges. A nil field means
// "leave unchanged" and the compiler knows every updatable field.
//
// 3. **No behavior beyond merging**: aggregation and balance arithmetic
// live in the calculator and store packages, not on the models.
package models
