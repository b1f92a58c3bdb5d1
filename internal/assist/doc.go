// Package assist implements the suggestion lifecycle manager: the component
// that owns the full life of exactly one pending AI suggestion, from
// presentation through diff display and highlighting to atomic application
// or rejection.
//
// The manager coordinates externally owned editor state (documents,
// surfaces, decorations, diff views) against user-driven accept/reject
// signals. At most one suggestion is pending at any time; presenting a new
// one tears the previous one down, artifacts included. Accepting re-resolves
// the target document by identity, so a suggestion survives its original
// view being closed or displaced by the diff view.
package assist
