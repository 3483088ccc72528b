// Package client contains the editor's side of the wire.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for fetching
//     vehicles and gallery snapshots and for submitting change-sets.
//  2. The multipart submission encoding (WriteSubmission, NewSubmissionBody)
//     shared by every submitting call.
//  3. Concrete implementations: HTTPClient for the API and GRPCClient for the
//     health endpoint, combined in Remote.
//
// # Error Handling
//
// Rejections that happen before the server reconciles anything are returned
// as errors matching common.ErrValidation (with field details in
// *ValidationError) or common.ErrMalformedChangeSet. Unknown vehicles match
// common.ErrorNotFound. Connection problems match ErrUnavailable; when such
// an error ends a submission its outcome is unknown.
package client
