// Package traits models typed identity traits and the merge engine that
// reconciles identify-call updates against stored traits.
//
// A trait is a typed key/value fact about an end user ("plan" = "pro",
// "logins" = 42). Segment rules evaluate against a trait Set; the merge
// engine computes the create/update/delete change sets for the identity
// store without performing any I/O itself:
//
//	result := traits.Merge(stored, incoming)
//	if result.Changed() {
//		// apply result.Created / result.Updated / result.DeletedKeys
//	}
//	set := traits.NewSet(result.Result)
//
// Posting a null value deletes the trait; posting null for a key that does
// not exist is a no-op. Races between concurrent identify calls for the
// same identity are tolerated by design: last writer wins and duplicate
// creates are ignored at the store layer.
package traits
