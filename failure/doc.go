// Package failure defines the typed failure shape produced by remote
// operations and the classification logic that decides retryability.
//
// Remote calls report failures as *failure.Error values carrying an error
// code, an optional HTTP-like status, an optional server-provided
// retry-after hint, and structured details. Classify projects any error
// (including plain errors, net errors, and context errors) onto a
// Classification that the retry engine consumes:
//
//	cls := failure.Classify(err)
//	if cls.Retryable {
//	    // back off and try again; cls.WaitHint may override the delay
//	}
//
// The default policy treats connectivity loss, timeouts, server-side
// faults, and explicit rate-limit rejections as retryable, and
// authentication/authorization and malformed-request failures as
// permanent. Callers can override the default per call site with a
// custom predicate on the retry policy.
package failure
