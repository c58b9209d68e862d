// Package recommend ranks government support policies for a user.
//
// The pipeline normalizes the request into search text, retrieves a
// candidate pool through a degrading three-tier strategy, applies a hard
// eligibility gate for restricted-target policies, blends semantic, intent,
// and eligibility components into a hybrid score, enforces category
// diversity, maps scores onto a display scale, and attaches explanations to
// the leading picks.
//
// Engine is the entry point. Internal failures after request validation
// degrade to an empty result rather than an error.
package recommend
