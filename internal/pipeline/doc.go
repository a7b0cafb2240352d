// Package pipeline sequences the stages of an analysis request.
//
// A topic request runs FetchStep then ClassifyStep; a direct text request
// runs ClassifyStep only. Each stage is a Step that receives the
// AnalysisResult being assembled and records its own failures in it, so a
// failure in one stage never corrupts the output of another:
//
//	Idle -> Validating -> Fetching -> Classifying -> Done
//	                   \-> ValidationFailed
//
// Done covers three outcomes: a label, a classification error with the
// fetched summary preserved, or "not found" when no summary was fetched.
// Validation failure is the only outcome reported as an error.
//
// Design decision: We keep the pipeline pattern instead of direct function
// calls because:
// 1. The direct text path is the topic path minus its first step
// 2. It provides consistent logging across stages
// 3. The pipeline stops as soon as the result reaches a terminal state
//
// BatchProcessor runs many independent requests with bounded concurrency
// using errgroup. The Analyzer itself is stateless per request and safe for
// concurrent use.
package pipeline
