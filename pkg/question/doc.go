// Package question holds the answer model of a questionnaire: individual
// Questions, the ordered Registry that validates them as a whole, and the
// flat Payload they serialise into for submission.
package question
