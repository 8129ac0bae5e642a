// Package definition loads questionnaire definitions from JSON or YAML
// documents. A definition is the server-rendered description of a page: its
// questions, their answer options, the dependencies between them and where
// to submit the answers.
//
// Widget identifiers follow a fixed convention unless overridden:
//
//	choice input   saq-<question>-<answer>
//	widget         saq-<question>
//	block          saq-block-<question>
package definition
