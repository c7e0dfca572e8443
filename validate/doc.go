// Package validate evaluates CEL rules against wire messages before
// serialization.
//
// Rules are written against a variable "msg", a map view of the message's
// set fields (nested messages become nested maps, enums become their value
// names). A Validator compiles its rules once and plugs into a codec via
// bridge.WithValidator, so rule violations aggregate with conversion errors
// in the same failure report.
package validate
