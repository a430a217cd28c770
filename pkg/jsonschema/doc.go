// Package jsonschema validates JSON documents against JSON Schema drafts 3,
// 4, 6 and 7.
//
// A Class describes one dialect: its meta-schema, the functions implementing
// its keywords, the TypeChecker used by the type keyword, and how to find the
// id of a schema. Draft3, Draft4, Draft6 and Draft7 return the built-in
// classes; Create and Extend build new ones.
//
// # Basic Usage
//
// Validate a decoded instance against a decoded schema, picking the draft
// from the schema's $schema:
//
//	err := jsonschema.Validate(instance, schema)
//	var verr *jsonschema.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Println(verr.AbsolutePath(), verr.Message)
//	}
//
// To see every error, bind a class to the schema and range over IterErrors:
//
//	v := jsonschema.Draft7().New(schema)
//	for verr, err := range v.IterErrors(instance) {
//	    if err != nil {
//	        return err // the schema could not be applied, e.g. a bad $ref
//	    }
//	    fmt.Println(verr.AbsolutePath(), verr.Message)
//	}
//
// # Errors
//
// A *ValidationError records the failed keyword, the offending instance and
// schema, and where both are located. Errors from anyOf, oneOf and similar
// keywords carry the errors of every branch in Context. BestMatch picks the
// most useful error of a set and ErrorTree indexes them by location.
//
// # References
//
// $ref is resolved by a Resolver. Documents can be supplied up front with
// WithStore, or fetched on demand by per-scheme Handlers, over HTTP, or from
// disk. A Resolver follows a single traversal and must not be shared between
// goroutines; use SharedRemoteCache to share fetched documents instead.
//
// # Extension
//
// Add a keyword to an existing dialect:
//
//	even := func(v *jsonschema.Validator, value, instance any, schema map[string]any) iter.Seq2[*jsonschema.ValidationError, error] {
//	    ...
//	}
//	class, err := jsonschema.Extend(jsonschema.Draft7(), map[jsonschema.Keyword]jsonschema.KeywordFunc{"even": even})
package jsonschema
