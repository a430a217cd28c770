package jsonschema

import "sync"

func draft3Keywords() map[Keyword]KeywordFunc {
	return map[Keyword]KeywordFunc{
		KeywordRef:                  ref,
		KeywordAdditionalItems:      additionalItems,
		KeywordAdditionalProperties: additionalProperties,
		KeywordDependencies:         dependenciesDraft3,
		KeywordDisallow:             disallowDraft3,
		KeywordDivisibleBy:          multipleOf,
		KeywordEnum:                 enum,
		KeywordExtends:              extendsDraft3,
		KeywordFormat:               format,
		KeywordItems:                itemsDraft3Draft4,
		KeywordMaxItems:             maxItems,
		KeywordMaxLength:            maxLength,
		KeywordMaximum:              maximumDraft3Draft4,
		KeywordMinItems:             minItems,
		KeywordMinLength:            minLength,
		KeywordMinimum:              minimumDraft3Draft4,
		KeywordPattern:              pattern,
		KeywordPatternProperties:    patternProperties,
		KeywordProperties:           propertiesDraft3,
		KeywordType:                 typeDraft3,
		KeywordUniqueItems:          uniqueItems,
	}
}

func draft4Keywords() map[Keyword]KeywordFunc {
	return map[Keyword]KeywordFunc{
		KeywordRef:                  ref,
		KeywordAdditionalItems:      additionalItems,
		KeywordAdditionalProperties: additionalProperties,
		KeywordAllOf:                allOf,
		KeywordAnyOf:                anyOf,
		KeywordDependencies:         dependencies,
		KeywordEnum:                 enum,
		KeywordFormat:               format,
		KeywordItems:                itemsDraft3Draft4,
		KeywordMaxItems:             maxItems,
		KeywordMaxLength:            maxLength,
		KeywordMaxProperties:        maxProperties,
		KeywordMaximum:              maximumDraft3Draft4,
		KeywordMinItems:             minItems,
		KeywordMinLength:            minLength,
		KeywordMinProperties:        minProperties,
		KeywordMinimum:              minimumDraft3Draft4,
		KeywordMultipleOf:           multipleOf,
		KeywordNot:                  notKeyword,
		KeywordOneOf:                oneOf,
		KeywordPattern:              pattern,
		KeywordPatternProperties:    patternProperties,
		KeywordProperties:           properties,
		KeywordRequired:             required,
		KeywordType:                 typeKeyword,
		KeywordUniqueItems:          uniqueItems,
	}
}

func draft6Keywords() map[Keyword]KeywordFunc {
	return map[Keyword]KeywordFunc{
		KeywordRef:                  ref,
		KeywordAdditionalItems:      additionalItems,
		KeywordAdditionalProperties: additionalProperties,
		KeywordAllOf:                allOf,
		KeywordAnyOf:                anyOf,
		KeywordConst:                constKeyword,
		KeywordContains:             containsKeyword,
		KeywordDependencies:         dependencies,
		KeywordEnum:                 enum,
		KeywordExclusiveMaximum:     exclusiveMaximum,
		KeywordExclusiveMinimum:     exclusiveMinimum,
		KeywordFormat:               format,
		KeywordItems:                items,
		KeywordMaxItems:             maxItems,
		KeywordMaxLength:            maxLength,
		KeywordMaxProperties:        maxProperties,
		KeywordMaximum:              maximum,
		KeywordMinItems:             minItems,
		KeywordMinLength:            minLength,
		KeywordMinProperties:        minProperties,
		KeywordMinimum:              minimum,
		KeywordMultipleOf:           multipleOf,
		KeywordNot:                  notKeyword,
		KeywordOneOf:                oneOf,
		KeywordPattern:              pattern,
		KeywordPatternProperties:    patternProperties,
		KeywordProperties:           properties,
		KeywordPropertyNames:        propertyNames,
		KeywordRequired:             required,
		KeywordType:                 typeKeyword,
		KeywordUniqueItems:          uniqueItems,
	}
}

func draft7Keywords() map[Keyword]KeywordFunc {
	kw := draft6Keywords()
	kw[KeywordIf] = ifKeyword
	return kw
}

func mustCreate(metaSchema any, keywords map[Keyword]KeywordFunc, opts ...ClassOption) *Class {
	c, err := Create(metaSchema, keywords, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	draft3 = sync.OnceValue(func() *Class {
		return mustCreate(mustMetaSchema("draft3"), draft3Keywords(),
			WithVersion("draft3"), WithTypeChecker(Draft3TypeChecker()), WithIDOf(LegacyID))
	})
	draft4 = sync.OnceValue(func() *Class {
		return mustCreate(mustMetaSchema("draft4"), draft4Keywords(),
			WithVersion("draft4"), WithTypeChecker(Draft4TypeChecker()), WithIDOf(LegacyID))
	})
	draft6 = sync.OnceValue(func() *Class {
		return mustCreate(mustMetaSchema("draft6"), draft6Keywords(),
			WithVersion("draft6"), WithTypeChecker(Draft6TypeChecker()))
	})
	draft7 = sync.OnceValue(func() *Class {
		return mustCreate(mustMetaSchema("draft7"), draft7Keywords(),
			WithVersion("draft7"), WithTypeChecker(Draft7TypeChecker()))
	})
)

// Draft3 validates draft 3 schemas.
func Draft3() *Class { return draft3() }

// Draft4 validates draft 4 schemas.
func Draft4() *Class { return draft4() }

// Draft6 validates draft 6 schemas.
func Draft6() *Class { return draft6() }

// Draft7 validates draft 7 schemas. It is the latest draft supported.
func Draft7() *Class { return draft7() }

func builtinClasses() []*Class {
	return []*Class{Draft3(), Draft4(), Draft6(), Draft7()}
}
