package jsonschema

// Keywords whose draft 3 and draft 4 semantics differ from later drafts.

func dependenciesDraft3(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	deps, _ := asObject(value)
	if obj == nil || deps == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		for _, property := range sortedKeys(deps) {
			if _, present := obj[property]; !present {
				continue
			}
			dep := deps[property]
			if _, isSchema := asObject(dep); isSchema {
				if !forward(v.Descend(instance, dep, nil, property), yield) {
					return
				}
				continue
			}
			names, ok := asArray(dep)
			if !ok {
				names = []any{dep}
			}
			for _, each := range names {
				name, _ := each.(string)
				if _, present := obj[name]; present {
					continue
				}
				if !yield(errorf("%s is a dependency of %s", repr(each), repr(property)), nil) {
					return
				}
			}
		}
	}
}

func disallowDraft3(v *Validator, value, instance any, _ map[string]any) errSeq {
	return func(yield func(*ValidationError, error) bool) {
		for _, disallowed := range typeNames(value) {
			valid, err := v.isValidAt(instance, map[string]any{"type": []any{disallowed}})
			if err != nil {
				yield(nil, err)
				return
			}
			if !valid {
				continue
			}
			if !yield(errorf("%s is disallowed for %s", repr(disallowed), repr(instance)), nil) {
				return
			}
		}
	}
}

func extendsDraft3(v *Validator, value, instance any, _ map[string]any) errSeq {
	if _, isSchema := asObject(value); isSchema {
		return v.Descend(instance, value, nil, nil)
	}
	subschemas, ok := asArray(value)
	if !ok {
		return nothing
	}
	return func(yield func(*ValidationError, error) bool) {
		for i, sub := range subschemas {
			if !forward(v.Descend(instance, sub, nil, i), yield) {
				return
			}
		}
	}
}

// itemsDraft3Draft4 differs from items in treating any non-object value as a
// list of schemas.
func itemsDraft3Draft4(v *Validator, value, instance any, _ map[string]any) errSeq {
	arr, err := v.arrayOf(instance)
	if arr == nil {
		return skip(err)
	}
	if _, isSchema := asObject(value); isSchema {
		return func(yield func(*ValidationError, error) bool) {
			for i, item := range arr {
				if !forward(v.Descend(item, value, i, nil), yield) {
					return
				}
			}
		}
	}
	tuple, _ := asArray(value)
	return func(yield func(*ValidationError, error) bool) {
		for i := 0; i < len(arr) && i < len(tuple); i++ {
			if !forward(v.Descend(arr[i], tuple[i], i, i), yield) {
				return
			}
		}
	}
}

// minimumDraft3Draft4 reads the boolean exclusiveMinimum sibling.
func minimumDraft3Draft4(v *Validator, value, instance any, schema map[string]any) errSeq {
	if schema["exclusiveMinimum"] == true {
		return numericBound(v, value, instance, func(c int) bool { return c <= 0 },
			"%s is less than or equal to the minimum of %s")
	}
	return minimum(v, value, instance, schema)
}

// maximumDraft3Draft4 reads the boolean exclusiveMaximum sibling.
func maximumDraft3Draft4(v *Validator, value, instance any, schema map[string]any) errSeq {
	if schema["exclusiveMaximum"] == true {
		return numericBound(v, value, instance, func(c int) bool { return c >= 0 },
			"%s is greater than or equal to the maximum of %s")
	}
	return maximum(v, value, instance, schema)
}

// propertiesDraft3 also enforces the boolean required flag of each property
// schema. A missing required property is reported as a failure of that
// flag: the error's schema is the property schema and its schema path ends
// in the property name and "required".
func propertiesDraft3(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	props, _ := asObject(value)
	if obj == nil || props == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		for _, property := range sortedKeys(props) {
			sub := props[property]
			if child, present := obj[property]; present {
				if !forward(v.Descend(child, sub, property, property), yield) {
					return
				}
				continue
			}
			subObj, _ := asObject(sub)
			if subObj["required"] != true {
				continue
			}
			e := errorf("%s is a required property", repr(property))
			e.setDetails(KeywordRequired, subObj["required"], instance, sub)
			e.RelativeSchemaPath = Path{property, "required"}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// typeDraft3 accepts schemas as well as names in the list of types, and
// collects the errors of every schema it tries.
func typeDraft3(v *Validator, value, instance any, _ map[string]any) errSeq {
	types := typeNames(value)
	var all []*ValidationError
	for i, t := range types {
		if _, isSchema := asObject(t); isSchema {
			errs, err := collect(v.Descend(instance, t, nil, i))
			if err != nil {
				return skip(err)
			}
			if len(errs) == 0 {
				return nothing
			}
			all = append(all, errs...)
			continue
		}
		name, ok := t.(string)
		if !ok {
			return skip(&UnknownTypeError{Type: repr(t), Instance: instance, Schema: v.schema})
		}
		if name == "any" {
			return nothing
		}
		matched, err := v.IsType(instance, name)
		if err != nil {
			return skip(err)
		}
		if matched {
			return nothing
		}
	}
	return single(newError(typesMsg(instance, types), all...))
}
