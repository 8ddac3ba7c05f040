package query

// SelectField is one projected output column: either a plain column
// reference or an aggregate, under an output alias (As). When As is
// empty the result column takes the referenced column's own name.
type SelectField struct {
	Column    *ColumnRef
	Aggregate *Aggregate
	As        string
}

// OutputName returns the name a row binding should be keyed under:
// the explicit alias if given, otherwise the column name, otherwise
// (for a bare aggregate) the aggregate function name.
func (f SelectField) OutputName() string {
	if f.As != "" {
		return f.As
	}
	if f.Column != nil {
		return f.Column.Name
	}
	if f.Aggregate != nil {
		return string(f.Aggregate.Func)
	}
	return ""
}

func fieldFromColumn(v interface{}) SelectField {
	ref := toColumnRef(v)
	return SelectField{Column: &ref}
}

func fieldFromAggregate(agg *Aggregate) SelectField {
	return SelectField{Aggregate: agg}
}

// toSelectField normalizes one argument to .Select(...) into a
// SelectField. Accepted forms: *Aggregate, SelectField, or anything
// toColumnRef accepts (*schema.Column / schema.Column / string).
func toSelectField(v interface{}) SelectField {
	switch f := v.(type) {
	case SelectField:
		return f
	case *Aggregate:
		return fieldFromAggregate(f)
	default:
		return fieldFromColumn(v)
	}
}

// As returns a copy of the field under a different output alias, for
// use inline in a .Select(query.As("total", query.Sum("amount"))) call.
func As(alias string, v interface{}) SelectField {
	f := toSelectField(v)
	f.As = alias
	return f
}
