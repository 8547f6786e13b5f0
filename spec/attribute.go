package spec

import (
	"encoding/json"
	"strings"
)

// Attribute models a SCIM attribute definition (RFC 7643 §2.2). It is the
// basic unit used to describe one field of a Schema, and by extension one
// field of a ResourceType's combined super-attribute.
//
// Attribute is read-only after construction; use the Builder-style
// constructors in this package (NewSimpleAttribute, NewComplexAttribute) to
// build one, and the accessor methods below to inspect it.
type Attribute struct {
	name            string
	description     string
	typ             Type
	subAttributes   []*Attribute
	canonicalValues []string
	multiValued     bool
	required        bool
	caseExact       bool
	mutability      Mutability
	returned        Returned
	uniqueness      Uniqueness
	referenceTypes  []string
}

// NewSimpleAttribute returns a non-complex attribute of the given name and type.
func NewSimpleAttribute(name string, typ Type) *Attribute {
	return &Attribute{name: name, typ: typ, mutability: MutabilityReadWrite, returned: ReturnedDefault}
}

// NewComplexAttribute returns a complex attribute with the given sub attributes.
func NewComplexAttribute(name string, subAttributes ...*Attribute) *Attribute {
	return &Attribute{
		name:          name,
		typ:           TypeComplex,
		subAttributes: subAttributes,
		mutability:    MutabilityReadWrite,
		returned:      ReturnedDefault,
	}
}

// MultiValued marks the attribute as multiValued and returns it, for chained construction.
func (attr *Attribute) MultiValued(v bool) *Attribute { attr.multiValued = v; return attr }

// AsRequired marks the attribute as required and returns it, for chained construction.
func (attr *Attribute) AsRequired(v bool) *Attribute { attr.required = v; return attr }

// WithMutability sets the attribute's mutability and returns it, for chained construction.
func (attr *Attribute) WithMutability(m Mutability) *Attribute { attr.mutability = m; return attr }

// WithReturned sets the attribute's returned-ability and returns it, for chained construction.
func (attr *Attribute) WithReturned(r Returned) *Attribute { attr.returned = r; return attr }

// WithUniqueness sets the attribute's uniqueness and returns it, for chained construction.
func (attr *Attribute) WithUniqueness(u Uniqueness) *Attribute { attr.uniqueness = u; return attr }

// WithCaseExact sets case sensitivity and returns it, for chained construction.
func (attr *Attribute) WithCaseExact(v bool) *Attribute { attr.caseExact = v; return attr }

// WithDescription sets the description and returns it, for chained construction.
func (attr *Attribute) WithDescription(d string) *Attribute { attr.description = d; return attr }

// Name returns the attribute's name.
func (attr *Attribute) Name() string { return attr.name }

// Description returns human-readable text describing the attribute.
func (attr *Attribute) Description() string { return attr.description }

// Type returns the attribute's data type.
func (attr *Attribute) Type() Type { return attr.typ }

// IsMultiValued returns whether several values may be present for this attribute.
func (attr *Attribute) IsMultiValued() bool { return attr.multiValued }

// Required returns whether the attribute is required.
func (attr *Attribute) Required() bool { return attr.required }

// CaseExact returns whether the attribute's value is case sensitive.
func (attr *Attribute) CaseExact() bool { return attr.caseExact }

// Mutability returns the attribute's mutability definition.
func (attr *Attribute) Mutability() Mutability { return attr.mutability }

// Returned returns the attribute's returned definition.
func (attr *Attribute) Returned() Returned { return attr.returned }

// Uniqueness returns the attribute's uniqueness definition.
func (attr *Attribute) Uniqueness() Uniqueness { return attr.uniqueness }

// SubAttributes returns the attribute's sub attributes, if it is complex.
func (attr *Attribute) SubAttributes() []*Attribute { return attr.subAttributes }

// SubAttributeForName returns the sub attribute addressable by the given name (case insensitive), or nil.
func (attr *Attribute) SubAttributeForName(name string) *Attribute {
	for _, sub := range attr.subAttributes {
		if strings.EqualFold(sub.name, name) {
			return sub
		}
	}
	return nil
}

// DFS performs a depth-first traversal of the attribute tree rooted at attr.
func (attr *Attribute) DFS(callback func(attr *Attribute)) {
	callback(attr)
	for _, each := range attr.subAttributes {
		each.DFS(callback)
	}
}

func (attr *Attribute) MarshalJSON() ([]byte, error) {
	m := attrMarshaler{
		Name:            attr.name,
		Description:     attr.description,
		Type:            attr.typ.String(),
		CanonicalValues: attr.canonicalValues,
		MultiValued:     attr.multiValued,
		Required:        attr.required,
		CaseExact:       attr.caseExact,
		Mutability:      attr.mutability.String(),
		Returned:        attr.returned.String(),
		Uniqueness:      attr.uniqueness.String(),
		ReferenceTypes:  attr.referenceTypes,
	}
	m.SubAttributes = append(m.SubAttributes, attr.subAttributes...)
	return json.Marshal(m)
}

type attrMarshaler struct {
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	Type            string       `json:"type"`
	CanonicalValues []string     `json:"canonicalValues,omitempty"`
	MultiValued     bool         `json:"multiValued"`
	Required        bool         `json:"required"`
	CaseExact       bool         `json:"caseExact"`
	Mutability      string       `json:"mutability"`
	Returned        string       `json:"returned"`
	Uniqueness      string       `json:"uniqueness"`
	ReferenceTypes  []string     `json:"referenceTypes,omitempty"`
	SubAttributes   []*Attribute `json:"subAttributes,omitempty"`
}
