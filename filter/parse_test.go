package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AttrExpr(t *testing.T) {
	for _, test := range []struct {
		name   string
		input  string
		expect *Expr
	}{
		{
			"simple equality",
			`userName eq "david"`,
			&Expr{Kind: KindAttribute, Path: Path{Attr: "userName"}, Operator: OpEqual, Value: "david"},
		},
		{
			"sub attribute",
			`name.familyName eq "Qiu"`,
			&Expr{Kind: KindAttribute, Path: Path{Attr: "name", SubAttr: "familyName"}, Operator: OpEqual, Value: "Qiu"},
		},
		{
			"presence",
			`active pr`,
			&Expr{Kind: KindAttribute, Path: Path{Attr: "active"}, Present: true},
		},
		{
			"boolean value",
			`active eq true`,
			&Expr{Kind: KindAttribute, Path: Path{Attr: "active"}, Operator: OpEqual, Value: true},
		},
		{
			"numeric value",
			`age gt 21`,
			&Expr{Kind: KindAttribute, Path: Path{Attr: "age"}, Operator: OpGreaterThan, Value: 21.0},
		},
		{
			"uri qualified path",
			`urn:ietf:params:scim:schemas:extension:enterprise:2.0:User:employeeNumber eq "701"`,
			&Expr{
				Kind:     KindAttribute,
				Path:     Path{URI: "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User", Attr: "employeeNumber"},
				Operator: OpEqual,
				Value:    "701",
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expect, got)
		})
	}
}

func TestParse_LogicalAssociatesRight(t *testing.T) {
	got, err := Parse(`a eq "1" and b eq "2" and c eq "3"`)
	require.NoError(t, err)

	require.Equal(t, KindLogical, got.Kind)
	require.Equal(t, LogAnd, got.LogOp)
	assert.Equal(t, "a", got.Left.Path.Attr)

	require.Equal(t, KindLogical, got.Right.Kind)
	assert.Equal(t, "b", got.Right.Left.Path.Attr)
	assert.Equal(t, "c", got.Right.Right.Path.Attr)
}

func TestParse_ParenthesesAreGroupingOnly(t *testing.T) {
	got, err := Parse(`(userName eq "foo") or active eq true`)
	require.NoError(t, err)

	require.Equal(t, KindLogical, got.Kind)
	require.Equal(t, LogOr, got.LogOp)
	require.Equal(t, KindAttribute, got.Left.Kind)
	assert.Equal(t, "userName", got.Left.Path.Attr)
}

func TestParse_Not(t *testing.T) {
	got, err := Parse(`not (active eq true)`)
	require.NoError(t, err)
	require.Equal(t, KindNot, got.Kind)
	require.Equal(t, KindAttribute, got.Inner.Kind)
}

func TestParse_ValuePath(t *testing.T) {
	got, err := Parse(`emails[type eq "work" and primary eq true]`)
	require.NoError(t, err)

	require.Equal(t, KindValuePath, got.Kind)
	assert.Equal(t, "emails", got.Path.Attr)
	require.Equal(t, KindLogical, got.Inner.Kind)
	assert.Equal(t, "type", got.Inner.Left.Path.Attr)
	assert.Equal(t, "primary", got.Inner.Right.Path.Attr)
}

func TestParse_RejectsTrailingGarbage(t *testing.T) {
	_, err := Parse(`userName eq "david" )`)
	assert.Error(t, err)
}

func TestParse_RejectsEmpty(t *testing.T) {
	_, err := Parse(``)
	assert.Error(t, err)
}

func TestParse_RoundTrip(t *testing.T) {
	for _, input := range []string{
		`userName eq "david"`,
		`name.familyName ne "qiu"`,
		`emails[type eq "work" and primary eq true]`,
		`not (active eq true)`,
		`(userName eq "foo") or active eq true`,
		`a eq "1" and b eq "2" and c eq "3"`,
		`emails[type eq "work"] or not(active eq true)`,
		`urn:ietf:params:scim:schemas:extension:enterprise:2.0:User:employeeNumber eq "701"`,
	} {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			require.NoError(t, err)

			serialized := Serialize(first)
			second, err := Parse(serialized)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}
