package filter

import (
	"testing"
	"time"

	coreerrors "github.com/aevon-lab/dashpoints/internal/core/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var ordersSchema = Schema{
	"status":     TypeString,
	"quantity":   TypeInt,
	"amount":     TypeDecimal,
	"paid":       TypeBool,
	"created_at": TypeDateTime,
	"shipped_on": TypeDate,
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      Spec
		wantError bool
	}{
		{name: "blank", raw: "   ", want: Spec{}},
		{name: "empty mapping", raw: "{}", want: Spec{}},
		{name: "null document", raw: "null", want: Spec{}},
		{
			name: "legacy literal",
			raw:  "{'status': 'active'}",
			want: Spec{{Attribute: "status", Op: OpEq, Raw: "active"}},
		},
		{
			name: "document order is kept",
			raw:  `{"status": "active", "quantity": 3}`,
			want: Spec{
				{Attribute: "status", Op: OpEq, Raw: "active"},
				{Attribute: "quantity", Op: OpEq, Raw: 3},
			},
		},
		{
			name: "list range",
			raw:  "{quantity: [1, 5]}",
			want: Spec{
				{Attribute: "quantity", Op: OpGte, Raw: 1},
				{Attribute: "quantity", Op: OpLte, Raw: 5},
			},
		},
		{
			name: "explicit bounds",
			raw:  "amount: {gt: 10, lt: 20.5}",
			want: Spec{
				{Attribute: "amount", Op: OpGt, Raw: 10},
				{Attribute: "amount", Op: OpLt, Raw: 20.5},
			},
		},
		{
			name: "lookup suffixes",
			raw:  "{'quantity__gte': 2, 'amount__range': [1, 2], 'status__exact': 'new'}",
			want: Spec{
				{Attribute: "quantity", Op: OpGte, Raw: 2},
				{Attribute: "amount", Op: OpGte, Raw: 1},
				{Attribute: "amount", Op: OpLte, Raw: 2},
				{Attribute: "status", Op: OpEq, Raw: "new"},
			},
		},
		{
			name: "double underscore without lookup is part of the name",
			raw:  "{'user__name': 'bob'}",
			want: Spec{{Attribute: "user__name", Op: OpEq, Raw: "bob"}},
		},
		{name: "syntax error", raw: "{status: [", wantError: true},
		{name: "top-level list", raw: "[1, 2]", wantError: true},
		{name: "scalar document", raw: "active", wantError: true},
		{name: "range with three items", raw: "{quantity: [1, 2, 3]}", wantError: true},
		{name: "unsupported bound", raw: "{quantity: {ne: 1}}", wantError: true},
		{name: "null value", raw: "{status: null}", wantError: true},
		{name: "nested list value", raw: "{status: [[1], 2]}", wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSpec(tc.raw)
			if tc.wantError {
				require.ErrorIs(t, err, ErrMalformedSpec)
				require.ErrorIs(t, err, coreerrors.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestBuild_CoercesToSchemaTypes(t *testing.T) {
	spec, err := ParseSpec(`{status: active, quantity: "4", amount: "12.50", paid: true, created_at: "2024-03-04T10:00:00", shipped_on: "2024-03-01"}`)
	require.NoError(t, err)

	f, err := Build(spec, ordersSchema, time.UTC)
	require.NoError(t, err)
	require.Len(t, f.Constraints, 6)

	require.Equal(t, "active", f.Constraints[0].Value)
	require.Equal(t, int64(4), f.Constraints[1].Value)
	require.True(t, decimal.RequireFromString("12.5").Equal(f.Constraints[2].Value.(decimal.Decimal)))
	require.Equal(t, true, f.Constraints[3].Value)
	require.Equal(t, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), f.Constraints[4].Value)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Constraints[5].Value)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "unknown attribute", raw: "{colour: red}", wantErr: ErrUnknownAttribute},
		{name: "bad int", raw: "{quantity: lots}", wantErr: ErrInvalidValue},
		{name: "fractional int", raw: "{quantity: 1.5}", wantErr: ErrInvalidValue},
		{name: "bad decimal", raw: "{amount: cheap}", wantErr: ErrInvalidValue},
		{name: "bad bool", raw: "{paid: maybe}", wantErr: ErrInvalidValue},
		{name: "bad date", raw: "{created_at: yesterday}", wantErr: ErrInvalidValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := ParseSpec(tc.raw)
			require.NoError(t, err)

			_, err = Build(spec, ordersSchema, time.UTC)
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, coreerrors.ErrConfiguration)
		})
	}
}

func TestFilter_Match(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Hour)

	spec, err := ParseSpec("{'status': 'active'}")
	require.NoError(t, err)
	base, err := Build(spec, ordersSchema, time.UTC)
	require.NoError(t, err)
	f := base.And(HalfOpen("created_at", &start, end)...)

	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{name: "active inside window", rec: Record{"status": "active", "created_at": start.Add(time.Hour)}, want: true},
		{name: "start edge is inclusive", rec: Record{"status": "active", "created_at": start}, want: true},
		{name: "end edge is exclusive", rec: Record{"status": "active", "created_at": end}, want: false},
		{name: "inactive inside window", rec: Record{"status": "inactive", "created_at": start.Add(time.Hour)}, want: false},
		{name: "active before window", rec: Record{"status": "active", "created_at": start.Add(-time.Second)}, want: false},
		{name: "missing date", rec: Record{"status": "active"}, want: false},
		{name: "nil date", rec: Record{"status": "active", "created_at": nil}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, f.Match(tc.rec))
		})
	}

	require.Len(t, base.Constraints, 1, "And must not mutate the receiver")
}

func TestFilter_MatchNumericRanges(t *testing.T) {
	spec, err := ParseSpec("{quantity: [2, 4], amount: {gt: 9.99}}")
	require.NoError(t, err)
	f, err := Build(spec, ordersSchema, time.UTC)
	require.NoError(t, err)

	require.True(t, f.Match(Record{"quantity": 2, "amount": decimal.RequireFromString("10")}))
	require.True(t, f.Match(Record{"quantity": int64(4), "amount": 10.5}))
	require.False(t, f.Match(Record{"quantity": 5, "amount": 10.5}))
	require.False(t, f.Match(Record{"quantity": 3, "amount": "9.99"}))
	require.False(t, f.Match(Record{"quantity": "three", "amount": 10.5}))
}

func TestHalfOpen_UnboundedStart(t *testing.T) {
	end := time.Date(2024, 3, 4, 13, 37, 0, 0, time.UTC)
	cs := HalfOpen("created_at", nil, end)
	require.Equal(t, []Constraint{{Attribute: "created_at", Op: OpLt, Value: end}}, cs)
}

func TestSchema_DateAttributes(t *testing.T) {
	require.Equal(t, []string{"created_at", "shipped_on"}, ordersSchema.DateAttributes())
	require.Empty(t, Schema{"status": TypeString}.DateAttributes())
}
