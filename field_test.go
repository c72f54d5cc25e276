package cronspan

import (
	"errors"
	"reflect"
	"testing"
)

func fieldValues(t *testing.T, text string, kind FieldKind) []int {
	t.Helper()
	subs, err := parseField(text, kind)
	if err != nil {
		t.Fatalf("parseField(%q, %s): %v", text, kind, err)
	}
	return expandValues(subs)
}

func TestParseFieldWildcard(t *testing.T) {
	t.Parallel()

	got := fieldValues(t, "*", FieldMinute)
	if len(got) != 60 {
		t.Fatalf("expected 60 minute values for *, got %d", len(got))
	}
	if got[0] != 0 || got[59] != 59 {
		t.Fatalf("expected values 0..59, got first=%d last=%d", got[0], got[59])
	}
}

func TestParseFieldConstructs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		kind FieldKind
		want []int
	}{
		{"5", FieldMinute, []int{5}},
		{"5-8", FieldMinute, []int{5, 6, 7, 8}},
		{"*/15", FieldMinute, []int{0, 15, 30, 45}},
		{"5/15", FieldMinute, []int{5, 20, 35, 50}},
		{"1-10/3", FieldMinute, []int{1, 4, 7, 10}},
		{"1,5,1-3", FieldMinute, []int{1, 2, 3, 5}},
		{"0-23/6", FieldHour, []int{0, 6, 12, 18}},
		{"JAN,dec", FieldMonth, []int{1, 12}},
		{"jan-MAR", FieldMonth, []int{1, 2, 3}},
		{"MON-FRI", FieldDayOfWeek, []int{1, 2, 3, 4, 5}},
		{"7", FieldDayOfWeek, []int{0}},
		{"sun,SAT", FieldDayOfWeek, []int{0, 6}},
		{"*/2", FieldDayOfWeek, []int{0, 2, 4, 6}},
	}

	for _, tt := range tests {
		got := fieldValues(t, tt.text, tt.kind)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s %q: got %v, want %v", tt.kind, tt.text, got, tt.want)
		}
	}
}

func TestParseFieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		kind FieldKind
	}{
		{"", FieldMinute},
		{"x", FieldMinute},
		{"1-", FieldMinute},
		{"-5", FieldMinute},
		{"*/0", FieldMinute},
		{"5/0", FieldMinute},
		{"5/x", FieldMinute},
		{"/5", FieldMinute},
		{"1-2-3", FieldMinute},
		{"61", FieldMinute},
		{"5-3", FieldMinute},
		{"1,,3", FieldMinute},
		{"24", FieldHour},
		{"0", FieldDayOfMonth},
		{"32", FieldDayOfMonth},
		{"0", FieldMonth},
		{"13", FieldMonth},
		{"MOON", FieldDayOfWeek},
		// 7 normalizes to Sunday before the range is assembled, so 5-7
		// becomes 5-0 and is rejected.
		{"5-7", FieldDayOfWeek},
	}

	for _, tt := range tests {
		if _, err := parseField(tt.text, tt.kind); err == nil {
			t.Errorf("%s %q: expected error, got none", tt.kind, tt.text)
		}
	}
}

func TestParseReportsOffendingField(t *testing.T) {
	t.Parallel()

	_, err := Parse("0 9 x * *")
	var ferr *MalformedFieldError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected MalformedFieldError, got %v", err)
	}
	if ferr.Field != "day-of-month" {
		t.Fatalf("expected field day-of-month, got %q", ferr.Field)
	}
	if ferr.Cron != "0 9 x * *" {
		t.Fatalf("expected cron text in error, got %q", ferr.Cron)
	}
}

func TestParseFieldCount(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"", "* * * *", "* * * * * *"} {
		_, err := Parse(expr)
		var ferr *MalformedFieldError
		if !errors.As(err, &ferr) {
			t.Fatalf("Parse(%q): expected MalformedFieldError, got %v", expr, err)
		}
		if ferr.Field != "expression" {
			t.Fatalf("Parse(%q): expected expression-level error, got field %q", expr, ferr.Field)
		}
	}
}

func TestExpressionValuesAreCopies(t *testing.T) {
	t.Parallel()

	x, err := Parse("0 9 * * *")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	vals := x.Values(FieldMinute)
	vals[0] = 42
	if got := x.Values(FieldMinute)[0]; got != 0 {
		t.Fatalf("Values leaked internal state: got %d, want 0", got)
	}
}

func TestExpressionIdentityIsTextual(t *testing.T) {
	t.Parallel()

	a, err := Parse("*/1 * * * *")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse("* * * * *")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if a.String() == b.String() {
		t.Fatal("expected distinct identities for */1 and *")
	}
	if !reflect.DeepEqual(a.Values(FieldMinute), b.Values(FieldMinute)) {
		t.Fatal("expected */1 and * to match the same minute values")
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	x, err := Parse("0,30 9 * * MON")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	matches := x.Explain(FieldMinute)
	if len(matches) != 2 {
		t.Fatalf("expected 2 minute subentries, got %d", len(matches))
	}
	if matches[0].Spec != "0" || matches[1].Spec != "30" {
		t.Fatalf("unexpected subentry specs: %q, %q", matches[0].Spec, matches[1].Spec)
	}
	if !reflect.DeepEqual(matches[1].Values, []int{30}) {
		t.Fatalf("expected subentry 30 to match [30], got %v", matches[1].Values)
	}

	dow := x.Explain(FieldDayOfWeek)
	if len(dow) != 1 || !reflect.DeepEqual(dow[0].Values, []int{1}) {
		t.Fatalf("expected MON to match [1], got %+v", dow)
	}
}
