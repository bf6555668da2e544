package golang

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-typegen/pkg/metadata"
)

func TestIdentifiers(t *testing.T) {
	cases := []struct {
		in       string
		exported string
		local    string
	}{
		{in: "pet_id", exported: "PetId", local: "petId"},
		{in: "HTTPStatus", exported: "HTTPStatus", local: "httpStatus"},
		{in: "ID", exported: "ID", local: "id"},
		{in: "type", exported: "Type", local: "typeValue"},
		{in: "value", exported: "Value", local: "valueValue"},
		{in: "2-factor", exported: "N2Factor", local: "n2Factor"},
		{in: "---", exported: "X", local: "x"},
	}
	for _, tc := range cases {
		if got := exportedName(tc.in); got != tc.exported {
			t.Errorf("exportedName(%q) = %q, want %q", tc.in, got, tc.exported)
		}
		if got := localName(tc.in); got != tc.local {
			t.Errorf("localName(%q) = %q, want %q", tc.in, got, tc.local)
		}
	}
}

func TestPackageName(t *testing.T) {
	cases := map[string]string{
		"petstore":  "petstore",
		"Pet-Store": "petstore",
		"":          "generated",
		"2024api":   "p2024api",
		"type":      "typepkg",
		"dto":       "dtopkg",
		"my.api.v1": "myapiv1",
	}
	for in, want := range cases {
		if got := packageName(in); got != want {
			t.Errorf("packageName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueNames(t *testing.T) {
	taken := map[string]bool{}
	got := []string{
		unique("Name", taken, reservedMethods),
		unique("Name", taken, reservedMethods),
		unique("ToDTO", taken, reservedMethods),
	}
	if diff := cmp.Diff([]string{"Name", "Name2", "ToDTOField"}, got); diff != "" {
		t.Fatalf("unique mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanModelAvoidsBuildFunction(t *testing.T) {
	tag := &metadata.DataType{Name: "Tag", Kind: metadata.KindString}
	model := &metadata.ModelMetadata{Name: "Box", Fields: []metadata.FieldMetadata{
		{Name: "buildBox", SerializedName: "buildBox", DataType: tag},
	}}
	input := metadata.MustNewGenerationInput([]*metadata.DataType{tag}, []*metadata.ModelMetadata{model}, nil)

	plan, err := planModel(model, input)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := plan.fields[0].local; got != "buildBox2" {
		t.Fatalf("local = %q, want buildBox2", got)
	}
}

func TestTranslateConstraints(t *testing.T) {
	dt := &metadata.DataType{
		Name: "Code",
		Kind: metadata.KindString,
		Constraints: []metadata.Constraint{
			metadata.Pattern{Expr: "^[A-Z]+$"},
			metadata.MinimumLength{N: 2},
			metadata.MaximumLength{N: 8},
			metadata.Enum{Values: []any{"AB", "CD"}},
		},
	}
	predicates, err := translateConstraints(dt, "Code")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	var exprs []string
	for _, p := range predicates {
		exprs = append(exprs, p.expr)
	}
	want := []string{
		"codePattern.MatchString(value)",
		"utf8.RuneCountInString(value) >= 2",
		"utf8.RuneCountInString(value) <= 8",
		`(value == "AB" || value == "CD")`,
	}
	if diff := cmp.Diff(want, exprs); diff != "" {
		t.Fatalf("predicates mismatch (-want +got):\n%s", diff)
	}
	if predicates[0].patternVar != "codePattern" {
		t.Fatalf("pattern var = %q", predicates[0].patternVar)
	}
}

func TestCompareNumber(t *testing.T) {
	cases := []struct {
		kind  metadata.Kind
		op    string
		bound float64
		want  string
	}{
		{kind: metadata.KindInt32, op: ">=", bound: 0, want: "value >= 0"},
		{kind: metadata.KindInt32, op: "<", bound: 1.5, want: "float64(value) < 1.5"},
		{kind: metadata.KindInt32, op: "<=", bound: 1e12, want: "float64(value) <= 1000000000000.0"},
		{kind: metadata.KindInt64, op: "<=", bound: 1e12, want: "value <= 1000000000000"},
		{kind: metadata.KindFloat64, op: ">", bound: 2, want: "value > 2.0"},
		{kind: metadata.KindDecimal, op: ">", bound: 0.25, want: "value > 0.25"},
		{kind: metadata.KindFloat32, op: "<", bound: 10, want: "float64(value) < 10.0"},
	}
	for _, tc := range cases {
		if got := compareNumber(tc.kind, tc.op, tc.bound); got != tc.want {
			t.Errorf("compareNumber(%s, %s, %v) = %q, want %q", tc.kind, tc.op, tc.bound, got, tc.want)
		}
	}
}

func TestValidateRules(t *testing.T) {
	name := &metadata.DataType{Name: "Name", Kind: metadata.KindString, Constraints: []metadata.Constraint{
		metadata.MinimumLength{N: 1},
		metadata.MaximumLength{N: 40},
	}}
	score := &metadata.DataType{Name: "Score", Kind: metadata.KindInt32, Constraints: []metadata.Constraint{
		metadata.Minimum{Value: 0, Mode: metadata.Exclusive},
		metadata.Maximum{Value: 10, Mode: metadata.Inclusive},
	}}
	color := &metadata.DataType{Name: "Color", Kind: metadata.KindString, Constraints: []metadata.Constraint{
		metadata.Enum{Values: []any{"red", "dark blue"}},
	}}
	input := metadata.MustNewGenerationInput([]*metadata.DataType{name, score, color}, nil, nil)

	cases := map[string]struct {
		field fieldPlan
		want  string
	}{
		"required": {
			field: fieldPlan{meta: metadata.FieldMetadata{Name: "name", DataType: name}},
			want:  "required,min=1,max=40",
		},
		"optional bounds": {
			field: fieldPlan{meta: metadata.FieldMetadata{Name: "score", DataType: score}, optional: true},
			want:  "omitempty,gt=0,lte=10",
		},
		"collection": {
			field: fieldPlan{
				meta:       metadata.FieldMetadata{Name: "colors", DataType: color, IsCollection: true, CollectionElementType: color},
				collection: true,
				optional:   true,
			},
			want: "omitempty,dive,oneof=red 'dark blue'",
		},
		"model": {
			field: fieldPlan{meta: metadata.FieldMetadata{Name: "owner", DataType: metadata.NewReference("Owner")}, model: true},
			want:  "required",
		},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			if got := validateRules(tc.field, input); got != tc.want {
				t.Fatalf("validateRules = %q, want %q", got, tc.want)
			}
		})
	}
}
