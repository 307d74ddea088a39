package common

import "testing"

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EntityType
		wantErr bool
	}{
		{name: "exact", input: "PERSON", want: EntityTypePerson},
		{name: "lowercase", input: "organization", want: EntityTypeOrganization},
		{name: "padded", input: "  Technology ", want: EntityTypeTechnology},
		{name: "unknown", input: "EVENT", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntityType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntityValidate(t *testing.T) {
	if err := (Entity{Name: "Apple", Type: EntityTypeOrganization}).Validate(); err != nil {
		t.Fatalf("valid entity rejected: %v", err)
	}
	if err := (Entity{Name: "Apple"}).Validate(); err != nil {
		t.Fatalf("untyped placeholder rejected: %v", err)
	}
	if err := (Entity{Type: EntityTypeOrganization}).Validate(); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if err := (Entity{Name: "Apple", Type: "FRUIT"}).Validate(); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestRelationshipValidate(t *testing.T) {
	if err := (Relationship{Subject: "A", Predicate: "owns", Object: "B"}).Validate(); err != nil {
		t.Fatalf("valid relationship rejected: %v", err)
	}
	if err := (Relationship{Subject: "A", Object: "B"}).Validate(); err == nil {
		t.Fatalf("expected error for missing predicate")
	}
}

func TestParseEndpointPolicy(t *testing.T) {
	for input, want := range map[string]EndpointPolicy{
		"":        AutoCreateEndpoints,
		"auto":    AutoCreateEndpoints,
		"REJECT":  RejectUnknownEndpoints,
		" reject": RejectUnknownEndpoints,
	} {
		got, err := ParseEndpointPolicy(input)
		if err != nil {
			t.Fatalf("ParseEndpointPolicy(%q) error = %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseEndpointPolicy(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseEndpointPolicy("maybe"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
