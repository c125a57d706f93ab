package search

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestIsEmailQuery(t *testing.T) {
	tests := []struct {
		name string
		q    string
		want bool
	}{
		{"full email", "user@example.com", true},
		{"partial email", "user@", true},
		{"domain fragment", "@domain", true},
		{"name query", "dana levy", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmailQuery(tt.q); got != tt.want {
				t.Errorf("IsEmailQuery(%q) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestFoldedPrefixRange(t *testing.T) {
	filter := FoldedPrefixRange("last_name_ci", "  Lévy ")

	window, ok := filter["last_name_ci"].(bson.M)
	if !ok {
		t.Fatalf("expected range on last_name_ci, got %v", filter)
	}
	lo, _ := window["$gte"].(string)
	hi, _ := window["$lt"].(string)
	if lo != "levy" {
		t.Errorf("lower bound = %q, want folded %q", lo, "levy")
	}
	if hi != "levy￿" {
		t.Errorf("upper bound = %q, want %q", hi, "levy￿")
	}
}

func TestLeadFilter_Empty(t *testing.T) {
	filter := LeadFilter("   ")
	if len(filter) != 0 {
		t.Errorf("empty query should match everything, got %v", filter)
	}
}

func TestLeadFilter_Email(t *testing.T) {
	filter := LeadFilter("Dana@Example.com")

	window, ok := filter["email"].(bson.M)
	if !ok {
		t.Fatalf("expected email range, got %v", filter)
	}
	if window["$gte"] != "dana@example.com" {
		t.Errorf("lower bound = %v, want lower-cased email", window["$gte"])
	}
}

func TestLeadFilter_Name(t *testing.T) {
	filter := LeadFilter("coh")

	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or over both name fields, got %v", filter)
	}
	if _, ok := or[0]["last_name_ci"]; !ok {
		t.Errorf("first branch should match last_name_ci, got %v", or[0])
	}
	if _, ok := or[1]["first_name_ci"]; !ok {
		t.Errorf("second branch should match first_name_ci, got %v", or[1])
	}
}
