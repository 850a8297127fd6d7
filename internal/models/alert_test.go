package models

import "testing"

func TestAlertStatus(t *testing.T) {
	reg := []Regulation{{ID: "r"}}
	haz := []Hazard{{ID: "h"}}

	cases := []struct {
		name  string
		alert Alert
		want  string
	}{
		{"fresh", Alert{IsNew: true}, StatusNew},
		{"new wins over reviewed", Alert{IsNew: true, IsReviewed: true, Regulations: reg, Hazards: haz}, StatusNew},
		{"missing hazards", Alert{Regulations: reg}, StatusIncomplete},
		{"missing regulations", Alert{Hazards: haz}, StatusIncomplete},
		{"incomplete even when reviewed", Alert{IsReviewed: true, Regulations: reg}, StatusIncomplete},
		{"reviewed", Alert{IsReviewed: true, Regulations: reg, Hazards: haz}, StatusReviewed},
		{"complete", Alert{Regulations: reg, Hazards: haz}, StatusComplete},
	}
	for _, tc := range cases {
		if got := tc.alert.Status(); got != tc.want {
			t.Fatalf("%s: Status() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
